package catalog

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/kbukum/iockit/annotation"
	"github.com/kbukum/iockit/errors"
)

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// Option declares a constructor or startup hook for a registered type.
type Option func(*registration)

type constructorDecl struct {
	fn     any
	inject bool
}

type registration struct {
	typ          reflect.Type
	constructors []constructorDecl
	hooks        []string
}

// Constructor declares an unmarked constructor. A zero-argument constructor
// declared this way is used when no constructor carries the injection marker.
func Constructor(fn any) Option {
	return func(r *registration) {
		r.constructors = append(r.constructors, constructorDecl{fn: fn})
	}
}

// InjectConstructor declares a constructor carrying the injection marker.
// Its parameters are resolved from the container.
func InjectConstructor(fn any) Option {
	return func(r *registration) {
		r.constructors = append(r.constructors, constructorDecl{fn: fn, inject: true})
	}
}

// OnStart marks methods to be invoked once all components are wired.
func OnStart(methods ...string) Option {
	return func(r *registration) {
		r.hooks = append(r.hooks, methods...)
	}
}

// Catalog maps qualified type names to registrations.
type Catalog struct {
	mu            sync.RWMutex
	registrations map[string]*registration
	byType        map[reflect.Type]*registration
	descriptors   map[reflect.Type]*ComponentType
}

// New creates an empty catalog.
func New() *Catalog {
	return &Catalog{
		registrations: make(map[string]*registration),
		byType:        make(map[reflect.Type]*registration),
		descriptors:   make(map[reflect.Type]*ComponentType),
	}
}

// Default is the catalog packages register into from init.
var Default = New()

// MustRegister registers T in the Default catalog and panics on error.
func MustRegister[T any](opts ...Option) {
	if err := Register[T](Default, opts...); err != nil {
		panic(err)
	}
}

// Register registers T in c.
func Register[T any](c *Catalog, opts ...Option) error {
	return c.Register(reflect.TypeOf((*T)(nil)).Elem(), opts...)
}

// Register adds t to the catalog. Constructor signatures are checked here;
// startup hook arity is only checked at dispatch time.
func (c *Catalog) Register(t reflect.Type, opts ...Option) error {
	if t == nil {
		return errors.InvalidArgument("type", "must not be nil")
	}
	name := QualifiedName(t)
	if t.Kind() != reflect.Struct || t.Name() == "" {
		return errors.InvalidRegistration(name, "only named struct types can be registered")
	}

	reg := &registration{typ: t}
	for _, opt := range opts {
		opt(reg)
	}
	for _, decl := range reg.constructors {
		if _, err := buildConstructor(t, decl); err != nil {
			return err
		}
	}
	for _, h := range reg.hooks {
		if strings.TrimSpace(h) == "" {
			return errors.InvalidRegistration(name, "startup hook name must not be blank")
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.registrations[name]; exists {
		return errors.AlreadyExists("type", name)
	}
	c.registrations[name] = reg
	c.byType[t] = reg
	delete(c.descriptors, t)
	return nil
}

// Names returns the qualified names of every registered type, sorted.
func (c *Catalog) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	names := make([]string, 0, len(c.registrations))
	for name := range c.registrations {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of registered types.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.registrations)
}

// Load loads a registered type by qualified name.
func (c *Catalog) Load(name string) (*ComponentType, error) {
	c.mu.RLock()
	reg, ok := c.registrations[name]
	c.mu.RUnlock()
	if !ok {
		return nil, errors.NotFound("type", name)
	}
	return c.Describe(reg.typ)
}

// Describe returns the descriptor of any struct type. Types that were never
// registered have no declared constructors and no startup hooks.
func (c *Catalog) Describe(t reflect.Type) (*ComponentType, error) {
	if t == nil {
		return nil, errors.InvalidArgument("type", "must not be nil")
	}

	c.mu.RLock()
	if ct, ok := c.descriptors[t]; ok {
		c.mu.RUnlock()
		return ct, nil
	}
	reg := c.byType[t]
	c.mu.RUnlock()

	ct, err := describe(t, reg)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if cached, ok := c.descriptors[t]; ok {
		return cached, nil
	}
	c.descriptors[t] = ct
	return ct, nil
}

func describe(t reflect.Type, reg *registration) (*ComponentType, error) {
	name := QualifiedName(t)
	if t.Kind() != reflect.Struct {
		return nil, errors.UnsupportedType(name, "components must be struct types")
	}

	ct := &ComponentType{
		Type:          t,
		QualifiedName: name,
	}
	ct.Name, ct.Component = annotation.ComponentOf(t)

	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !annotation.IsInjectField(f) {
			continue
		}
		if !isStructPointer(f.Type) {
			return nil, errors.UnsupportedType(name, fmt.Sprintf("inject field %s must be a pointer to a struct, got %s", f.Name, f.Type))
		}
		ct.Fields = append(ct.Fields, Field{
			Name:     f.Name,
			Index:    i,
			Type:     f.Type.Elem(),
			Exported: f.IsExported(),
		})
	}

	if reg != nil {
		for _, decl := range reg.constructors {
			ctor, err := buildConstructor(t, decl)
			if err != nil {
				return nil, err
			}
			ct.Constructors = append(ct.Constructors, ctor)
		}
		ct.StartHooks = append([]string(nil), reg.hooks...)
	}
	return ct, nil
}

func buildConstructor(t reflect.Type, decl constructorDecl) (Constructor, error) {
	name := QualifiedName(t)
	fn := reflect.ValueOf(decl.fn)
	if !fn.IsValid() || fn.Kind() != reflect.Func || fn.IsNil() {
		return Constructor{}, errors.InvalidRegistration(name, "constructor must be a non-nil function")
	}

	ft := fn.Type()
	if ft.IsVariadic() {
		return Constructor{}, errors.InvalidRegistration(name, "constructor must not be variadic")
	}
	if ft.NumOut() < 1 || ft.NumOut() > 2 || ft.Out(0) != reflect.PointerTo(t) {
		return Constructor{}, errors.InvalidRegistration(name, fmt.Sprintf("constructor must return *%s or (*%s, error), got %s", t.Name(), t.Name(), ft))
	}
	if ft.NumOut() == 2 && ft.Out(1) != errorType {
		return Constructor{}, errors.InvalidRegistration(name, fmt.Sprintf("second constructor result must be error, got %s", ft.Out(1)))
	}

	params := make([]reflect.Type, ft.NumIn())
	for i := 0; i < ft.NumIn(); i++ {
		in := ft.In(i)
		if !isStructPointer(in) {
			return Constructor{}, errors.InvalidRegistration(name, fmt.Sprintf("constructor parameter %d must be a pointer to a struct, got %s", i, in))
		}
		params[i] = in.Elem()
	}

	return Constructor{
		Fn:           fn,
		Inject:       decl.inject,
		Params:       params,
		ReturnsError: ft.NumOut() == 2,
	}, nil
}

func isStructPointer(t reflect.Type) bool {
	return t.Kind() == reflect.Pointer && t.Elem().Kind() == reflect.Struct
}
