package di

import (
	"context"
	"fmt"
	"reflect"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/iockit/catalog"
	"github.com/kbukum/iockit/errors"
	"github.com/kbukum/iockit/logger"
	"github.com/kbukum/iockit/observability"
	"github.com/kbukum/iockit/registry"
)

// BeanFactory is the resolution surface shared by Resolver and the container.
type BeanFactory interface {
	GetBean(ctx context.Context, t reflect.Type) (any, error)
	CreateInstance(ctx context.Context, t reflect.Type) (any, error)
}

// Resolver creates singletons on demand. All get-or-create work runs under a
// single lock, so concurrent GetBean calls still yield one instance per type.
// Constructors must not call back into the Resolver.
type Resolver struct {
	catalog  *catalog.Catalog
	registry *registry.Registry
	log      *logger.Logger
	tracer   trace.Tracer
	metrics  *observability.ContainerMetrics
	mu       sync.Mutex
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithLogger sets the resolver logger.
func WithLogger(l *logger.Logger) Option {
	return func(r *Resolver) {
		if l != nil {
			r.log = l
		}
	}
}

// WithTracer sets the tracer used for creation spans.
func WithTracer(t trace.Tracer) Option {
	return func(r *Resolver) {
		if t != nil {
			r.tracer = t
		}
	}
}

// WithMetrics sets the instruments updated on every creation.
func WithMetrics(m *observability.ContainerMetrics) Option {
	return func(r *Resolver) { r.metrics = m }
}

// NewResolver creates a Resolver reading type descriptors from cat and
// storing singletons in reg.
func NewResolver(cat *catalog.Catalog, reg *registry.Registry, opts ...Option) *Resolver {
	if cat == nil {
		cat = catalog.Default
	}
	r := &Resolver{
		catalog:  cat,
		registry: reg,
		log:      logger.NewNop(),
		tracer:   observability.Tracer(observability.InstrumentationName),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.registry == nil {
		r.registry = registry.New(r.log)
	}
	return r
}

// Registry returns the registry the resolver stores singletons in.
func (r *Resolver) Registry() *registry.Registry { return r.registry }

// GetBean returns the singleton of t, creating and storing it on first use.
// Pointer types resolve to their struct element.
func (r *Resolver) GetBean(ctx context.Context, t reflect.Type) (any, error) {
	t, err := normalize(t)
	if err != nil {
		return nil, err
	}
	if inst, ok := r.registry.Get(t); ok {
		return inst, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	return r.getBean(ctx, newCreationChain(), t)
}

// CreateInstance builds a new instance of t without storing it. Its
// dependencies are resolved as singletons.
func (r *Resolver) CreateInstance(ctx context.Context, t reflect.Type) (any, error) {
	t, err := normalize(t)
	if err != nil {
		return nil, err
	}
	ct, err := r.catalog.Describe(t)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	return r.createInstance(ctx, newCreationChain(), ct)
}

func (r *Resolver) getBean(ctx context.Context, chain *creationChain, t reflect.Type) (any, error) {
	if inst, ok := r.registry.Get(t); ok {
		return inst, nil
	}

	ct, err := r.catalog.Describe(t)
	if err != nil {
		return nil, err
	}
	inst, err := r.createInstance(ctx, chain, ct)
	if err != nil {
		return nil, err
	}
	if err := r.registry.Put(ct, inst); err != nil {
		return nil, err
	}
	return inst, nil
}

func (r *Resolver) createInstance(ctx context.Context, chain *creationChain, ct *catalog.ComponentType) (any, error) {
	ctx, span := r.tracer.Start(ctx, observability.SpanCreateInstance, trace.WithAttributes(
		attribute.String(observability.AttrType, ct.QualifiedName),
		attribute.String(observability.AttrBeanName, ct.Name),
	))
	defer span.End()

	start := time.Now()
	inst, err := r.build(ctx, chain, ct)
	if err != nil {
		observability.SetSpanError(span, err)
		r.metrics.RecordBeanFailed(ctx, ct.QualifiedName, codeOf(err))
		return nil, err
	}

	elapsed := time.Since(start)
	r.metrics.RecordBeanCreated(ctx, ct.QualifiedName, elapsed)
	r.log.Debug("Instance created",
		logger.Fields(logger.FieldType, ct.QualifiedName),
		logger.DurationFields("create_instance", elapsed),
	)
	return inst, nil
}

// build runs the constructor-first, field-fallback policy for ct while ct is
// held in the creation chain.
func (r *Resolver) build(ctx context.Context, chain *creationChain, ct *catalog.ComponentType) (any, error) {
	release, err := chain.enter(ct)
	defer release()
	if err != nil {
		return nil, err
	}

	ctor, implicit, err := selectConstructor(ct)
	if err != nil {
		return nil, err
	}

	var v reflect.Value
	if implicit {
		v = reflect.New(ct.Type)
	} else {
		args := make([]reflect.Value, len(ctor.Params))
		for i, p := range ctor.Params {
			dep, err := r.getBean(ctx, chain, p)
			if err != nil {
				return nil, fmt.Errorf("%s: constructor parameter %d (%s): %w", ct.QualifiedName, i, catalog.QualifiedName(p), err)
			}
			args[i] = reflect.ValueOf(dep)
		}
		if v, err = invoke(ct, ctor, args); err != nil {
			return nil, err
		}
	}

	for _, f := range ct.Fields {
		dep, err := r.getBean(ctx, chain, f.Type)
		if err != nil {
			return nil, fmt.Errorf("%s: field %s (%s): %w", ct.QualifiedName, f.Name, catalog.QualifiedName(f.Type), err)
		}
		setField(v.Elem().Field(f.Index), reflect.ValueOf(dep))
	}

	return v.Interface(), nil
}

func normalize(t reflect.Type) (reflect.Type, error) {
	if t == nil {
		return nil, errors.InvalidArgument("type", "must not be nil")
	}
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil, errors.UnsupportedType(catalog.QualifiedName(t), "only struct types can be resolved")
	}
	return t, nil
}

func codeOf(err error) string {
	if appErr, ok := errors.AsAppError(err); ok {
		return string(appErr.Code)
	}
	return "UNKNOWN"
}
