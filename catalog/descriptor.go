package catalog

import (
	"reflect"
	"strings"
)

// Constructor is a declared constructor of a component type.
type Constructor struct {
	// Fn is the constructor function value.
	Fn reflect.Value
	// Inject is true when the constructor carries the injection marker.
	Inject bool
	// Params lists the struct types of the parameters in declaration order.
	Params []reflect.Type
	// ReturnsError is true for func(...) (*T, error) constructors.
	ReturnsError bool
}

// Field is an injectable field of a component type.
type Field struct {
	Name     string
	Index    int
	Type     reflect.Type // struct type behind the pointer
	Exported bool
}

// ComponentType describes a loadable type. It is immutable once built.
type ComponentType struct {
	Type          reflect.Type
	QualifiedName string
	// Name is the declared bean name, empty when unnamed.
	Name string
	// Component is true when the type bears the component marker.
	Component    bool
	Constructors []Constructor
	Fields       []Field
	StartHooks   []string
}

func (ct *ComponentType) String() string { return ct.QualifiedName }

// InjectConstructors returns the constructors carrying the injection marker.
func (ct *ComponentType) InjectConstructors() []Constructor {
	var out []Constructor
	for _, c := range ct.Constructors {
		if c.Inject {
			out = append(out, c)
		}
	}
	return out
}

// DefaultConstructor returns the declared zero-argument constructor, if any.
func (ct *ComponentType) DefaultConstructor() (Constructor, bool) {
	for _, c := range ct.Constructors {
		if len(c.Params) == 0 {
			return c, true
		}
	}
	return Constructor{}, false
}

// QualifiedName returns the package-qualified name of t, for example
// "github.com/kbukum/iockit/demo/services.AlphaService".
func QualifiedName(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}
	if t.Name() == "" || t.PkgPath() == "" {
		return t.String()
	}
	return t.PkgPath() + "." + t.Name()
}

// SplitQualifiedName splits a qualified name into package path and type name.
// Type names never contain dots, so the last dot separates the two.
func SplitQualifiedName(name string) (pkgPath, typeName string, ok bool) {
	i := strings.LastIndex(name, ".")
	if i <= 0 || i == len(name)-1 || strings.Contains(name[i+1:], "/") {
		return "", "", false
	}
	return name[:i], name[i+1:], true
}
