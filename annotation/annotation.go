// Package annotation defines the markers the container reads from struct
// types.
//
// A struct becomes a component by embedding Component. The optional bean
// name is taken from the embedded field's `component` tag:
//
//	type AlphaService struct {
//	    annotation.Component `component:"alpha"`
//	}
//
// Pointer fields tagged `inject:""` are injection points:
//
//	type StartupRunner struct {
//	    annotation.Component
//	    greeting *GreetingService `inject:""`
//	}
//
// Constructor and startup-method markers cannot be attached to Go functions
// and methods, so they are declared alongside the type in the catalog
// package.
package annotation

import (
	"reflect"
	"strings"
)

const (
	// ComponentTag is the struct tag holding the optional bean name.
	ComponentTag = "component"
	// InjectTag marks a field as an injection point.
	InjectTag = "inject"
)

// Component marks the embedding struct as container-managed.
type Component struct{}

var componentType = reflect.TypeOf(Component{})

// ComponentOf reports whether t is a struct type embedding Component at its
// top level and returns the trimmed declared name.
func ComponentOf(t reflect.Type) (name string, ok bool) {
	if t == nil || t.Kind() != reflect.Struct {
		return "", false
	}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.Anonymous && f.Type == componentType {
			return strings.TrimSpace(f.Tag.Get(ComponentTag)), true
		}
	}
	return "", false
}

// IsComponent reports whether t carries the component marker.
func IsComponent(t reflect.Type) bool {
	_, ok := ComponentOf(t)
	return ok
}

// IsInjectField reports whether f carries the injection marker.
func IsInjectField(f reflect.StructField) bool {
	_, ok := f.Tag.Lookup(InjectTag)
	return ok
}
