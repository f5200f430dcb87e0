package di

import (
	"fmt"
	"reflect"
	"unsafe"

	"github.com/kbukum/iockit/catalog"
	"github.com/kbukum/iockit/errors"
)

// selectConstructor picks the constructor for ct. implicit is true when the
// type declares no constructors and is built from its zero value.
func selectConstructor(ct *catalog.ComponentType) (ctor catalog.Constructor, implicit bool, err error) {
	marked := ct.InjectConstructors()
	switch {
	case len(marked) > 1:
		return catalog.Constructor{}, false, errors.AmbiguousConstructor(ct.QualifiedName, len(marked))
	case len(marked) == 1:
		return marked[0], false, nil
	}

	if len(ct.Constructors) == 0 {
		return catalog.Constructor{}, true, nil
	}
	if def, ok := ct.DefaultConstructor(); ok {
		return def, false, nil
	}
	return catalog.Constructor{}, false, errors.NoUsableConstructor(ct.QualifiedName)
}

// invoke calls ctor and converts panics, returned errors and nil results into
// INSTANTIATION_FAILED.
func invoke(ct *catalog.ComponentType, ctor catalog.Constructor, args []reflect.Value) (v reflect.Value, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = errors.InstantiationFailed(ct.QualifiedName, panicError(rec))
		}
	}()

	results := ctor.Fn.Call(args)
	if ctor.ReturnsError {
		if e, _ := results[1].Interface().(error); e != nil {
			return reflect.Value{}, errors.InstantiationFailed(ct.QualifiedName, e)
		}
	}
	if results[0].IsNil() {
		return reflect.Value{}, errors.InstantiationFailed(ct.QualifiedName, fmt.Errorf("constructor returned nil"))
	}
	return results[0], nil
}

// setField assigns value to field, reaching unexported fields through their
// address.
func setField(field, value reflect.Value) {
	if !field.CanSet() {
		field = reflect.NewAt(field.Type(), unsafe.Pointer(field.UnsafeAddr())).Elem()
	}
	field.Set(value)
}

func panicError(rec any) error {
	if e, ok := rec.(error); ok {
		return e
	}
	return fmt.Errorf("panic: %v", rec)
}
