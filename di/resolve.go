package di

import (
	"context"
	"fmt"
	"reflect"
)

// MustResolve returns the singleton of T, panicking on error.
//
// Example:
//
//	beta := di.MustResolve[services.BetaService](ctx, r)
func MustResolve[T any](ctx context.Context, f BeanFactory) *T {
	result, err := Resolve[T](ctx, f)
	if err != nil {
		panic(fmt.Sprintf("di: %v", err))
	}
	return result
}

// Resolve returns the singleton of T.
//
// Example:
//
//	beta, err := di.Resolve[services.BetaService](ctx, r)
//	if err != nil {
//	    return fmt.Errorf("failed to get beta service: %w", err)
//	}
func Resolve[T any](ctx context.Context, f BeanFactory) (*T, error) {
	instance, err := f.GetBean(ctx, reflect.TypeOf((*T)(nil)).Elem())
	if err != nil {
		return nil, err
	}
	return cast[T](instance)
}

// TryResolve returns the singleton of T, or nil and false on any failure.
//
// Example:
//
//	if probe, ok := di.TryResolve[components.ScanProbe](ctx, r); ok {
//	    _ = probe
//	}
func TryResolve[T any](ctx context.Context, f BeanFactory) (*T, bool) {
	result, err := Resolve[T](ctx, f)
	if err != nil {
		return nil, false
	}
	return result, true
}

// Create builds a new, unstored instance of T.
func Create[T any](ctx context.Context, f BeanFactory) (*T, error) {
	instance, err := f.CreateInstance(ctx, reflect.TypeOf((*T)(nil)).Elem())
	if err != nil {
		return nil, err
	}
	return cast[T](instance)
}

func cast[T any](instance any) (*T, error) {
	result, ok := instance.(*T)
	if !ok {
		return nil, fmt.Errorf("di: bean is %T, expected %T", instance, (*T)(nil))
	}
	return result, nil
}
