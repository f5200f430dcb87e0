package container

import (
	"context"
	"fmt"

	"github.com/kbukum/iockit/di"
)

// Get returns the singleton of T.
func Get[T any](ctx context.Context, c *Container) (*T, error) {
	return di.Resolve[T](ctx, c)
}

// MustGet returns the singleton of T, panicking on error.
func MustGet[T any](ctx context.Context, c *Container) *T {
	return di.MustResolve[T](ctx, c)
}

// GetNamed returns the singleton bound to name as a *T.
func GetNamed[T any](c *Container, name string) (*T, error) {
	inst, err := c.GetBeanByName(name)
	if err != nil {
		return nil, err
	}
	result, ok := inst.(*T)
	if !ok {
		return nil, fmt.Errorf("container: bean %q is %T, expected %T", name, inst, (*T)(nil))
	}
	return result, nil
}
