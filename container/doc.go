// Package container is the IoC container entry point.
//
// A Container scans a namespace for component types, eagerly creates one
// singleton per type with its dependencies injected, and then runs the
// startup hooks:
//
//	c, err := container.New("github.com/kbukum/iockit/demo")
//	if err != nil {
//	    return err
//	}
//	if err := c.Start(ctx); err != nil {
//	    return err
//	}
//	beta, err := container.Get[services.BetaService](ctx, c)
//
// Start moves the container through Unstarted, Scanned, Wired and
// CallbacksInvoked, and can only be called once.
package container
