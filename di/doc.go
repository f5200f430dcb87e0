// Package di creates and wires component instances.
//
// A Resolver turns component types into singletons: it selects a
// constructor, resolves the constructor parameters and the `inject` fields
// through the same get-or-create path, and stores every created instance in
// a registry.Registry.
//
//	r := di.NewResolver(catalog.Default, registry.New(log), di.WithLogger(log))
//	beta, err := di.Resolve[services.BetaService](ctx, r)
//
// Construction is constructor-first with field injection afterwards. A type
// requested again while it is still being built is a circular dependency and
// fails immediately.
package di
