// Package catalog is the table of types the container can load by name.
//
// Go cannot enumerate or load types by name at runtime, so packages that
// provide components register them, usually from init:
//
//	func init() {
//	    catalog.MustRegister[BetaService](catalog.InjectConstructor(NewBetaService))
//	    catalog.MustRegister[StartupRunner](catalog.OnStart("OnStart"))
//	}
//
// Registration records what annotations would otherwise carry: the declared
// constructors (and which one is marked for injection) and the startup
// methods. The component marker itself and field injection points are read
// from the struct type (see package annotation).
package catalog
