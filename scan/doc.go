// Package scan discovers component types under a namespace.
//
// A Scanner walks a list of resource locations and maps every entry back to
// a qualified type name:
//
//	catalog:               names compiled into the catalog
//	file:///srv/manifests  loose layout, <dir>/<pkg path>/<TypeName>.ioc
//	zip:///srv/types.zip   the same tree inside a zip archive
//
// Every candidate under the namespace is loaded through the catalog and kept
// only when it bears the component marker. Unreadable locations and load
// failures are logged and skipped.
package scan
