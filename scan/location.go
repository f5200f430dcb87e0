package scan

import (
	"strings"
)

// Location schemes understood by the scanner.
const (
	SchemeCatalog = "catalog"
	SchemeFile    = "file"
	SchemeZip     = "zip"
)

// ManifestExt is the extension of a type manifest in the file layouts.
const ManifestExt = ".ioc"

// CatalogLocation is the default location: every name in the catalog.
const CatalogLocation = SchemeCatalog + ":"

// Location is a parsed resource location.
type Location struct {
	Raw    string
	Scheme string
	Path   string
}

// ParseLocation splits "scheme:path" and "scheme://path" forms. A location
// without a scheme is treated as a directory.
func ParseLocation(raw string) Location {
	raw = strings.TrimSpace(raw)
	scheme, rest, found := strings.Cut(raw, ":")
	if !found {
		return Location{Raw: raw, Scheme: SchemeFile, Path: raw}
	}
	return Location{
		Raw:    raw,
		Scheme: strings.ToLower(scheme),
		Path:   strings.TrimPrefix(rest, "//"),
	}
}

// FileLocation returns the location of a loose manifest directory.
func FileLocation(dir string) string { return SchemeFile + "://" + dir }

// ZipLocation returns the location of a manifest archive.
func ZipLocation(archive string) string { return SchemeZip + "://" + archive }

// InNamespace reports whether pkgPath equals ns or is nested under it.
func InNamespace(pkgPath, ns string) bool {
	ns = strings.TrimSuffix(ns, "/")
	return pkgPath == ns || strings.HasPrefix(pkgPath, ns+"/")
}
