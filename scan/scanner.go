package scan

import (
	"archive/zip"
	"bytes"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/afero/zipfs"

	"github.com/kbukum/iockit/catalog"
	"github.com/kbukum/iockit/errors"
	"github.com/kbukum/iockit/logger"
)

// Scanner discovers component types.
type Scanner struct {
	catalog   *catalog.Catalog
	fs        afero.Fs
	locations []string
	log       *logger.Logger
}

// Option configures a Scanner.
type Option func(*Scanner)

// WithLocations replaces the scanned locations.
func WithLocations(locations ...string) Option {
	return func(s *Scanner) {
		s.locations = append([]string(nil), locations...)
	}
}

// WithFileSystem sets the file system file and zip locations are read from.
func WithFileSystem(fs afero.Fs) Option {
	return func(s *Scanner) {
		if fs != nil {
			s.fs = fs
		}
	}
}

// WithLogger sets the scanner logger.
func WithLogger(l *logger.Logger) Option {
	return func(s *Scanner) {
		if l != nil {
			s.log = l
		}
	}
}

// New creates a Scanner over cat. Without options it scans only the catalog
// location and reads files from the OS file system.
func New(cat *catalog.Catalog, opts ...Option) *Scanner {
	if cat == nil {
		cat = catalog.Default
	}
	s := &Scanner{
		catalog:   cat,
		fs:        afero.NewOsFs(),
		locations: []string{CatalogLocation},
		log:       logger.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Locations returns the configured locations.
func (s *Scanner) Locations() []string {
	return append([]string(nil), s.locations...)
}

// Scan returns the component types under basePackage, sorted by qualified
// name.
func (s *Scanner) Scan(basePackage string) ([]*catalog.ComponentType, error) {
	ns := strings.TrimSpace(basePackage)
	if ns == "" {
		return nil, errors.InvalidArgument("basePackage", "must not be blank")
	}

	seen := make(map[string]struct{})
	var found []*catalog.ComponentType
	for _, raw := range s.locations {
		loc := ParseLocation(raw)
		names, err := s.namesAt(loc)
		if err != nil {
			s.log.Warn("Skipping unreadable location", map[string]interface{}{
				logger.FieldLocation: loc.Raw,
				logger.FieldError:    err.Error(),
			})
			continue
		}

		for _, name := range names {
			if _, dup := seen[name]; dup {
				continue
			}
			pkgPath, _, ok := catalog.SplitQualifiedName(name)
			if !ok || !InNamespace(pkgPath, ns) {
				continue
			}
			seen[name] = struct{}{}

			ct, err := s.catalog.Load(name)
			if err != nil {
				s.log.Warn("Skipping type that failed to load", map[string]interface{}{
					logger.FieldType:     name,
					logger.FieldLocation: loc.Raw,
					logger.FieldError:    err.Error(),
				})
				continue
			}
			if !ct.Component {
				continue
			}
			s.log.Debug("Found component", map[string]interface{}{
				logger.FieldType:     name,
				logger.FieldLocation: loc.Raw,
			})
			found = append(found, ct)
		}
	}

	sort.Slice(found, func(i, j int) bool {
		return found[i].QualifiedName < found[j].QualifiedName
	})
	return found, nil
}

func (s *Scanner) namesAt(loc Location) ([]string, error) {
	switch loc.Scheme {
	case SchemeCatalog:
		return s.catalog.Names(), nil
	case SchemeFile:
		return manifestNames(afero.NewBasePathFs(s.fs, loc.Path))
	case SchemeZip:
		fs, err := s.openArchive(loc.Path)
		if err != nil {
			return nil, err
		}
		return manifestNames(fs)
	default:
		s.log.Debug("Ignoring location with unknown scheme", map[string]interface{}{
			logger.FieldLocation: loc.Raw,
		})
		return nil, nil
	}
}

func (s *Scanner) openArchive(name string) (afero.Fs, error) {
	data, err := afero.ReadFile(s.fs, name)
	if err != nil {
		return nil, err
	}
	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, err
	}
	return zipfs.New(r), nil
}

// manifestNames walks fs from its root and maps every manifest file to the
// qualified name its path encodes.
func manifestNames(fs afero.Fs) ([]string, error) {
	var names []string
	err := afero.Walk(fs, string(filepath.Separator), func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || !strings.HasSuffix(info.Name(), ManifestExt) {
			return nil
		}
		rel := strings.TrimPrefix(filepath.ToSlash(p), "/")
		dir, file := path.Split(rel)
		dir = strings.TrimSuffix(dir, "/")
		if dir == "" {
			return nil
		}
		names = append(names, dir+"."+strings.TrimSuffix(file, ManifestExt))
		return nil
	})
	return names, err
}
