package scan

import (
	"archive/zip"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/kbukum/iockit/catalog"
	"github.com/kbukum/iockit/errors"
)

// ManifestPath returns the path of the manifest for a qualified name,
// relative to the layout root.
func ManifestPath(name string) (string, error) {
	pkgPath, typeName, ok := catalog.SplitQualifiedName(name)
	if !ok {
		return "", errors.InvalidArgument("name", "not a qualified type name: "+name)
	}
	return path.Join(pkgPath, typeName+ManifestExt), nil
}

// ExportManifest writes the loose layout for names under dir on fs.
func ExportManifest(fs afero.Fs, dir string, names []string) error {
	for _, name := range names {
		rel, err := ManifestPath(name)
		if err != nil {
			return err
		}
		target := filepath.Join(dir, filepath.FromSlash(rel))
		if err := fs.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return err
		}
		if err := afero.WriteFile(fs, target, []byte(name+"\n"), 0o644); err != nil {
			return err
		}
	}
	return nil
}

// ExportArchive writes the archive layout for names to archive on fs.
// Directory entries are written too so the tree can be walked from its root.
func ExportArchive(fs afero.Fs, archive string, names []string) (err error) {
	f, err := fs.OpenFile(archive, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	zw := zip.NewWriter(f)
	dirs := make(map[string]struct{})
	for _, name := range names {
		rel, err := ManifestPath(name)
		if err != nil {
			return err
		}
		parts := strings.Split(path.Dir(rel), "/")
		for i := range parts {
			d := strings.Join(parts[:i+1], "/") + "/"
			if _, ok := dirs[d]; ok {
				continue
			}
			dirs[d] = struct{}{}
			if _, err := zw.Create(d); err != nil {
				return err
			}
		}
		w, err := zw.Create(rel)
		if err != nil {
			return err
		}
		if _, err := w.Write([]byte(name + "\n")); err != nil {
			return err
		}
	}
	return zw.Close()
}
