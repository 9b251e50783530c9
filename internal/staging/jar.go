// SPDX-License-Identifier: MPL-2.0

package staging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
	"github.com/klauspost/compress/zip"
)

const (
	// ManifestPath is the jar entry holding the manifest.
	ManifestPath = "META-INF/MANIFEST.MF"

	manifest = "Manifest-Version: 1.0\r\nCreated-By: packsmith\r\n\r\n"
)

// DefaultJarExclusions are skipped when building the primary jar from compiled classes.
var DefaultJarExclusions = MustExclusions(`package\.html`)

// BuildJar writes a jar at dest holding every file below dir plus a fresh manifest.
// A missing dir yields a manifest-only jar and a warning.
func BuildJar(fs billy.Filesystem, dir, dest string, excl *Exclusions, logger Logger) error {
	logger = orNop(logger)

	if _, err := fs.Stat(dir); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("build jar %s: %w", dest, err)
		}
		logger.Warn("jar will be empty, no content was marked for inclusion", "dir", dir)
		dir = ""
	}

	if err := writeJar(fs, dir, dest, excl); err != nil {
		return fmt.Errorf("build jar %s: %w", dest, err)
	}
	logger.Debug("built jar", "file", dest)
	return nil
}

func writeJar(fs billy.Filesystem, dir, dest string, excl *Exclusions) (err error) {
	if err = fs.MkdirAll(filepath.Dir(dest), dirPerm); err != nil {
		return err
	}

	f, err := fs.Create(dest)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	zw := zip.NewWriter(f)
	defer func() {
		if closeErr := zw.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	if _, err = zw.Create("META-INF/"); err != nil {
		return err
	}
	w, err := zw.CreateHeader(&zip.FileHeader{Name: ManifestPath, Method: zip.Deflate})
	if err != nil {
		return err
	}
	if _, err = io.WriteString(w, manifest); err != nil {
		return err
	}

	if dir == "" {
		return nil
	}

	return util.Walk(fs, dir, func(path string, info os.FileInfo, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if path == dir {
			return nil
		}
		if excl.Excludes(info.Name()) {
			if info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		rel, relErr := filepath.Rel(dir, path)
		if relErr != nil {
			return relErr
		}
		name := filepath.ToSlash(rel)

		if info.IsDir() {
			if name == "META-INF" {
				return nil
			}
			_, createErr := zw.Create(name + "/")
			return createErr
		}
		if name == ManifestPath {
			return nil
		}
		return addZipEntry(fs, zw, path, name, info)
	})
}

// addZipEntry copies a single file into zw under name.
func addZipEntry(fs billy.Filesystem, zw *zip.Writer, path, name string, info os.FileInfo) (err error) {
	header, err := zip.FileInfoHeader(info)
	if err != nil {
		return fmt.Errorf("failed to create file header for %s: %w", path, err)
	}
	header.Name = name
	header.Method = zip.Deflate

	w, err := zw.CreateHeader(header)
	if err != nil {
		return fmt.Errorf("failed to create entry %s: %w", name, err)
	}

	in, err := fs.Open(path)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := in.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	_, err = io.Copy(w, in)
	return err
}
