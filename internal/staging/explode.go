// SPDX-License-Identifier: MPL-2.0

package staging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/klauspost/compress/zip"
)

// ExplodeZip extracts every file entry of the zip (or jar) at src into dir.
// Directory entries are implied by the files below them.
func ExplodeZip(fs billy.Filesystem, src, dir string) (err error) {
	info, err := fs.Stat(src)
	if err != nil {
		return fmt.Errorf("explode %s: %w", src, err)
	}

	f, err := fs.Open(src)
	if err != nil {
		return fmt.Errorf("explode %s: %w", src, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	zr, err := zip.NewReader(f, info.Size())
	if err != nil {
		return &ArchiveError{File: src, Err: err}
	}

	if err = fs.MkdirAll(dir, dirPerm); err != nil {
		return fmt.Errorf("explode %s: %w", src, err)
	}

	for _, entry := range zr.File {
		if entry.FileInfo().IsDir() {
			continue
		}

		dest := filepath.Join(dir, filepath.FromSlash(entry.Name))
		rel, relErr := filepath.Rel(dir, dest)
		if relErr != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return &ArchiveError{File: src, Err: fmt.Errorf("invalid path in zip: %s", entry.Name)}
		}

		if err = fs.MkdirAll(filepath.Dir(dest), dirPerm); err != nil {
			return fmt.Errorf("explode %s: %w", src, err)
		}
		if err = extractEntry(fs, entry, dest); err != nil {
			return fmt.Errorf("explode %s: failed to extract %s: %w", src, entry.Name, err)
		}
	}
	return nil
}

func extractEntry(fs billy.Filesystem, entry *zip.File, dest string) (err error) {
	rc, err := entry.Open()
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := rc.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	mode := entry.Mode().Perm()
	if mode == 0 {
		mode = 0o644
	}
	out, err := fs.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := out.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	//nolint:gosec // G110: jars come from the local build, not untrusted input
	_, err = io.Copy(out, rc)
	return err
}
