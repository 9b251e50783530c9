// SPDX-License-Identifier: MPL-2.0

package staging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/go-git/go-billy/v5"
)

const dirPerm os.FileMode = 0o755

// CopyFile copies src to dst, creating dst's parent directories and keeping the
// source permission bits.
func CopyFile(fs billy.Filesystem, src, dst string) (err error) {
	info, err := fs.Stat(src)
	if err != nil {
		return fmt.Errorf("copy %s: %w", src, err)
	}

	in, err := fs.Open(src)
	if err != nil {
		return fmt.Errorf("copy %s: %w", src, err)
	}
	defer func() {
		if closeErr := in.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("copy %s: %w", src, closeErr)
		}
	}()

	if err = fs.MkdirAll(filepath.Dir(dst), dirPerm); err != nil {
		return fmt.Errorf("copy %s: %w", src, err)
	}

	out, err := fs.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return fmt.Errorf("copy %s: %w", src, err)
	}
	defer func() {
		if closeErr := out.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("copy %s: %w", src, closeErr)
		}
	}()

	if _, err = io.Copy(out, in); err != nil {
		return fmt.Errorf("copy %s: %w", src, err)
	}
	return nil
}

// CopyDirectory recursively copies the contents of src into dst. Files and directories
// whose name is excluded are skipped along with everything below them.
func CopyDirectory(fs billy.Filesystem, src, dst string, excl *Exclusions) error {
	if err := fs.MkdirAll(dst, dirPerm); err != nil {
		return fmt.Errorf("copy %s: %w", src, err)
	}

	entries, err := fs.ReadDir(src)
	if err != nil {
		return fmt.Errorf("copy %s: %w", src, err)
	}

	for _, entry := range entries {
		name := entry.Name()
		if excl.Excludes(name) {
			continue
		}

		from := filepath.Join(src, name)
		to := filepath.Join(dst, name)
		if entry.IsDir() {
			err = CopyDirectory(fs, from, to, excl)
		} else {
			err = CopyFile(fs, from, to)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// CopyInto copies src, a file or a directory, into dir under its own base name.
// An excluded name is skipped. A missing source reports false with no error.
func CopyInto(fs billy.Filesystem, src, dir string, excl *Exclusions) (bool, error) {
	name := filepath.Base(src)
	if excl.Excludes(name) {
		return true, nil
	}

	info, err := fs.Stat(src)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("copy %s: %w", src, err)
	}

	dst := filepath.Join(dir, name)
	if info.IsDir() {
		return true, CopyDirectory(fs, src, dst, excl)
	}
	return true, CopyFile(fs, src, dst)
}
