// SPDX-License-Identifier: MPL-2.0

// Package archive compresses a staging tree into the goal's output file.
package archive

import (
	"archive/tar"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zip"
)

type (
	// Writer produces archives from a directory tree.
	Writer interface {
		// WriteZip adds every file and directory below src to a zip at dest.
		// Entry names are relative to src.
		WriteZip(src, dest string) error
		// WriteTarGz adds every file and directory below src to a gzip-compressed
		// tarball at dest, with entry names under prefix.
		WriteTarGz(src, dest, prefix string) error
	}

	// FSWriter is a Writer backed by a billy.Filesystem.
	FSWriter struct {
		fs billy.Filesystem
	}
)

// NewWriter creates a Writer over fs.
func NewWriter(fs billy.Filesystem) *FSWriter {
	return &FSWriter{fs: fs}
}

// WriteZip implements Writer. A partially written archive is removed on failure.
func (w *FSWriter) WriteZip(src, dest string) (err error) {
	out, err := w.create(dest)
	if err != nil {
		return err
	}
	defer w.closeOrRemove(out, dest, &err)

	zw := zip.NewWriter(out)
	walkErr := w.walk(src, func(name string, info os.FileInfo, path string) error {
		if info.IsDir() {
			_, createErr := zw.Create(name + "/")
			return createErr
		}

		header, headerErr := zip.FileInfoHeader(info)
		if headerErr != nil {
			return fmt.Errorf("failed to create file header: %w", headerErr)
		}
		header.Name = name
		header.Method = zip.Deflate

		entry, createErr := zw.CreateHeader(header)
		if createErr != nil {
			return fmt.Errorf("failed to create zip entry %s: %w", name, createErr)
		}
		return w.copyFrom(entry, path)
	})
	if walkErr != nil {
		_ = zw.Close()
		return fmt.Errorf("failed to archive %s: %w", src, walkErr)
	}
	if err = zw.Close(); err != nil {
		return fmt.Errorf("failed to finish %s: %w", dest, err)
	}
	return nil
}

// WriteTarGz implements Writer. A partially written archive is removed on failure.
func (w *FSWriter) WriteTarGz(src, dest, prefix string) (err error) {
	out, err := w.create(dest)
	if err != nil {
		return err
	}
	defer w.closeOrRemove(out, dest, &err)

	gz := gzip.NewWriter(out)
	tw := tar.NewWriter(gz)

	walkErr := w.walk(src, func(name string, info os.FileInfo, path string) error {
		header, headerErr := tar.FileInfoHeader(info, "")
		if headerErr != nil {
			return fmt.Errorf("failed to create tar header: %w", headerErr)
		}
		header.Name = filepath.ToSlash(filepath.Join(prefix, name))
		if info.IsDir() {
			header.Name += "/"
		}

		if writeErr := tw.WriteHeader(header); writeErr != nil {
			return fmt.Errorf("failed to write tar header %s: %w", header.Name, writeErr)
		}
		if info.IsDir() {
			return nil
		}
		return w.copyFrom(tw, path)
	})
	if walkErr != nil {
		_ = tw.Close()
		_ = gz.Close()
		return fmt.Errorf("failed to archive %s: %w", src, walkErr)
	}
	if err = tw.Close(); err != nil {
		return fmt.Errorf("failed to finish %s: %w", dest, err)
	}
	if err = gz.Close(); err != nil {
		return fmt.Errorf("failed to finish %s: %w", dest, err)
	}
	return nil
}

func (w *FSWriter) create(dest string) (billy.File, error) {
	if err := w.fs.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create directory for %s: %w", dest, err)
	}
	out, err := w.fs.Create(dest)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", dest, err)
	}
	return out, nil
}

func (w *FSWriter) closeOrRemove(out billy.File, dest string, err *error) {
	if closeErr := out.Close(); closeErr != nil && *err == nil {
		*err = fmt.Errorf("failed to close %s: %w", dest, closeErr)
	}
	if *err != nil {
		_ = w.fs.Remove(dest) // Best-effort cleanup of the partial archive
	}
}

// walk visits everything below src in lexical order, skipping src itself.
// fn receives the slash-separated name relative to src.
func (w *FSWriter) walk(src string, fn func(name string, info os.FileInfo, path string) error) error {
	return util.Walk(w.fs, src, func(path string, info os.FileInfo, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if path == src {
			return nil
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return fmt.Errorf("failed to get relative path: %w", err)
		}
		return fn(filepath.ToSlash(rel), info, path)
	})
}

func (w *FSWriter) copyFrom(dst io.Writer, path string) (err error) {
	in, err := w.fs.Open(path)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := in.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()
	_, err = io.Copy(dst, in)
	return err
}
