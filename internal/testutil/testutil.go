// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"io"
	"os"
	"slices"
	"testing"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
	"github.com/klauspost/compress/zip"
)

// MustWriteFiles writes every name/content pair, creating parent directories.
// The test fails immediately if a write fails.
func MustWriteFiles(t testing.TB, fs billy.Filesystem, files map[string]string) {
	t.Helper()
	for name, content := range files {
		if err := util.WriteFile(fs, name, []byte(content), 0o644); err != nil {
			t.Fatalf("WriteFile(%s) failed: %v", name, err)
		}
	}
}

// MustReadFile returns the content of name.
func MustReadFile(t testing.TB, fs billy.Filesystem, name string) string {
	t.Helper()
	data, err := util.ReadFile(fs, name)
	if err != nil {
		t.Fatalf("ReadFile(%s) failed: %v", name, err)
	}
	return string(data)
}

// Exists reports whether name can be stat'ed.
func Exists(fs billy.Filesystem, name string) bool {
	_, err := fs.Stat(name)
	return err == nil
}

// IsNotExist reports whether stat'ing name fails with a not-exist error.
func IsNotExist(fs billy.Filesystem, name string) bool {
	_, err := fs.Stat(name)
	return os.IsNotExist(err)
}

// MustWriteZip creates a zip at name with entries written in sorted order.
// Entries ending in "/" are directories.
func MustWriteZip(t testing.TB, fs billy.Filesystem, name string, entries map[string]string) {
	t.Helper()
	f, err := fs.Create(name)
	if err != nil {
		t.Fatalf("Create(%s) failed: %v", name, err)
	}
	zw := zip.NewWriter(f)

	names := make([]string, 0, len(entries))
	for n := range entries {
		names = append(names, n)
	}
	slices.Sort(names)
	for _, n := range names {
		w, createErr := zw.Create(n)
		if createErr != nil {
			t.Fatalf("zip Create(%s) failed: %v", n, createErr)
		}
		if _, writeErr := io.WriteString(w, entries[n]); writeErr != nil {
			t.Fatal(writeErr)
		}
	}
	MustClose(t, zw)
	MustClose(t, f)
}

// ReadZip returns the entries of the zip at name. Directory entries map to "".
func ReadZip(t testing.TB, fs billy.Filesystem, name string) map[string]string {
	t.Helper()
	info, err := fs.Stat(name)
	if err != nil {
		t.Fatalf("Stat(%s) failed: %v", name, err)
	}
	f, err := fs.Open(name)
	if err != nil {
		t.Fatalf("Open(%s) failed: %v", name, err)
	}
	defer func() { _ = f.Close() }()

	zr, err := zip.NewReader(f, info.Size())
	if err != nil {
		t.Fatalf("zip.NewReader(%s) failed: %v", name, err)
	}

	out := make(map[string]string, len(zr.File))
	for _, entry := range zr.File {
		if entry.FileInfo().IsDir() {
			out[entry.Name] = ""
			continue
		}
		rc, openErr := entry.Open()
		if openErr != nil {
			t.Fatalf("open entry %s: %v", entry.Name, openErr)
		}
		data, readErr := io.ReadAll(rc)
		_ = rc.Close()
		if readErr != nil {
			t.Fatalf("read entry %s: %v", entry.Name, readErr)
		}
		out[entry.Name] = string(data)
	}
	return out
}

// MustClose closes c and fails the test on error.
func MustClose(t testing.TB, c io.Closer) {
	t.Helper()
	if err := c.Close(); err != nil {
		t.Fatalf("failed to close: %v", err)
	}
}
