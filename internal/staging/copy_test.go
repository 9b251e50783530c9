// SPDX-License-Identifier: MPL-2.0

package staging

import (
	"errors"
	"testing"

	"github.com/go-git/go-billy/v5/memfs"

	"packsmith-cli/internal/testutil"
)

func TestExclusions(t *testing.T) {
	t.Parallel()

	excl, err := NewExclusions(`tmp`, `.*\.bak`)
	if err != nil {
		t.Fatalf("NewExclusions() error = %v", err)
	}

	tests := []struct {
		name string
		want bool
	}{
		{"tmp", true},
		{"tmpfile", false},
		{"mytmp", false},
		{"a.bak", true},
		{"a.bak.txt", false},
		{"a.txt", false},
	}
	for _, tt := range tests {
		if got := excl.Excludes(tt.name); got != tt.want {
			t.Errorf("Excludes(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}

	var none *Exclusions
	if none.Excludes("anything") {
		t.Error("nil Exclusions should exclude nothing")
	}
}

func TestNewExclusionsInvalidPattern(t *testing.T) {
	t.Parallel()

	_, err := NewExclusions(`[unclosed`)
	if !errors.Is(err, ErrInvalidExclusion) {
		t.Fatalf("NewExclusions() error = %v, want ErrInvalidExclusion", err)
	}
}

func TestCopyDirectory(t *testing.T) {
	t.Parallel()

	fs := memfs.New()
	testutil.MustWriteFiles(t, fs, map[string]string{
		"/src/a.txt":           "alpha",
		"/src/b.tmp":           "scratch",
		"/src/sub/c.txt":       "gamma",
		"/src/sub/d.tmp":       "scratch",
		"/src/cache/e.txt":     "cached",
		"/src/sub/deep/f.conf": "key=value",
	})

	excl, err := NewExclusions(`.*\.tmp`, `cache`)
	if err != nil {
		t.Fatal(err)
	}

	if err := CopyDirectory(fs, "/src", "/dst", excl); err != nil {
		t.Fatalf("CopyDirectory() error = %v", err)
	}

	want := map[string]string{
		"/dst/a.txt":           "alpha",
		"/dst/sub/c.txt":       "gamma",
		"/dst/sub/deep/f.conf": "key=value",
	}
	for name, content := range want {
		if got := testutil.MustReadFile(t, fs, name); got != content {
			t.Errorf("%s = %q, want %q", name, got, content)
		}
	}

	for _, name := range []string{"/dst/b.tmp", "/dst/sub/d.tmp", "/dst/cache"} {
		if !testutil.IsNotExist(fs, name) {
			t.Errorf("%s should have been excluded", name)
		}
	}
}

func TestCopyInto(t *testing.T) {
	t.Parallel()

	fs := memfs.New()
	testutil.MustWriteFiles(t, fs, map[string]string{
		"/inc/a.txt":       "a",
		"/inc/b.tmp":       "b",
		"/inc/dir/c.txt":   "c",
		"/other/notes.tmp": "n",
	})
	excl, err := NewExclusions(`.*\.tmp$`)
	if err != nil {
		t.Fatal(err)
	}

	t.Run("file", func(t *testing.T) {
		found, copyErr := CopyInto(fs, "/inc/a.txt", "/stage1", excl)
		if copyErr != nil || !found {
			t.Fatalf("CopyInto() = %v, %v", found, copyErr)
		}
		if got := testutil.MustReadFile(t, fs, "/stage1/a.txt"); got != "a" {
			t.Errorf("a.txt = %q", got)
		}
	})

	t.Run("directory keeps its name", func(t *testing.T) {
		if _, copyErr := CopyInto(fs, "/inc", "/stage2", excl); copyErr != nil {
			t.Fatalf("CopyInto() error = %v", copyErr)
		}
		if !testutil.Exists(fs, "/stage2/inc/dir/c.txt") {
			t.Error("expected /stage2/inc/dir/c.txt")
		}
		if testutil.Exists(fs, "/stage2/inc/b.tmp") {
			t.Error("b.tmp should have been excluded")
		}
	})

	t.Run("excluded top level", func(t *testing.T) {
		if _, copyErr := CopyInto(fs, "/other/notes.tmp", "/stage3", excl); copyErr != nil {
			t.Fatalf("CopyInto() error = %v", copyErr)
		}
		if testutil.Exists(fs, "/stage3/notes.tmp") {
			t.Error("notes.tmp should have been excluded")
		}
	})

	t.Run("missing source", func(t *testing.T) {
		found, copyErr := CopyInto(fs, "/nope", "/stage4", excl)
		if copyErr != nil {
			t.Fatalf("CopyInto() error = %v", copyErr)
		}
		if found {
			t.Error("CopyInto() reported a missing source as found")
		}
	})
}

func TestCopyFileMissingSource(t *testing.T) {
	t.Parallel()

	fs := memfs.New()
	err := CopyFile(fs, "/missing.jar", "/out/missing.jar")
	if err == nil {
		t.Fatal("CopyFile() expected error for missing source")
	}
}
