// SPDX-License-Identifier: MPL-2.0

package staging

import (
	"fmt"
	"path/filepath"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
)

const (
	// DirName is the staging directory created below the output directory.
	DirName = "temp"
	// LibDir holds bundled dependencies inside the staging tree.
	LibDir = "lib"
	// mergeDir is the scratch directory used while merging the primary artifact.
	mergeDir = "tmp"
)

// Tree is an assembled staging directory.
type Tree struct {
	fs   billy.Filesystem
	root string
}

// NewTree wraps an existing directory as a staging tree.
func NewTree(fs billy.Filesystem, root string) *Tree {
	return &Tree{fs: fs, root: root}
}

// Root returns the absolute path of the staging directory.
func (t *Tree) Root() string { return t.root }

// Lib returns the directory that holds non-primary dependencies.
func (t *Tree) Lib() string { return filepath.Join(t.root, LibDir) }

// Cleanup removes the staging directory and everything below it.
func (t *Tree) Cleanup() error {
	if err := util.RemoveAll(t.fs, t.root); err != nil {
		return fmt.Errorf("remove staging directory %s: %w", t.root, err)
	}
	return nil
}
