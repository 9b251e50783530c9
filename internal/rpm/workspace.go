// SPDX-License-Identifier: MPL-2.0

package rpm

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
)

// WorkspaceDirName is the rpmbuild top directory created below the output directory.
const WorkspaceDirName = "rpm"

var workspaceDirs = []string{"BUILD", "RPMS", "SOURCES", "SPECS", "SRPMS"}

// Workspace is an rpmbuild _topdir.
type Workspace struct {
	fs   billy.Filesystem
	root string
}

// NewWorkspace returns the workspace rooted at outputDir/rpm. Nothing is created until Init.
func NewWorkspace(fs billy.Filesystem, outputDir string) *Workspace {
	return &Workspace{fs: fs, root: filepath.Join(outputDir, WorkspaceDirName)}
}

// Root returns the workspace directory, passed to rpmbuild as _topdir.
func (w *Workspace) Root() string { return w.root }

// Specs returns the SPECS directory, the working directory of rpmbuild.
func (w *Workspace) Specs() string { return filepath.Join(w.root, "SPECS") }

// SpecFile returns the path of the spec file for component.
func (w *Workspace) SpecFile(component ComponentName) string {
	return filepath.Join(w.Specs(), string(component)+".spec")
}

// SourceArchive returns the path of the source tarball for component.
func (w *Workspace) SourceArchive(component ComponentName) string {
	return filepath.Join(w.root, "SOURCES", string(component)+".tgz")
}

// Package returns where rpmbuild leaves the binary package named name for arch.
func (w *Workspace) Package(arch, name string) string {
	return filepath.Join(w.root, "RPMS", arch, name)
}

// Init creates the workspace root and its standard subdirectories, logging each
// directory it creates.
func (w *Workspace) Init(logger Logger) error {
	logger = orNop(logger)
	for _, dir := range append([]string{""}, workspaceDirs...) {
		path := filepath.Join(w.root, dir)
		if _, err := w.fs.Stat(path); err == nil {
			continue
		}
		logger.Info("creating directory", "dir", path)
		if err := w.fs.MkdirAll(path, 0o755); err != nil {
			return fmt.Errorf("unable to create directory %s: %w", path, err)
		}
	}
	return nil
}

// WriteSpec writes the rendered spec file for component.
func (w *Workspace) WriteSpec(component ComponentName, spec string) error {
	path := w.SpecFile(component)
	if err := util.WriteFile(w.fs, path, []byte(spec), 0o644); err != nil {
		return fmt.Errorf("unable to write %s: %w", path, err)
	}
	return nil
}

// Remove deletes the workspace and everything below it.
func (w *Workspace) Remove() error {
	if err := util.RemoveAll(w.fs, w.root); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove workspace %s: %w", w.root, err)
	}
	return nil
}
