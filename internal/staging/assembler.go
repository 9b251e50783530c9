// SPDX-License-Identifier: MPL-2.0

package staging

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/go-git/go-billy/v5"

	"packsmith-cli/internal/artifact"
)

type (
	// Options describes what goes into the staging tree.
	Options struct {
		// OutputDir is the build output directory. The tree is created at OutputDir/temp.
		OutputDir string

		// GeneratePrimaryArtifact builds <FinalName>[-<Classifier>].jar from ClassesDir.
		GeneratePrimaryArtifact bool
		FinalName               string
		Classifier              string
		ClassesDir              string

		// AddDependencies copies Artifacts into the tree.
		AddDependencies bool
		// Artifacts are the already filtered artifacts to bundle.
		Artifacts []artifact.Artifact
		// PrimaryArtifactID selects the artifact placed at the tree root instead of lib/.
		PrimaryArtifactID string
		// DeclaredDependencies is the number of dependencies the project declares.
		// The primary artifact is merged only when it is greater than one.
		DeclaredDependencies int

		// Includes are extra files or directories copied into the tree.
		Includes []string
		// BaseDirectory copies the children of each include rather than the include itself.
		BaseDirectory bool
		// Exclusions filter include paths by name at every level.
		Exclusions *Exclusions
	}

	// Assembler builds staging trees on a filesystem.
	Assembler struct {
		fs     billy.Filesystem
		logger Logger
	}
)

// NewAssembler creates an Assembler. A nil logger discards output.
func NewAssembler(fs billy.Filesystem, logger Logger) *Assembler {
	return &Assembler{fs: fs, logger: orNop(logger)}
}

// Assemble creates or reuses OutputDir/temp and fills it. The first failure aborts
// the run and the partial tree is left in place for the caller to clean up.
func (a *Assembler) Assemble(ctx context.Context, opts Options) (*Tree, error) {
	tree := NewTree(a.fs, filepath.Join(opts.OutputDir, DirName))
	if err := a.fs.MkdirAll(tree.root, dirPerm); err != nil {
		return tree, fmt.Errorf("create staging directory %s: %w", tree.root, err)
	}
	a.logger.Debug("staging", "dir", tree.root)

	if opts.GeneratePrimaryArtifact {
		if err := ctx.Err(); err != nil {
			return tree, err
		}
		jar := filepath.Join(tree.root, artifact.FileName(opts.FinalName, opts.Classifier, ".jar"))
		if err := BuildJar(a.fs, opts.ClassesDir, jar, DefaultJarExclusions, a.logger); err != nil {
			return tree, err
		}
	}

	if opts.AddDependencies {
		for _, art := range opts.Artifacts {
			if err := ctx.Err(); err != nil {
				return tree, err
			}
			if err := a.addArtifact(tree, art, opts); err != nil {
				return tree, err
			}
		}
	}

	for _, inc := range opts.Includes {
		if err := ctx.Err(); err != nil {
			return tree, err
		}
		if err := a.addInclude(tree, inc, opts); err != nil {
			return tree, err
		}
	}

	return tree, nil
}

func (a *Assembler) addArtifact(tree *Tree, art artifact.Artifact, opts Options) error {
	if opts.PrimaryArtifactID == "" || art.ArtifactID != opts.PrimaryArtifactID {
		a.logger.Debug("adding dependency", "artifact", art.ID())
		return CopyFile(a.fs, art.File, filepath.Join(tree.Lib(), art.FileName()))
	}

	staged := filepath.Join(tree.root, art.FileName())
	a.logger.Debug("adding primary artifact", "artifact", art.ID())
	if err := CopyFile(a.fs, art.File, staged); err != nil {
		return err
	}
	if opts.DeclaredDependencies > 1 {
		return MergePrimary(a.fs, staged, filepath.Join(tree.root, mergeDir), a.logger)
	}
	return nil
}

func (a *Assembler) addInclude(tree *Tree, inc string, opts Options) error {
	if !opts.BaseDirectory {
		found, err := CopyInto(a.fs, inc, tree.root, opts.Exclusions)
		if err != nil {
			return err
		}
		if !found {
			a.logger.Warn("include not found, skipping", "path", inc)
		}
		return nil
	}

	info, err := a.fs.Stat(inc)
	if err != nil || !info.IsDir() {
		a.logger.Warn("include is not a directory, skipping", "path", inc)
		return nil
	}
	children, err := a.fs.ReadDir(inc)
	if err != nil {
		return fmt.Errorf("copy %s: %w", inc, err)
	}
	for _, child := range children {
		if _, err := CopyInto(a.fs, filepath.Join(inc, child.Name()), tree.root, opts.Exclusions); err != nil {
			return err
		}
	}
	return nil
}
