// SPDX-License-Identifier: MPL-2.0

package rpm

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/go-git/go-billy/v5"

	"packsmith-cli/internal/archive"
	"packsmith-cli/internal/staging"
)

// RPMBuildBinary is the program that turns a spec file into packages.
const RPMBuildBinary = "rpmbuild"

type (
	// Request is one package build.
	Request struct {
		// Tree is the assembled staging tree. It becomes the source tarball.
		Tree *staging.Tree
		// OutputDir receives the workspace and the final package.
		OutputDir string
		Params    *Params
	}

	// Builder drives rpmbuild: workspace, source tarball, spec file, build, relocation
	// and cleanup, in that order.
	Builder struct {
		fs       billy.Filesystem
		archiver archive.Writer
		runner   Runner
		scripts  *ScriptLoader
		logger   Logger
	}
)

// NewBuilder creates a Builder. runner executes rpmbuild, on the host or in a container.
func NewBuilder(fs billy.Filesystem, archiver archive.Writer, runner Runner, logger Logger) *Builder {
	logger = orNop(logger)
	return &Builder{
		fs:       fs,
		archiver: archiver,
		runner:   runner,
		scripts:  NewScriptLoader(fs, logger),
		logger:   logger,
	}
}

// Render loads the section scripts and renders the spec file without touching the
// workspace.
func (b *Builder) Render(p *Params) (string, error) {
	if err := p.Validate(); err != nil {
		return "", err
	}
	scripts, err := b.scripts.Load(p)
	if err != nil {
		return "", err
	}
	return SpecString(p, scripts), nil
}

// Build produces the package and returns its path in OutputDir. Unless Debug is set,
// the staging tree and the workspace are removed afterwards, including after a failure.
func (b *Builder) Build(ctx context.Context, req Request) (pkg string, err error) {
	p := req.Params
	if err = p.Validate(); err != nil {
		return "", err
	}

	ws := NewWorkspace(b.fs, req.OutputDir)
	defer b.cleanup(p.Debug, req.Tree, ws)

	if err = ws.Init(b.logger); err != nil {
		return "", err
	}

	source := ws.SourceArchive(p.ComponentName)
	if err = b.archiver.WriteTarGz(req.Tree.Root(), source, string(p.ComponentName)+"/"); err != nil {
		return "", fmt.Errorf("problem creating source archive: %w", err)
	}
	b.logger.Debug("wrote source archive", "file", source)

	spec, err := b.Render(p)
	if err != nil {
		return "", err
	}
	b.logger.Info("creating spec file", "file", ws.SpecFile(p.ComponentName))
	if err = ws.WriteSpec(p.ComponentName, spec); err != nil {
		return "", err
	}

	if err = b.runner.Run(ctx, BuildCommand(ws, p)); err != nil {
		return "", err
	}

	name := p.FileName()
	pkg = filepath.Join(req.OutputDir, name)
	if err = staging.CopyFile(b.fs, ws.Package(p.Arch(), name), pkg); err != nil {
		return "", fmt.Errorf("relocate package: %w", err)
	}
	b.logger.Info("built package", "file", pkg)
	return pkg, nil
}

// BuildCommand returns the rpmbuild invocation for the workspace.
func BuildCommand(ws *Workspace, p *Params) Command {
	args := []string{"-ba", "--define", "_topdir " + ws.Root()}
	if !p.NeedArch {
		args = append(args, "--target", NoArch)
	}
	args = append(args, string(p.ComponentName)+".spec")
	return Command{Name: RPMBuildBinary, Args: args, Dir: ws.Specs()}
}

func (b *Builder) cleanup(debug bool, tree *staging.Tree, ws *Workspace) {
	if debug {
		b.logger.Info("debug enabled, keeping build directories", "staging", tree.Root(), "workspace", ws.Root())
		return
	}
	if err := tree.Cleanup(); err != nil {
		b.logger.Warn("cleanup failed", "error", err)
	}
	if err := ws.Remove(); err != nil {
		b.logger.Warn("cleanup failed", "error", err)
	}
}
