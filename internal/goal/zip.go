// SPDX-License-Identifier: MPL-2.0

package goal

import (
	"context"
	"path/filepath"

	"packsmith-cli/internal/archive"
	"packsmith-cli/internal/artifact"
	"packsmith-cli/internal/config"
	"packsmith-cli/internal/project"
	"packsmith-cli/internal/staging"
)

// ZipName is the goal name recorded in build results.
const ZipName = "zip"

// Zip packages the staging tree as <finalName>[-<classifier>].zip in the output directory.
type Zip struct {
	assembler *staging.Assembler
	archiver  archive.Writer
	logger    Logger
}

// NewZip creates the zip goal.
func NewZip(assembler *staging.Assembler, archiver archive.Writer, logger Logger) *Zip {
	return &Zip{assembler: assembler, archiver: archiver, logger: orNop(logger)}
}

// Run assembles and compresses the staging tree. The tree is removed afterwards,
// whether or not packaging succeeded.
func (z *Zip) Run(ctx context.Context, cfg *config.Config, opts Options) (res *project.Result, err error) {
	p, arts, excl, err := prepare(ctx, cfg, artifact.ZipExtensions)
	if err != nil {
		return nil, err
	}
	cls := classifier(cfg, opts)

	tree, err := z.assembler.Assemble(ctx, stagingOptions(cfg, p, arts, cls, excl))
	defer func() {
		if tree == nil {
			return
		}
		if cleanupErr := tree.Cleanup(); cleanupErr != nil {
			z.logger.Warn("cleanup failed", "dir", tree.Root(), "error", cleanupErr)
		}
	}()
	if err != nil {
		return nil, err
	}

	dest := filepath.Join(p.OutputDir, artifact.FileName(p.FinalName, cls, ".zip"))
	z.logger.Info("building zip", "file", dest)
	if err = z.archiver.WriteZip(tree.Root(), dest); err != nil {
		return nil, err
	}

	res = project.NewResult(ZipName, p)
	res.Record(ZipName, cls, dest)
	return res, nil
}
