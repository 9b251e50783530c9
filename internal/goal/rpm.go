// SPDX-License-Identifier: MPL-2.0

package goal

import (
	"context"

	"packsmith-cli/internal/artifact"
	"packsmith-cli/internal/config"
	"packsmith-cli/internal/project"
	"packsmith-cli/internal/rpm"
	"packsmith-cli/internal/staging"
)

// RPMName is the goal name recorded in build results.
const RPMName = "rpm"

// RPM packages the staging tree with rpmbuild.
type RPM struct {
	assembler *staging.Assembler
	builder   *rpm.Builder
	logger    Logger
}

// NewRPM creates the rpm goal.
func NewRPM(assembler *staging.Assembler, builder *rpm.Builder, logger Logger) *RPM {
	return &RPM{assembler: assembler, builder: builder, logger: orNop(logger)}
}

// Render returns the spec file the goal would write, without building anything.
func (r *RPM) Render(cfg *config.Config, opts Options) (string, error) {
	if cfg == nil {
		return "", ErrNoDescriptor
	}
	if err := cfg.RequireProject(); err != nil {
		return "", err
	}
	return r.builder.Render(RPMParams(cfg, opts))
}

// Run validates the package parameters, assembles the staging tree and builds
// the package. Nothing is written when validation fails.
func (r *RPM) Run(ctx context.Context, cfg *config.Config, opts Options) (*project.Result, error) {
	if cfg == nil {
		return nil, ErrNoDescriptor
	}
	if err := cfg.RequireProject(); err != nil {
		return nil, err
	}
	params := RPMParams(cfg, opts)
	if err := params.Validate(); err != nil {
		return nil, err
	}

	p, arts, excl, err := prepare(ctx, cfg, artifact.RPMExtensions)
	if err != nil {
		return nil, err
	}
	cls := classifier(cfg, opts)

	tree, err := r.assembler.Assemble(ctx, stagingOptions(cfg, p, arts, cls, excl))
	if err != nil {
		if params.Debug {
			r.logger.Info("debug enabled, keeping build directories", "staging", tree.Root())
		} else if cleanupErr := tree.Cleanup(); cleanupErr != nil {
			r.logger.Warn("cleanup failed", "dir", tree.Root(), "error", cleanupErr)
		}
		return nil, err
	}

	pkg, err := r.builder.Build(ctx, rpm.Request{Tree: tree, OutputDir: p.OutputDir, Params: params})
	if err != nil {
		return nil, err
	}

	res := project.NewResult(RPMName, p)
	res.Record(RPMName, cls, pkg)
	return res, nil
}

// NewRunner returns the runner for rpmbuild: the host, or the configured
// container with the workspace below outputDir mounted.
func NewRunner(c config.ContainerConfig, outputDir string, logger Logger) (rpm.Runner, error) {
	host := rpm.NewExecRunner(logger)
	if c.Engine == "" {
		return host, nil
	}
	mount := rpm.NewWorkspace(nil, outputDir).Root()
	return rpm.NewContainerRunner(string(c.Engine), c.Image, mount, host)
}
