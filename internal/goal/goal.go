// SPDX-License-Identifier: MPL-2.0

package goal

import (
	"context"
	"errors"
	"fmt"

	"packsmith-cli/internal/artifact"
	"packsmith-cli/internal/config"
	"packsmith-cli/internal/project"
	"packsmith-cli/internal/rpm"
	"packsmith-cli/internal/staging"
)

// ErrNoDescriptor is returned when a packaging goal runs without a descriptor.
var ErrNoDescriptor = errors.New("no project descriptor")

type (
	// Logger is the subset of *log.Logger used by the goals.
	Logger interface {
		Debug(msg any, keyvals ...any)
		Info(msg any, keyvals ...any)
		Warn(msg any, keyvals ...any)
	}

	// Options are per-invocation overrides of the descriptor.
	Options struct {
		// Classifier overrides package.classifier when set.
		Classifier string
		// Properties are -D key=value pairs.
		Properties map[string]string
		// Debug keeps build directories, in addition to rpm.debug.
		Debug bool
	}

	nopLogger struct{}
)

func (nopLogger) Debug(any, ...any) {}
func (nopLogger) Info(any, ...any)  {}
func (nopLogger) Warn(any, ...any)  {}

func orNop(l Logger) Logger {
	if l == nil {
		return nopLogger{}
	}
	return l
}

// NewProject builds the project model from the descriptor.
func NewProject(cfg *config.Config) *project.Project {
	pc := cfg.Project
	p := &project.Project{
		GroupID:        pc.GroupID,
		ArtifactID:     pc.ArtifactID,
		Version:        pc.Version,
		FinalName:      pc.FinalName,
		BaseDir:        pc.BaseDir,
		OutputDir:      pc.OutputDir,
		ClassesDir:     pc.ClassesDir,
		PropertiesFile: pc.PropertiesFile,
	}
	if pc.Artifact.File != "" {
		own := toArtifact(pc.Artifact, pc)
		p.Artifact = &own
	}
	for _, d := range pc.Dependencies {
		p.Dependencies = append(p.Dependencies, toArtifact(d, pc))
	}
	return p
}

// toArtifact fills unset coordinates of the project's own artifact from the project.
func toArtifact(a config.ArtifactConfig, pc config.ProjectConfig) artifact.Artifact {
	out := artifact.Artifact{
		GroupID:    a.GroupID,
		ArtifactID: a.ArtifactID,
		Version:    a.Version,
		Type:       a.Type,
		Classifier: a.Classifier,
		Scope:      artifact.Scope(a.Scope),
		File:       a.File,
	}
	if out.ArtifactID == pc.ArtifactID {
		if out.GroupID == "" {
			out.GroupID = pc.GroupID
		}
		if out.Version == "" {
			out.Version = pc.Version
		}
	}
	return out
}

// RPMParams maps the descriptor and the invocation overrides onto package parameters.
func RPMParams(cfg *config.Config, opts Options) *rpm.Params {
	r := cfg.RPM
	p := &rpm.Params{
		ComponentName: rpm.ComponentName(r.ComponentName),
		Version:       rpm.Version(cfg.Project.Version),
		Release:       rpm.Release(r.Release),
		InstallDir:    r.InstallDir,
		Prefix:        r.Prefix,
		Summary:       r.Summary,
		License:       r.License,
		Distribution:  r.Distribution,
		Vendor:        r.Vendor,
		URL:           r.URL,
		Group:         r.Group,
		Packager:      r.Packager,
		TagPrefix:     r.TagPrefix,
		BuildRoot:     r.BuildRoot,
		BuildArch:     r.BuildArch,
		NeedArch:      r.NeedArch,
		Description:   r.Description,
		Defines:       r.Defines,
		Requires:      r.Requires,
		SkipRepack:    r.SkipRepack,
		Debug:         r.Debug || opts.Debug,
		BuildrootDir:  r.BuildrootDir,
		Properties:    opts.Properties,
	}
	if len(r.Scripts) > 0 {
		p.Scripts = make(map[rpm.Section]string, len(r.Scripts))
		for k, v := range r.Scripts {
			p.Scripts[rpm.Section(k)] = v
		}
	}
	return p
}

func classifier(cfg *config.Config, opts Options) string {
	if opts.Classifier != "" {
		return opts.Classifier
	}
	return cfg.Package.Classifier
}

func stagingOptions(cfg *config.Config, p *project.Project, arts []artifact.Artifact, classifier string, excl *staging.Exclusions) staging.Options {
	pkg := cfg.Package
	return staging.Options{
		OutputDir:               p.OutputDir,
		GeneratePrimaryArtifact: pkg.GeneratePrimaryArtifact,
		FinalName:               p.FinalName,
		Classifier:              classifier,
		ClassesDir:              p.ClassesDir,
		AddDependencies:         pkg.AddDependencies,
		Artifacts:               arts,
		PrimaryArtifactID:       pkg.PrimaryArtifactID,
		DeclaredDependencies:    len(p.Dependencies),
		Includes:                pkg.Include,
		BaseDirectory:           pkg.BaseDirectory,
		Exclusions:              excl,
	}
}

// prepare checks the descriptor, resolves and filters the artifacts and
// compiles the exclusions. It performs no writes.
func prepare(ctx context.Context, cfg *config.Config, allowed artifact.Extensions) (*project.Project, []artifact.Artifact, *staging.Exclusions, error) {
	if cfg == nil {
		return nil, nil, nil, ErrNoDescriptor
	}
	if err := cfg.RequireProject(); err != nil {
		return nil, nil, nil, err
	}

	p := NewProject(cfg)
	own, deps, err := p.Resolver().Resolve(ctx)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("resolve artifacts: %w", err)
	}
	arts := artifact.Filter(own, deps, artifact.FilterOptions{
		Allowed:           allowed,
		PrimaryArtifactID: cfg.Package.PrimaryArtifactID,
	})

	excl, err := staging.NewExclusions(cfg.Package.Exclude...)
	if err != nil {
		return nil, nil, nil, err
	}
	return p, arts, excl, nil
}
