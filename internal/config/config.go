// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"packsmith-cli/internal/cueutil"
	"packsmith-cli/internal/issue"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/spf13/viper"
)

const (
	// AppName is the application name.
	AppName = "packsmith"
	// DescriptorFileName is the descriptor looked up in the working directory.
	DescriptorFileName = "packsmith.cue"
	// EnvPrefix prefixes environment overrides, e.g. PACKSMITH_RPM_DEBUG.
	EnvPrefix = "PACKSMITH"
)

// ErrDescriptorExists is returned by CreateDefault when the target file exists.
var ErrDescriptorExists = errors.New("descriptor already exists")

//go:embed config_schema.cue
var configSchema string

// loadWithOptions reads the descriptor selected by opts over the defaults and
// applies environment overrides.
func loadWithOptions(ctx context.Context, opts LoadOptions) (*Config, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("load config canceled: %w", ctx.Err())
	default:
	}

	dir := opts.Dir
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		dir = wd
	}

	v := viper.New()
	setDefaults(v, DefaultConfig())
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	path := opts.ConfigFilePath
	if path != "" {
		if !filepath.IsAbs(path) {
			path = filepath.Join(dir, path)
		}
		if !fileExists(path) {
			return nil, issue.NewErrorContext().
				WithOperation("load descriptor").
				WithResource(opts.ConfigFilePath).
				WithSuggestion("Verify the file path is correct").
				WithSuggestion("Use 'packsmith config init' to create a descriptor").
				WithIssue(issue.DescriptorNotFoundId).
				Wrap(fmt.Errorf("descriptor not found: %s", path)).
				BuildError()
		}
	} else if local := filepath.Join(dir, DescriptorFileName); fileExists(local) {
		path = local
	}

	if path != "" {
		if err := loadCUEIntoViper(v, path); err != nil {
			return nil, issue.NewErrorContext().
				WithOperation("load descriptor").
				WithResource(path).
				WithSuggestion("Check that the file contains valid CUE syntax").
				WithSuggestion("Verify the values match the descriptor schema").
				WithIssue(issue.DescriptorInvalidId).
				Wrap(err).
				BuildError()
		}
		dir = filepath.Dir(path)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.Source = path
	cfg.applyDerivedDefaults(dir)

	if err := cfg.Validate(); err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("validate descriptor").
			WithResource(path).
			WithSuggestion("Check PACKSMITH_* environment overrides").
			WithIssue(issue.DescriptorInvalidId).
			Wrap(err).
			BuildError()
	}
	return &cfg, nil
}

// setDefaults registers every scalar key so that AutomaticEnv can override it.
func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("project.group_id", d.Project.GroupID)
	v.SetDefault("project.artifact_id", d.Project.ArtifactID)
	v.SetDefault("project.version", d.Project.Version)
	v.SetDefault("project.final_name", d.Project.FinalName)
	v.SetDefault("project.base_dir", d.Project.BaseDir)
	v.SetDefault("project.output_dir", d.Project.OutputDir)
	v.SetDefault("project.classes_dir", d.Project.ClassesDir)
	v.SetDefault("project.properties_file", d.Project.PropertiesFile)

	v.SetDefault("package.base_directory", d.Package.BaseDirectory)
	v.SetDefault("package.add_dependencies", d.Package.AddDependencies)
	v.SetDefault("package.generate_primary_artifact", d.Package.GeneratePrimaryArtifact)
	v.SetDefault("package.primary_artifact_id", d.Package.PrimaryArtifactID)
	v.SetDefault("package.classifier", d.Package.Classifier)

	v.SetDefault("rpm.component_name", d.RPM.ComponentName)
	v.SetDefault("rpm.install_dir", d.RPM.InstallDir)
	v.SetDefault("rpm.release", d.RPM.Release)
	v.SetDefault("rpm.prefix", d.RPM.Prefix)
	v.SetDefault("rpm.build_arch", d.RPM.BuildArch)
	v.SetDefault("rpm.need_arch", d.RPM.NeedArch)
	v.SetDefault("rpm.skip_repack", d.RPM.SkipRepack)
	v.SetDefault("rpm.debug", d.RPM.Debug)
	v.SetDefault("rpm.buildroot_dir", d.RPM.BuildrootDir)
	v.SetDefault("rpm.container.engine", string(d.RPM.Container.Engine))
	v.SetDefault("rpm.container.image", d.RPM.Container.Image)

	v.SetDefault("log.level", string(d.Log.Level))
}

// loadCUEIntoViper validates the descriptor at path against #Config and merges
// it into v. Fields are optional, so values need not be concrete.
func loadCUEIntoViper(v *viper.Viper, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read descriptor: %w", err)
	}
	if err := cueutil.CheckFileSize(data, cueutil.DefaultMaxFileSize, path); err != nil {
		return err
	}

	ctx := cuecontext.New()
	schemaValue := ctx.CompileString(configSchema)
	if schemaValue.Err() != nil {
		return fmt.Errorf("internal error: failed to compile descriptor schema: %w", schemaValue.Err())
	}

	userValue := ctx.CompileBytes(data, cue.Filename(path))
	if userValue.Err() != nil {
		return cueutil.FormatError(userValue.Err(), path)
	}

	unified := schemaValue.LookupPath(cue.ParsePath("#Config")).Unify(userValue)
	if err := unified.Validate(cue.Concrete(false)); err != nil {
		return cueutil.FormatError(err, path)
	}

	var m map[string]any
	if err := unified.Decode(&m); err != nil {
		return cueutil.FormatError(err, path)
	}
	if err := v.MergeConfigMap(m); err != nil {
		return fmt.Errorf("failed to merge descriptor: %w", err)
	}
	return nil
}

// applyDerivedDefaults fills values that depend on other values and makes every
// path absolute. dir is the descriptor's directory, or the working directory
// when no descriptor was read.
func (c *Config) applyDerivedDefaults(dir string) {
	p := &c.Project
	if p.FinalName == "" && p.ArtifactID != "" {
		p.FinalName = p.ArtifactID
		if p.Version != "" {
			p.FinalName += "-" + p.Version
		}
	}

	switch {
	case p.BaseDir == "":
		p.BaseDir = dir
	case !filepath.IsAbs(p.BaseDir):
		p.BaseDir = filepath.Join(dir, p.BaseDir)
	}
	p.BaseDir = filepath.Clean(p.BaseDir)

	abs := func(path string) string {
		if path == "" || filepath.IsAbs(path) {
			return path
		}
		return filepath.Join(p.BaseDir, path)
	}

	p.OutputDir = abs(p.OutputDir)
	p.ClassesDir = abs(p.ClassesDir)
	p.PropertiesFile = abs(p.PropertiesFile)
	p.Artifact.File = abs(p.Artifact.File)
	for i := range p.Dependencies {
		p.Dependencies[i].File = abs(p.Dependencies[i].File)
	}
	for i := range c.Package.Include {
		c.Package.Include[i] = abs(c.Package.Include[i])
	}

	if c.RPM.BuildrootDir == "" {
		c.RPM.BuildrootDir = filepath.Join(p.BaseDir, "src", "buildroot")
	}
	c.RPM.BuildrootDir = abs(c.RPM.BuildrootDir)
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// CreateDefault writes a starter descriptor to path. It refuses to overwrite.
func CreateDefault(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%w: %s", ErrDescriptorExists, path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create descriptor directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(GenerateCUE(StarterConfig())), 0o644); err != nil {
		return fmt.Errorf("failed to write descriptor: %w", err)
	}
	return nil
}

// StarterConfig is DefaultConfig with placeholder project coordinates, used
// by CreateDefault.
func StarterConfig() *Config {
	cfg := DefaultConfig()
	cfg.Project.GroupID = "com.example"
	cfg.Project.ArtifactID = "app"
	cfg.Project.Version = "1.0.0-SNAPSHOT"
	cfg.RPM.ComponentName = "app"
	return cfg
}
