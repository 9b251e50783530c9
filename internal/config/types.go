// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// LogLevelDebug enables debug output.
	LogLevelDebug LogLevel = "debug"
	// LogLevelInfo is the default level.
	LogLevelInfo LogLevel = "info"
	// LogLevelWarn logs warnings and errors only.
	LogLevelWarn LogLevel = "warn"
	// LogLevelError logs errors only.
	LogLevelError LogLevel = "error"

	// ContainerEnginePodman runs rpmbuild through podman.
	ContainerEnginePodman ContainerEngine = "podman"
	// ContainerEngineDocker runs rpmbuild through docker.
	ContainerEngineDocker ContainerEngine = "docker"
)

var (
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
	// ErrInvalidLogLevel is returned when a LogLevel value is not recognized.
	ErrInvalidLogLevel = errors.New("invalid log level")
	// ErrInvalidContainerEngine is returned when a ContainerEngine value is not recognized.
	ErrInvalidContainerEngine = errors.New("invalid container engine")
	// ErrMissingField is returned when a field required by a goal is unset.
	ErrMissingField = errors.New("missing required field")
)

type (
	// LogLevel is the minimum level of log output.
	LogLevel string

	// InvalidLogLevelError is returned when a LogLevel value is not recognized.
	// It wraps ErrInvalidLogLevel for errors.Is() compatibility.
	InvalidLogLevelError struct {
		Value LogLevel
	}

	// ContainerEngine selects the container CLI rpmbuild runs through.
	ContainerEngine string

	// InvalidContainerEngineError is returned when a ContainerEngine value is not recognized.
	// It wraps ErrInvalidContainerEngine for errors.Is() compatibility.
	InvalidContainerEngineError struct {
		Value ContainerEngine
	}

	// MissingFieldError names a field required by a goal.
	MissingFieldError struct {
		Field string
	}

	// InvalidConfigError collects every field-level problem found in a Config.
	// It wraps ErrInvalidConfig for errors.Is() compatibility.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// Config is the project descriptor.
	Config struct {
		Project ProjectConfig `json:"project" mapstructure:"project"`
		Package PackageConfig `json:"package" mapstructure:"package"`
		RPM     RPMConfig     `json:"rpm" mapstructure:"rpm"`
		Log     LogConfig     `json:"log" mapstructure:"log"`

		// Source is the descriptor file the config was read from, empty for defaults.
		Source string `json:"-" mapstructure:"-"`
	}

	// ProjectConfig describes the project being packaged.
	ProjectConfig struct {
		GroupID    string `json:"group_id" mapstructure:"group_id"`
		ArtifactID string `json:"artifact_id" mapstructure:"artifact_id"`
		Version    string `json:"version" mapstructure:"version"`
		// FinalName defaults to <artifact_id>-<version>.
		FinalName  string `json:"final_name" mapstructure:"final_name"`
		BaseDir    string `json:"base_dir" mapstructure:"base_dir"`
		OutputDir  string `json:"output_dir" mapstructure:"output_dir"`
		ClassesDir string `json:"classes_dir" mapstructure:"classes_dir"`
		// Artifact is the project's own built artifact.
		Artifact       ArtifactConfig   `json:"artifact" mapstructure:"artifact"`
		PropertiesFile string           `json:"properties_file" mapstructure:"properties_file"`
		Dependencies   []ArtifactConfig `json:"dependencies" mapstructure:"dependencies"`
	}

	// ArtifactConfig declares a resolved artifact.
	ArtifactConfig struct {
		GroupID    string `json:"group_id" mapstructure:"group_id"`
		ArtifactID string `json:"artifact_id" mapstructure:"artifact_id"`
		Version    string `json:"version" mapstructure:"version"`
		Type       string `json:"type" mapstructure:"type"`
		Classifier string `json:"classifier" mapstructure:"classifier"`
		Scope      string `json:"scope" mapstructure:"scope"`
		File       string `json:"file" mapstructure:"file"`
	}

	// PackageConfig controls the staging tree shared by the zip and rpm goals.
	PackageConfig struct {
		BaseDirectory           bool     `json:"base_directory" mapstructure:"base_directory"`
		AddDependencies         bool     `json:"add_dependencies" mapstructure:"add_dependencies"`
		GeneratePrimaryArtifact bool     `json:"generate_primary_artifact" mapstructure:"generate_primary_artifact"`
		PrimaryArtifactID       string   `json:"primary_artifact_id" mapstructure:"primary_artifact_id"`
		Classifier              string   `json:"classifier" mapstructure:"classifier"`
		Include                 []string `json:"include" mapstructure:"include"`
		Exclude                 []string `json:"exclude" mapstructure:"exclude"`
	}

	// RPMConfig holds the rpm goal's package parameters.
	RPMConfig struct {
		ComponentName string            `json:"component_name" mapstructure:"component_name"`
		InstallDir    string            `json:"install_dir" mapstructure:"install_dir"`
		Release       string            `json:"release" mapstructure:"release"`
		Prefix        string            `json:"prefix" mapstructure:"prefix"`
		Summary       string            `json:"summary" mapstructure:"summary"`
		License       string            `json:"license" mapstructure:"license"`
		Distribution  string            `json:"distribution" mapstructure:"distribution"`
		Vendor        string            `json:"vendor" mapstructure:"vendor"`
		URL           string            `json:"url" mapstructure:"url"`
		Group         string            `json:"group" mapstructure:"group"`
		Packager      string            `json:"packager" mapstructure:"packager"`
		TagPrefix     string            `json:"tag_prefix" mapstructure:"tag_prefix"`
		BuildRoot     string            `json:"build_root" mapstructure:"build_root"`
		BuildArch     string            `json:"build_arch" mapstructure:"build_arch"`
		NeedArch      bool              `json:"need_arch" mapstructure:"need_arch"`
		Description   string            `json:"description" mapstructure:"description"`
		Defines       []string          `json:"defines" mapstructure:"defines"`
		Requires      []string          `json:"requires" mapstructure:"requires"`
		SkipRepack    bool              `json:"skip_repack" mapstructure:"skip_repack"`
		Debug         bool              `json:"debug" mapstructure:"debug"`
		BuildrootDir  string            `json:"buildroot_dir" mapstructure:"buildroot_dir"`
		Scripts       map[string]string `json:"scripts" mapstructure:"scripts"`
		Container     ContainerConfig   `json:"container" mapstructure:"container"`
	}

	// ContainerConfig runs rpmbuild inside a container when Engine is set.
	ContainerConfig struct {
		Engine ContainerEngine `json:"engine" mapstructure:"engine"`
		Image  string          `json:"image" mapstructure:"image"`
	}

	// LogConfig configures log output.
	LogConfig struct {
		Level LogLevel `json:"level" mapstructure:"level"`
	}
)

// DefaultConfig returns the configuration used when no descriptor overrides it.
func DefaultConfig() *Config {
	return &Config{
		Project: ProjectConfig{
			OutputDir:      "target",
			ClassesDir:     "target/classes",
			PropertiesFile: "target/build.properties",
		},
		Package: PackageConfig{AddDependencies: true},
		Log:     LogConfig{Level: LogLevelInfo},
	}
}

// String returns the string representation of the LogLevel.
func (l LogLevel) String() string { return string(l) }

// Validate returns an error if the LogLevel is not recognized.
func (l LogLevel) Validate() error {
	switch l {
	case LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError:
		return nil
	default:
		return &InvalidLogLevelError{Value: l}
	}
}

// Error implements the error interface.
func (e *InvalidLogLevelError) Error() string {
	return fmt.Sprintf("invalid log level %q (valid: debug, info, warn, error)", e.Value)
}

// Unwrap returns ErrInvalidLogLevel for errors.Is() compatibility.
func (e *InvalidLogLevelError) Unwrap() error { return ErrInvalidLogLevel }

// String returns the string representation of the ContainerEngine.
func (c ContainerEngine) String() string { return string(c) }

// Validate returns an error if the ContainerEngine is set and not recognized.
// The zero value means rpmbuild runs on the host.
func (c ContainerEngine) Validate() error {
	switch c {
	case "", ContainerEnginePodman, ContainerEngineDocker:
		return nil
	default:
		return &InvalidContainerEngineError{Value: c}
	}
}

// Error implements the error interface.
func (e *InvalidContainerEngineError) Error() string {
	return fmt.Sprintf("invalid container engine %q (valid: podman, docker)", e.Value)
}

// Unwrap returns ErrInvalidContainerEngine for errors.Is() compatibility.
func (e *InvalidContainerEngineError) Unwrap() error { return ErrInvalidContainerEngine }

// Error implements the error interface.
func (e *MissingFieldError) Error() string {
	return e.Field + " is required"
}

// Unwrap returns ErrMissingField for errors.Is() compatibility.
func (e *MissingFieldError) Unwrap() error { return ErrMissingField }

// Error implements the error interface.
func (e *InvalidConfigError) Error() string {
	msgs := make([]string, 0, len(e.FieldErrors))
	for _, err := range e.FieldErrors {
		msgs = append(msgs, err.Error())
	}
	return fmt.Sprintf("invalid config: %s", strings.Join(msgs, "; "))
}

// Unwrap returns ErrInvalidConfig and the field errors.
func (e *InvalidConfigError) Unwrap() []error {
	return append([]error{ErrInvalidConfig}, e.FieldErrors...)
}

// Validate checks values CUE cannot: enum fields set through the environment
// and the container settings.
func (c *Config) Validate() error {
	var errs []error
	if err := c.Log.Level.Validate(); err != nil {
		errs = append(errs, err)
	}
	if err := c.RPM.Container.Engine.Validate(); err != nil {
		errs = append(errs, err)
	}
	if c.RPM.Container.Engine != "" && strings.TrimSpace(c.RPM.Container.Image) == "" {
		errs = append(errs, &MissingFieldError{Field: "rpm.container.image"})
	}
	if len(errs) > 0 {
		return &InvalidConfigError{FieldErrors: errs}
	}
	return nil
}

// RequireProject reports every project coordinate a packaging goal needs but
// the descriptor leaves unset.
func (c *Config) RequireProject() error {
	var errs []error
	if c.Project.ArtifactID == "" {
		errs = append(errs, &MissingFieldError{Field: "project.artifact_id"})
	}
	if c.Project.Version == "" {
		errs = append(errs, &MissingFieldError{Field: "project.version"})
	}
	if len(errs) > 0 {
		return &InvalidConfigError{FieldErrors: errs}
	}
	return nil
}
