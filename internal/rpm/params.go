// SPDX-License-Identifier: MPL-2.0

package rpm

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

const (
	// DefaultPrefix is the _prefix macro used when none is configured.
	DefaultPrefix = "/opt"

	// SnapshotRelease is the default release of snapshot versions.
	SnapshotRelease = "SNAPSHOT"
	// DefaultReleaseNumber is the default release of non-snapshot versions.
	DefaultReleaseNumber = "1"
)

var (
	// ErrInvalidConfiguration is the sentinel error wrapped by ConfigurationError.
	ErrInvalidConfiguration = errors.New("invalid rpm configuration")

	// ErrInvalidComponentName is the sentinel error wrapped by InvalidComponentNameError.
	ErrInvalidComponentName = errors.New("invalid component name")

	// ErrInvalidVersion is the sentinel error wrapped by InvalidVersionError.
	ErrInvalidVersion = errors.New("invalid version")

	// ErrInvalidRelease is the sentinel error wrapped by InvalidReleaseError.
	ErrInvalidRelease = errors.New("invalid release")

	// ErrMissingBuildArch is returned when an architecture-specific package is requested
	// on a host whose architecture has no RPM name and no BuildArch is configured.
	ErrMissingBuildArch = errors.New("build_arch is required when need_arch is set on this host")
)

type (
	// ComponentName is the RPM package name. It must be non-empty and contain no whitespace.
	ComponentName string

	// InvalidComponentNameError is returned when a ComponentName is empty or contains whitespace.
	InvalidComponentNameError struct {
		Value ComponentName
	}

	// Version is the project version, e.g. "1.2.3-SNAPSHOT".
	Version string

	// InvalidVersionError is returned when a Version is empty or contains whitespace.
	InvalidVersionError struct {
		Value Version
	}

	// Release is the RPM release tag. The zero value means "derive from the version".
	Release string

	// InvalidReleaseError is returned when a Release contains whitespace.
	InvalidReleaseError struct {
		Value Release
	}

	// Params are the typed package parameters of one rpm run.
	Params struct {
		ComponentName ComponentName
		Version       Version
		Release       Release
		// InstallDir defaults to ComponentName. It is rendered with a leading slash.
		InstallDir string
		// Prefix is the _prefix macro. Defaults to DefaultPrefix.
		Prefix string

		// Optional header tags, emitted only when set.
		Summary      string
		License      string
		Distribution string
		Vendor       string
		URL          string
		Group        string
		Packager     string
		TagPrefix    string
		BuildRoot    string
		BuildArch    string

		// NeedArch builds for the host (or BuildArch) instead of noarch.
		NeedArch    bool
		Description string
		Defines     []string
		Requires    []string
		// SkipRepack disables rpmbuild's jar repacking post-install step.
		SkipRepack bool
		// Debug keeps the staging tree and the rpmbuild workspace after the run.
		Debug bool

		// BuildrootDir is the pom_buildroot macro. Script override paths resolve against it.
		BuildrootDir string
		// Scripts maps a section to an override file path.
		Scripts map[Section]string
		// Properties are -D key=value overrides. A property named after a section wins over Scripts.
		Properties map[string]string
	}

	// ConfigurationError aggregates every parameter problem found by Params.Validate.
	// It wraps ErrInvalidConfiguration for errors.Is() compatibility.
	ConfigurationError struct {
		FieldErrs []error
	}
)

// String returns the string representation of the ComponentName.
func (c ComponentName) String() string { return string(c) }

// Validate returns an error if the ComponentName is empty or contains whitespace.
func (c ComponentName) Validate() error {
	if c == "" || containsSpace(string(c)) {
		return &InvalidComponentNameError{Value: c}
	}
	return nil
}

// Error implements the error interface.
func (e *InvalidComponentNameError) Error() string {
	if e.Value == "" {
		return "component_name is required"
	}
	return fmt.Sprintf("invalid component name %q: must not contain whitespace", e.Value)
}

// Unwrap returns ErrInvalidComponentName for errors.Is() compatibility.
func (e *InvalidComponentNameError) Unwrap() error { return ErrInvalidComponentName }

// String returns the string representation of the Version.
func (v Version) String() string { return string(v) }

// Validate returns an error if the Version is empty or contains whitespace.
func (v Version) Validate() error {
	if v == "" || containsSpace(string(v)) {
		return &InvalidVersionError{Value: v}
	}
	return nil
}

// RPMVersion returns the part of the version before the first hyphen.
func (v Version) RPMVersion() string { return SplitVersion(string(v)) }

// Error implements the error interface.
func (e *InvalidVersionError) Error() string {
	if e.Value == "" {
		return "version is required"
	}
	return fmt.Sprintf("invalid version %q: must not contain whitespace", e.Value)
}

// Unwrap returns ErrInvalidVersion for errors.Is() compatibility.
func (e *InvalidVersionError) Unwrap() error { return ErrInvalidVersion }

// String returns the string representation of the Release.
func (r Release) String() string { return string(r) }

// Validate returns an error if the Release contains whitespace.
// The zero value is valid.
func (r Release) Validate() error {
	if containsSpace(string(r)) {
		return &InvalidReleaseError{Value: r}
	}
	return nil
}

// Error implements the error interface.
func (e *InvalidReleaseError) Error() string {
	return fmt.Sprintf("invalid release %q: must not contain whitespace", e.Value)
}

// Unwrap returns ErrInvalidRelease for errors.Is() compatibility.
func (e *InvalidReleaseError) Unwrap() error { return ErrInvalidRelease }

// Error implements the error interface.
func (e *ConfigurationError) Error() string {
	msgs := make([]string, len(e.FieldErrs))
	for i, err := range e.FieldErrs {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("invalid rpm configuration: %s", strings.Join(msgs, "; "))
}

// Unwrap returns ErrInvalidConfiguration and the field errors so callers can use
// errors.Is for both the aggregate and a specific field.
func (e *ConfigurationError) Unwrap() []error {
	return append([]error{ErrInvalidConfiguration}, e.FieldErrs...)
}

// SplitVersion returns the part of v before the first hyphen, or v itself when it
// has none: "1.2.3-SNAPSHOT" becomes "1.2.3".
func SplitVersion(v string) string {
	if i := strings.IndexByte(v, '-'); i >= 0 {
		return v[:i]
	}
	return v
}

// DefaultRelease returns SnapshotRelease for snapshot versions and
// DefaultReleaseNumber otherwise.
func DefaultRelease(v string) string {
	if strings.Contains(v, SnapshotRelease) {
		return SnapshotRelease
	}
	return DefaultReleaseNumber
}

// Validate checks every parameter and reports all problems at once.
// It runs before any file is touched.
func (p *Params) Validate() error {
	var errs []error
	if err := p.ComponentName.Validate(); err != nil {
		errs = append(errs, err)
	}
	if err := p.Version.Validate(); err != nil {
		errs = append(errs, err)
	}
	if err := p.Release.Validate(); err != nil {
		errs = append(errs, err)
	}
	if p.InstallDir != "" && containsSpace(p.InstallDir) {
		errs = append(errs, fmt.Errorf("invalid install_dir %q: must not contain whitespace", p.InstallDir))
	}
	if p.NeedArch && p.BuildArch == "" && HostArch() == "" {
		errs = append(errs, ErrMissingBuildArch)
	}
	if len(errs) > 0 {
		return &ConfigurationError{FieldErrs: errs}
	}
	return nil
}

// ResolvedRelease returns the configured release or the default derived from the version.
func (p *Params) ResolvedRelease() string {
	if p.Release != "" {
		return string(p.Release)
	}
	return DefaultRelease(string(p.Version))
}

// ResolvedInstallDir returns the configured install directory or the component name.
func (p *Params) ResolvedInstallDir() string {
	if p.InstallDir != "" {
		return p.InstallDir
	}
	return string(p.ComponentName)
}

// ResolvedPrefix returns the configured _prefix or DefaultPrefix.
func (p *Params) ResolvedPrefix() string {
	if p.Prefix != "" {
		return p.Prefix
	}
	return DefaultPrefix
}

// FileName returns the name rpmbuild gives the binary package.
func (p *Params) FileName() string {
	return fmt.Sprintf("%s-%s-%s.%s.rpm", p.ComponentName, p.Version.RPMVersion(), p.ResolvedRelease(), p.Arch())
}

func containsSpace(s string) bool {
	return strings.IndexFunc(s, unicode.IsSpace) >= 0
}
