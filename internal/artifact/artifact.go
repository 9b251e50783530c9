// SPDX-License-Identifier: MPL-2.0

package artifact

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

const (
	// ScopeCompile is the default dependency scope.
	ScopeCompile Scope = "compile"
	// ScopeRuntime marks dependencies needed only at run time.
	ScopeRuntime Scope = "runtime"
	// ScopeProvided marks dependencies supplied by the target environment.
	ScopeProvided Scope = "provided"
	// ScopeTest marks dependencies used only by tests. These are never bundled.
	ScopeTest Scope = "test"
)

// ErrInvalidArtifact is the sentinel error wrapped by InvalidArtifactError.
var ErrInvalidArtifact = errors.New("invalid artifact")

type (
	// Scope is a dependency's applicability category.
	Scope string

	// Artifact is a resolved build artifact. Artifacts are produced by a Resolver
	// and treated as read-only by the packaging goals.
	Artifact struct {
		GroupID    string
		ArtifactID string
		Version    string
		// Type is the packaging type (jar, war, ear, pom...). Defaults to the file extension.
		Type       string
		Classifier string
		Scope      Scope
		// File is the absolute path of the artifact on disk.
		File string
	}

	// InvalidArtifactError is returned when an artifact declaration is incomplete.
	// It wraps ErrInvalidArtifact for errors.Is() compatibility.
	InvalidArtifactError struct {
		ID     string
		Reason string
	}

	// Resolver supplies the project's resolved artifacts: its own artifact (if built)
	// followed by its dependencies.
	Resolver interface {
		Resolve(ctx context.Context) (project *Artifact, deps []Artifact, err error)
	}

	// StaticResolver serves a fixed artifact list, typically declared in the project descriptor.
	StaticResolver struct {
		Project      *Artifact
		Dependencies []Artifact
	}
)

// Error implements the error interface.
func (e *InvalidArtifactError) Error() string {
	return fmt.Sprintf("invalid artifact %q: %s", e.ID, e.Reason)
}

// Unwrap returns ErrInvalidArtifact so callers can use errors.Is for programmatic detection.
func (e *InvalidArtifactError) Unwrap() error { return ErrInvalidArtifact }

// ID returns the identity key used to collapse duplicates:
// group:artifact:type[:classifier]:version.
func (a Artifact) ID() string {
	var sb strings.Builder
	sb.WriteString(a.GroupID)
	sb.WriteByte(':')
	sb.WriteString(a.ArtifactID)
	sb.WriteByte(':')
	sb.WriteString(a.typeOrExt())
	if a.Classifier != "" {
		sb.WriteByte(':')
		sb.WriteString(a.Classifier)
	}
	sb.WriteByte(':')
	sb.WriteString(a.Version)
	return sb.String()
}

// FileName returns the base name of the artifact file.
func (a Artifact) FileName() string {
	return filepath.Base(a.File)
}

// Extension returns the last three characters of the file name, lower-cased.
// Artifact files are classified by this suffix rather than by Type, since a
// declared type may not match what is actually on disk.
func (a Artifact) Extension() string {
	name := a.FileName()
	if len(name) < 3 {
		return strings.ToLower(name)
	}
	return strings.ToLower(name[len(name)-3:])
}

// EffectiveScope returns the declared scope, defaulting to compile.
func (a Artifact) EffectiveScope() Scope {
	if a.Scope == "" {
		return ScopeCompile
	}
	return a.Scope
}

// Validate checks that the artifact has the fields needed for bundling.
func (a Artifact) Validate() error {
	switch {
	case a.ArtifactID == "":
		return &InvalidArtifactError{ID: a.ID(), Reason: "artifact_id is required"}
	case a.File == "":
		return &InvalidArtifactError{ID: a.ID(), Reason: "file is required"}
	}
	return nil
}

func (a Artifact) typeOrExt() string {
	if a.Type != "" {
		return a.Type
	}
	return strings.TrimPrefix(filepath.Ext(a.File), ".")
}

// Resolve implements Resolver.
func (r *StaticResolver) Resolve(ctx context.Context) (*Artifact, []Artifact, error) {
	select {
	case <-ctx.Done():
		return nil, nil, fmt.Errorf("resolve artifacts canceled: %w", ctx.Err())
	default:
	}

	var errs []error
	if r.Project != nil && r.Project.File != "" {
		if err := r.Project.Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	for _, d := range r.Dependencies {
		if err := d.Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return nil, nil, errors.Join(errs...)
	}

	deps := make([]Artifact, len(r.Dependencies))
	copy(deps, r.Dependencies)
	return r.Project, deps, nil
}

// FileName builds an output file name from a final name, an optional classifier and an
// extension that includes its leading dot. A blank classifier is ignored; any other
// classifier is joined with a hyphen unless it already starts with one.
func FileName(finalName, classifier, ext string) string {
	switch {
	case strings.TrimSpace(classifier) == "":
		classifier = ""
	case !strings.HasPrefix(classifier, "-"):
		classifier = "-" + classifier
	}
	return finalName + classifier + ext
}
