// SPDX-License-Identifier: MPL-2.0

package project

import (
	"packsmith-cli/internal/artifact"
)

// Project is the project a goal packages. All paths are absolute.
type Project struct {
	GroupID    string
	ArtifactID string
	Version    string
	// FinalName is the base name of generated files, without extension.
	FinalName string

	BaseDir    string
	OutputDir  string
	ClassesDir string

	// Artifact is the project's own built artifact, if any.
	Artifact *artifact.Artifact
	// Dependencies are the declared dependencies, unfiltered.
	Dependencies []artifact.Artifact

	// PropertiesFile receives build properties such as the timestamp.
	PropertiesFile string
}

// Resolver serves the project's own artifact and declared dependencies.
func (p *Project) Resolver() *artifact.StaticResolver {
	return &artifact.StaticResolver{Project: p.Artifact, Dependencies: p.Dependencies}
}

// Coordinates returns group:artifact:version.
func (p *Project) Coordinates() string {
	return p.GroupID + ":" + p.ArtifactID + ":" + p.Version
}
