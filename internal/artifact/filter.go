// SPDX-License-Identifier: MPL-2.0

package artifact

import (
	"strings"

	"golang.org/x/exp/slices"
)

var (
	// ZipExtensions are the artifact file extensions bundled by the zip goal.
	ZipExtensions = Extensions{"jar"}
	// RPMExtensions are the artifact file extensions bundled by the rpm goal.
	RPMExtensions = Extensions{"jar", "war", "ear"}
)

type (
	// Extensions is an allowed set of lower-case, three-character file extensions.
	Extensions []string

	// FilterOptions controls which artifacts Filter keeps.
	FilterOptions struct {
		// Allowed is the set of file extensions that may be bundled.
		Allowed Extensions
		// PrimaryArtifactID designates the dependency merged into the staging root.
		// It is kept regardless of its scope.
		PrimaryArtifactID string
	}
)

// Contains reports whether ext is in the set. The comparison is case-insensitive.
func (e Extensions) Contains(ext string) bool {
	return slices.Contains(e, strings.ToLower(ext))
}

// Filter selects the bundleable artifacts: the project's own artifact when it has a
// file, then every dependency whose scope is not test. Every kept artifact, the
// project's own included, has an allowed extension.
// Duplicates collapse by identity, keeping the first occurrence.
func Filter(project *Artifact, deps []Artifact, opts FilterOptions) []Artifact {
	seen := make(map[string]struct{}, len(deps)+1)
	out := make([]Artifact, 0, len(deps)+1)

	add := func(a Artifact) {
		id := a.ID()
		if _, dup := seen[id]; dup {
			return
		}
		seen[id] = struct{}{}
		out = append(out, a)
	}

	if project != nil && project.File != "" && opts.Allowed.Contains(project.Extension()) {
		add(*project)
	}

	for _, d := range deps {
		if !opts.Allowed.Contains(d.Extension()) {
			continue
		}
		if opts.PrimaryArtifactID != "" && d.ArtifactID == opts.PrimaryArtifactID {
			add(d)
			continue
		}
		if d.EffectiveScope() == ScopeTest {
			continue
		}
		add(d)
	}

	return out
}
