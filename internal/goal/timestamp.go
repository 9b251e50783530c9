// SPDX-License-Identifier: MPL-2.0

package goal

import (
	"github.com/go-git/go-billy/v5"

	"packsmith-cli/internal/config"
	"packsmith-cli/internal/project"
	"packsmith-cli/internal/timestamp"
)

// Timestamp stamps the current time into the project's properties file.
type Timestamp struct {
	fs        billy.Filesystem
	generator *timestamp.Generator
}

// NewTimestamp creates the timestamp goal.
func NewTimestamp(fs billy.Filesystem, generator *timestamp.Generator) *Timestamp {
	return &Timestamp{fs: fs, generator: generator}
}

// Run sets the timestamp property in path, or in project.properties_file when
// path is empty, and returns the value set.
func (t *Timestamp) Run(cfg *config.Config, path string) (string, error) {
	if path == "" && cfg != nil {
		path = cfg.Project.PropertiesFile
	}
	if path == "" {
		return t.generator.Apply(nil)
	}
	return t.generator.Apply(project.NewPropertiesFile(t.fs, path))
}
