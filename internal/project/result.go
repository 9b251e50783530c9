// SPDX-License-Identifier: MPL-2.0

package project

import (
	"fmt"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
	"github.com/pelletier/go-toml/v2"
)

type (
	// Attachment is a secondary output distinguished by its classifier.
	Attachment struct {
		Type       string `toml:"type"`
		Classifier string `toml:"classifier"`
		File       string `toml:"file"`
	}

	// Result records what a goal produced. Without a classifier the output becomes
	// the project's primary artifact; with one it is attached alongside.
	Result struct {
		Goal        string       `toml:"goal"`
		Project     string       `toml:"project"`
		Primary     string       `toml:"primary,omitempty"`
		Attachments []Attachment `toml:"attachments,omitempty"`
	}
)

// NewResult starts a result for goal on p.
func NewResult(goal string, p *Project) *Result {
	return &Result{Goal: goal, Project: p.Coordinates()}
}

// Record registers an output file of the given type.
func (r *Result) Record(typ, classifier, file string) {
	if classifier == "" {
		r.Primary = file
		return
	}
	r.Attachments = append(r.Attachments, Attachment{Type: typ, Classifier: classifier, File: file})
}

// Files returns every recorded output, primary first.
func (r *Result) Files() []string {
	files := make([]string, 0, len(r.Attachments)+1)
	if r.Primary != "" {
		files = append(files, r.Primary)
	}
	for _, a := range r.Attachments {
		files = append(files, a.File)
	}
	return files
}

// WriteManifest writes the result as TOML to path.
func (r *Result) WriteManifest(fs billy.Filesystem, path string) error {
	data, err := toml.Marshal(r)
	if err != nil {
		return fmt.Errorf("encode build result: %w", err)
	}
	if err := util.WriteFile(fs, path, data, 0o644); err != nil {
		return fmt.Errorf("write build result %s: %w", path, err)
	}
	return nil
}

// ReadManifest reads a result written by WriteManifest.
func ReadManifest(fs billy.Filesystem, path string) (*Result, error) {
	data, err := util.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("read build result %s: %w", path, err)
	}
	var r Result
	if err := toml.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("decode build result %s: %w", path, err)
	}
	return &r, nil
}
