// SPDX-License-Identifier: MPL-2.0

package rpm

import (
	"embed"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
	"mvdan.cc/sh/v3/syntax"
)

const (
	// Spec file sections, in render order.
	SectionPre          Section = "pre"
	SectionInstall      Section = "install"
	SectionPost         Section = "post"
	SectionPreun        Section = "preun"
	SectionPostun       Section = "postun"
	SectionVerifyscript Section = "verifyscript"
	SectionClean        Section = "clean"
	SectionFiles        Section = "files"
)

//go:embed scripts/*.sh
var defaultScripts embed.FS

type (
	// Section is a spec file section that carries a script body.
	Section string

	// Scripts holds the body of every section, keyed by section.
	Scripts map[Section]string

	// ScriptLoader reads section bodies from override files or the built-in defaults.
	ScriptLoader struct {
		fs     billy.Filesystem
		logger Logger
	}
)

// Sections returns every section in the order it is rendered.
func Sections() []Section {
	return []Section{
		SectionPre,
		SectionInstall,
		SectionPost,
		SectionPreun,
		SectionPostun,
		SectionVerifyscript,
		SectionClean,
		SectionFiles,
	}
}

// Header returns the spec line that opens the section.
func (s Section) Header() string { return "%" + string(s) }

// IsShell reports whether the section body is a shell scriptlet. %files is a file list.
func (s Section) IsShell() bool { return s != SectionFiles }

// NewScriptLoader creates a ScriptLoader reading overrides from fs.
func NewScriptLoader(fs billy.Filesystem, logger Logger) *ScriptLoader {
	return &ScriptLoader{fs: fs, logger: orNop(logger)}
}

// Load returns the body of every section. An override path comes from the property
// named after the section, else from p.Scripts. Relative paths resolve against
// p.BuildrootDir. Sections without an override use the built-in default.
func (l *ScriptLoader) Load(p *Params) (Scripts, error) {
	scripts := make(Scripts, len(Sections()))
	for _, s := range Sections() {
		body, source, err := l.load(p, s)
		if err != nil {
			return nil, err
		}
		body = strings.TrimRight(body, "\n")
		scripts[s] = body
		l.logger.Debug("script located", "section", s.Header(), "source", source)

		if s.IsShell() {
			l.lint(s, body)
		}
	}
	return scripts, nil
}

func (l *ScriptLoader) load(p *Params, s Section) (body, source string, err error) {
	path := p.Properties[string(s)]
	if path == "" {
		path = p.Scripts[s]
	}

	if path == "" {
		data, readErr := defaultScripts.ReadFile("scripts/" + string(s) + ".sh")
		if readErr != nil {
			return "", "", fmt.Errorf("missing built-in %s script: %w", s.Header(), readErr)
		}
		return string(data), "built-in", nil
	}

	if !filepath.IsAbs(path) {
		path = filepath.Join(p.BuildrootDir, path)
	}
	data, err := util.ReadFile(l.fs, path)
	if err != nil {
		return "", "", fmt.Errorf("read %s script %s: %w", s.Header(), path, err)
	}
	return string(data), path, nil
}

// lint parses body as bash. RPM macros are not shell, so a parse failure is only a warning.
func (l *ScriptLoader) lint(s Section, body string) {
	parser := syntax.NewParser(syntax.Variant(syntax.LangBash))
	if _, err := parser.Parse(strings.NewReader(body), s.Header()); err != nil {
		l.logger.Warn("script does not parse as bash", "section", s.Header(), "error", err)
	}
}
