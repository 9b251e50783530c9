// SPDX-License-Identifier: MPL-2.0

package rpm

import (
	"strings"
	"testing"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
)

func TestScriptLoaderDefaults(t *testing.T) {
	t.Parallel()

	scripts, err := NewScriptLoader(memfs.New(), nil).Load(&Params{})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	for _, s := range Sections() {
		if scripts[s] == "" {
			t.Errorf("section %s has no default body", s.Header())
		}
		if strings.HasSuffix(scripts[s], "\n") {
			t.Errorf("section %s body should not end with a newline", s.Header())
		}
	}
	if !strings.Contains(scripts[SectionFiles], "%{_prefix}%{install_dir}") {
		t.Errorf("default %%files should list the install directory, got %q", scripts[SectionFiles])
	}
}

func TestScriptLoaderOverrides(t *testing.T) {
	t.Parallel()

	fs := memfs.New()
	for name, body := range map[string]string{
		"/proj/src/buildroot/scripts/post.sh": "echo from descriptor\n",
		"/proj/src/buildroot/alt/post.sh":     "echo from property\n",
		"/abs/preun.sh":                       "echo absolute\n",
	} {
		if err := util.WriteFile(fs, name, []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	p := &Params{
		BuildrootDir: "/proj/src/buildroot",
		Scripts: map[Section]string{
			SectionPost:  "scripts/post.sh",
			SectionPreun: "/abs/preun.sh",
		},
		Properties: map[string]string{"post": "alt/post.sh"},
	}

	scripts, err := NewScriptLoader(fs, nil).Load(p)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got := scripts[SectionPost]; got != "echo from property" {
		t.Errorf("%%post = %q, want property override", got)
	}
	if got := scripts[SectionPreun]; got != "echo absolute" {
		t.Errorf("%%preun = %q, want absolute override", got)
	}

	delete(p.Properties, "post")
	scripts, err = NewScriptLoader(fs, nil).Load(p)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got := scripts[SectionPost]; got != "echo from descriptor" {
		t.Errorf("%%post = %q, want descriptor override", got)
	}
}

func TestScriptLoaderMissingOverride(t *testing.T) {
	t.Parallel()

	p := &Params{BuildrootDir: "/proj", Scripts: map[Section]string{SectionInstall: "missing.sh"}}
	if _, err := NewScriptLoader(memfs.New(), nil).Load(p); err == nil {
		t.Fatal("Load() expected error for missing override file")
	}
}

func TestScriptLoaderLintWarns(t *testing.T) {
	t.Parallel()

	fs := memfs.New()
	if err := util.WriteFile(fs, "/br/post.sh", []byte("if then fi (\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	logger := newRecordingLogger()
	p := &Params{BuildrootDir: "/br", Scripts: map[Section]string{SectionPost: "post.sh"}}
	if _, err := NewScriptLoader(fs, logger).Load(p); err != nil {
		t.Fatalf("Load() error = %v, lint failures must not be fatal", err)
	}
	if !logger.has("warn", "%post") {
		t.Error("expected a lint warning for %post")
	}
	if logger.has("warn", "%install") {
		t.Error("default %install should parse cleanly")
	}
}
