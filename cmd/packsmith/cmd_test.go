// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"

	"packsmith-cli/internal/config"
	"packsmith-cli/internal/issue"
	"packsmith-cli/internal/project"
	"packsmith-cli/internal/rpm"
	"packsmith-cli/internal/testutil"
	"packsmith-cli/internal/timestamp"
)

type (
	stubProvider struct {
		cfg *config.Config
		err error
	}

	// stubRunner stands in for rpmbuild and leaves a package under RPMS/noarch.
	stubRunner struct {
		fs       billy.Filesystem
		exitCode int
		calls    int
	}

	testEnv struct {
		app    *App
		fs     billy.Filesystem
		runner *stubRunner
		stdout *bytes.Buffer
		stderr *bytes.Buffer
	}
)

func (p *stubProvider) Load(context.Context, config.LoadOptions) (*config.Config, error) {
	return p.cfg, p.err
}

func (r *stubRunner) Run(_ context.Context, c rpm.Command) error {
	r.calls++
	if r.exitCode != 0 {
		return &rpm.ProcessError{Command: c.Name, ExitCode: r.exitCode}
	}
	topdir := strings.TrimPrefix(c.Args[2], "_topdir ")
	spec := c.Args[len(c.Args)-1]
	pkg := filepath.Join(topdir, "RPMS", rpm.NoArch, strings.TrimSuffix(spec, ".spec")+"-1.0-1.noarch.rpm")
	return util.WriteFile(r.fs, pkg, []byte("rpm"), 0o644)
}

func projectConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Project = config.ProjectConfig{
		GroupID:        "org.acme",
		ArtifactID:     "billing",
		Version:        "1.0",
		FinalName:      "billing-1.0",
		BaseDir:        "/proj",
		OutputDir:      "/proj/target",
		ClassesDir:     "/proj/target/classes",
		PropertiesFile: "/proj/target/build.properties",
		Artifact:       config.ArtifactConfig{ArtifactID: "billing", File: "/proj/target/billing.jar"},
		Dependencies: []config.ArtifactConfig{
			{GroupID: "org.slf4j", ArtifactID: "slf4j-api", Version: "2.0.9", File: "/repo/slf4j-api.jar"},
		},
	}
	cfg.RPM.ComponentName = "billing"
	cfg.RPM.BuildrootDir = "/proj"
	cfg.Source = "/proj/packsmith.cue"
	return cfg
}

func newTestEnv(t *testing.T, provider *stubProvider, exitCode int) *testEnv {
	t.Helper()

	fs := memfs.New()
	testutil.MustWriteFiles(t, fs, map[string]string{
		"/proj/target/billing.jar": "own",
		"/repo/slf4j-api.jar":      "slf4j",
	})

	env := &testEnv{
		fs:     fs,
		runner: &stubRunner{fs: fs, exitCode: exitCode},
		stdout: &bytes.Buffer{},
		stderr: &bytes.Buffer{},
	}
	env.app = NewApp(Dependencies{
		Config:        provider,
		FS:            fs,
		Runner:        env.runner,
		Clock:         func() time.Time { return time.Date(2024, time.March, 5, 14, 22, 33, 0, time.UTC) },
		MarkdownStyle: "notty",
		Dir:           "/proj",
		Stdout:        env.stdout,
		Stderr:        env.stderr,
	})
	return env
}

func (e *testEnv) run(args ...string) error {
	root := newRootCommand(e.app)
	root.SetArgs(args)
	root.SetOut(e.stdout)
	root.SetErr(e.stderr)
	return root.ExecuteContext(context.Background())
}

func TestZipCommand(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, &stubProvider{cfg: projectConfig()}, 0)
	if err := env.run("zip", "--result-file", "target/result.toml"); err != nil {
		t.Fatalf("zip failed: %v\nstderr: %s", err, env.stderr)
	}

	if _, err := env.fs.Stat("/proj/target/billing-1.0.zip"); err != nil {
		t.Errorf("archive not written: %v", err)
	}
	if !strings.Contains(env.stdout.String(), "billing-1.0.zip") {
		t.Errorf("stdout = %q, want the archive path", env.stdout)
	}

	res, err := project.ReadManifest(env.fs, "/proj/target/result.toml")
	if err != nil {
		t.Fatalf("ReadManifest() error = %v", err)
	}
	if res.Goal != "zip" || res.Primary != "/proj/target/billing-1.0.zip" {
		t.Errorf("result = %+v", res)
	}
}

func TestRPMCommandDryRun(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, &stubProvider{cfg: projectConfig()}, 0)
	if err := env.run("rpm", "--dry-run"); err != nil {
		t.Fatalf("rpm --dry-run failed: %v\nstderr: %s", err, env.stderr)
	}

	out := env.stdout.String()
	if !strings.Contains(out, "Name:") || !strings.Contains(out, "billing") {
		t.Errorf("stdout should contain the spec file, got %q", out)
	}
	if env.runner.calls != 0 {
		t.Errorf("rpmbuild ran %d times during a dry run", env.runner.calls)
	}
	if _, err := env.fs.Stat("/proj/target/rpm"); err == nil {
		t.Error("dry run should not create the rpmbuild workspace")
	}
}

func TestRPMCommand(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, &stubProvider{cfg: projectConfig()}, 0)
	if err := env.run("rpm"); err != nil {
		t.Fatalf("rpm failed: %v\nstderr: %s", err, env.stderr)
	}

	if _, err := env.fs.Stat("/proj/target/billing-1.0-1.noarch.rpm"); err != nil {
		t.Errorf("package not copied to the output directory: %v", err)
	}
	if env.runner.calls != 1 {
		t.Errorf("rpmbuild ran %d times, want 1", env.runner.calls)
	}
}

func TestRPMCommandFailureExitCode(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, &stubProvider{cfg: projectConfig()}, 3)
	err := env.run("rpm")

	var exitErr *ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("error = %v, want *ExitError", err)
	}
	if exitErr.Code != 3 {
		t.Errorf("Code = %d, want 3", exitErr.Code)
	}
	var svcErr *ServiceError
	if !errors.As(err, &svcErr) || svcErr.IssueID != issue.RPMBuildFailedId {
		t.Errorf("error should carry issue %d, got %v", issue.RPMBuildFailedId, err)
	}
}

func TestRPMCommandInvalidDefine(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, &stubProvider{cfg: projectConfig()}, 0)
	err := env.run("rpm", "-D", "post")
	if !errors.Is(err, ErrInvalidProperty) {
		t.Fatalf("error = %v, want ErrInvalidProperty", err)
	}
	if env.runner.calls != 0 {
		t.Error("rpmbuild should not run")
	}
}

func TestLoadFailure(t *testing.T) {
	t.Parallel()

	loadErr := &config.InvalidConfigError{FieldErrors: []error{&config.MissingFieldError{Field: "project.version"}}}
	env := newTestEnv(t, &stubProvider{err: loadErr}, 0)
	err := env.run("zip")

	var exitErr *ExitError
	if !errors.As(err, &exitErr) || exitErr.Code != 1 {
		t.Fatalf("error = %v, want exit code 1", err)
	}
	if !errors.Is(err, config.ErrInvalidConfig) {
		t.Errorf("error should wrap ErrInvalidConfig: %v", err)
	}
	if env.stderr.Len() == 0 {
		t.Error("stderr should carry the help section")
	}
}

func TestTimestampCommand(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, &stubProvider{cfg: projectConfig()}, 0)
	if err := env.run("timestamp"); err != nil {
		t.Fatalf("timestamp failed: %v", err)
	}

	want := timestamp.Format(env.app.Clock())
	if got := strings.TrimSpace(env.stdout.String()); got != want {
		t.Errorf("stdout = %q, want %q", got, want)
	}
	if data := testutil.MustReadFile(t, env.fs, "/proj/target/build.properties"); !strings.Contains(data, "timestamp = "+want) {
		t.Errorf("properties = %q", data)
	}
}

func TestTimestampCommandPropertiesFlag(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, &stubProvider{cfg: projectConfig()}, 0)
	if err := env.run("timestamp", "--properties", "out/stamp.properties"); err != nil {
		t.Fatalf("timestamp failed: %v", err)
	}
	if _, err := env.fs.Stat("/proj/out/stamp.properties"); err != nil {
		t.Errorf("flag path not used: %v", err)
	}
}

func TestConfigCommands(t *testing.T) {
	t.Parallel()

	tests := []struct {
		args []string
		want []string
	}{
		{args: []string{"config", "show"}, want: []string{"org.acme:billing:1.0", "/proj/packsmith.cue", "/proj/target"}},
		{args: []string{"config", "dump"}, want: []string{"project: {", `"billing"`, "rpm: {"}},
	}

	for _, tt := range tests {
		t.Run(strings.Join(tt.args, " "), func(t *testing.T) {
			t.Parallel()

			env := newTestEnv(t, &stubProvider{cfg: projectConfig()}, 0)
			if err := env.run(tt.args...); err != nil {
				t.Fatalf("%v failed: %v", tt.args, err)
			}
			for _, w := range tt.want {
				if !strings.Contains(env.stdout.String(), w) {
					t.Errorf("stdout missing %q:\n%s", w, env.stdout)
				}
			}
		})
	}
}

func TestCompletionCommand(t *testing.T) {
	t.Parallel()

	for _, shell := range []string{"bash", "zsh", "fish", "powershell"} {
		t.Run(shell, func(t *testing.T) {
			t.Parallel()

			env := newTestEnv(t, &stubProvider{cfg: projectConfig()}, 0)
			if err := env.run("completion", shell); err != nil {
				t.Fatalf("completion %s failed: %v", shell, err)
			}
			if !strings.Contains(env.stdout.String(), "packsmith") {
				t.Errorf("completion %s output does not mention packsmith", shell)
			}
		})
	}

	env := newTestEnv(t, &stubProvider{cfg: projectConfig()}, 0)
	if err := env.run("completion", "tcsh"); err == nil {
		t.Error("completion tcsh should fail")
	}
}

func TestParseProperties(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		pairs   []string
		want    map[string]string
		wantErr bool
	}{
		{name: "none"},
		{name: "single", pairs: []string{"post=s/post.sh"}, want: map[string]string{"post": "s/post.sh"}},
		{name: "value with equals", pairs: []string{"k=a=b"}, want: map[string]string{"k": "a=b"}},
		{name: "later wins", pairs: []string{"k=1", "k=2"}, want: map[string]string{"k": "2"}},
		{name: "empty value", pairs: []string{"k="}, want: map[string]string{"k": ""}},
		{name: "missing equals", pairs: []string{"post"}, wantErr: true},
		{name: "blank key", pairs: []string{" =x"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := parseProperties(tt.pairs)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseProperties() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && !reflect.DeepEqual(got, tt.want) {
				t.Errorf("parseProperties() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestExitCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "plain", err: errors.New("boom"), want: 1},
		{name: "process", err: &rpm.ProcessError{Command: "rpmbuild", ExitCode: 5}, want: 5},
		{name: "wrapped process", err: fmt.Errorf("build: %w", &rpm.ProcessError{Command: "rpmbuild", ExitCode: 2}), want: 2},
		{name: "unknown process code", err: &rpm.ProcessError{Command: "rpmbuild", ExitCode: -1}, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := exitCode(tt.err); got != tt.want {
				t.Errorf("exitCode() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestGetVersionString(t *testing.T) {
	// Not parallel: mutates package-level version variables.
	oldVersion, oldCommit, oldDate := Version, Commit, BuildDate
	t.Cleanup(func() { Version, Commit, BuildDate = oldVersion, oldCommit, oldDate })

	Version = "dev"
	if got := getVersionString(); got != "dev (built from source)" {
		t.Errorf("getVersionString() = %q", got)
	}

	Version, Commit, BuildDate = "1.2.0", "abc123", "2024-03-05"
	if got := getVersionString(); got != "1.2.0 (commit: abc123, built: 2024-03-05)" {
		t.Errorf("getVersionString() = %q", got)
	}
}
