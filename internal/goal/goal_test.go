// SPDX-License-Identifier: MPL-2.0

package goal

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"

	"packsmith-cli/internal/archive"
	"packsmith-cli/internal/config"
	"packsmith-cli/internal/rpm"
	"packsmith-cli/internal/staging"
	"packsmith-cli/internal/testutil"
	"packsmith-cli/internal/timestamp"
)

// fakeRPMBuild leaves a package where rpmbuild would and records the command.
type fakeRPMBuild struct {
	fs       billy.Filesystem
	exitCode int
	commands []rpm.Command
}

func (f *fakeRPMBuild) Run(_ context.Context, c rpm.Command) error {
	f.commands = append(f.commands, c)
	if f.exitCode != 0 {
		return &rpm.ProcessError{Command: c.Name, ExitCode: f.exitCode}
	}
	topdir := strings.TrimPrefix(c.Args[2], "_topdir ")
	name := c.Args[len(c.Args)-1]
	pkg := filepath.Join(topdir, "RPMS", rpm.NoArch, strings.TrimSuffix(name, ".spec")+"-1.0-1.noarch.rpm")
	return util.WriteFile(f.fs, pkg, []byte("rpm"), 0o644)
}

func testConfig() *config.Config {
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
			{GroupID: "junit", ArtifactID: "junit", Version: "4.13", Scope: "test", File: "/repo/junit.jar"},
			{GroupID: "org.acme", ArtifactID: "console", Version: "1.0", File: "/repo/console.war"},
		},
	}
	cfg.Package.Include = []string{"/proj/conf"}
	cfg.Package.Exclude = []string{`.*\.tmp`}
	cfg.RPM.ComponentName = "billing"
	cfg.RPM.BuildrootDir = "/proj"
	return cfg
}

func seed(t *testing.T) billy.Filesystem {
	t.Helper()
	fs := memfs.New()
	testutil.MustWriteFiles(t, fs, map[string]string{
		"/proj/target/billing.jar": "own",
		"/repo/slf4j-api.jar":      "slf4j",
		"/repo/junit.jar":          "junit",
		"/repo/console.war":        "war",
		"/proj/conf/app.conf":      "port=8080",
		"/proj/conf/scratch.tmp":   "x",
	})
	return fs
}

func TestZipRun(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		opts       Options
		wantFile   string
		wantAttach bool
	}{
		{name: "primary", wantFile: "/proj/target/billing-1.0.zip"},
		{name: "classified", opts: Options{Classifier: "dist"}, wantFile: "/proj/target/billing-1.0-dist.zip", wantAttach: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			fs := seed(t)
			z := NewZip(staging.NewAssembler(fs, nil), archive.NewWriter(fs), nil)
			res, err := z.Run(context.Background(), testConfig(), tt.opts)
			if err != nil {
				t.Fatalf("Run() error = %v", err)
			}

			if tt.wantAttach {
				if res.Primary != "" || len(res.Attachments) != 1 || res.Attachments[0].File != tt.wantFile {
					t.Errorf("result = %+v, want attachment %s", res, tt.wantFile)
				}
			} else if res.Primary != tt.wantFile {
				t.Errorf("Primary = %q, want %q", res.Primary, tt.wantFile)
			}

			entries := testutil.ReadZip(t, fs, tt.wantFile)
			for _, want := range []string{"lib/billing.jar", "lib/slf4j-api.jar", "conf/app.conf"} {
				if _, ok := entries[want]; !ok {
					t.Errorf("zip is missing %s: %v", want, entries)
				}
			}
			for _, unwanted := range []string{"lib/junit.jar", "lib/console.war", "conf/scratch.tmp"} {
				if _, ok := entries[unwanted]; ok {
					t.Errorf("zip should not contain %s", unwanted)
				}
			}

			if _, err := fs.Stat("/proj/target/temp"); err == nil {
				t.Error("staging tree should be removed after packaging")
			}
		})
	}
}

func TestZipRunRequiresProject(t *testing.T) {
	t.Parallel()

	fs := memfs.New()
	z := NewZip(staging.NewAssembler(fs, nil), archive.NewWriter(fs), nil)

	cfg := config.DefaultConfig()
	if _, err := z.Run(context.Background(), cfg, Options{}); !errors.Is(err, config.ErrMissingField) {
		t.Errorf("Run() error = %v, want ErrMissingField", err)
	}
	if _, err := z.Run(context.Background(), nil, Options{}); !errors.Is(err, ErrNoDescriptor) {
		t.Errorf("Run(nil) error = %v, want ErrNoDescriptor", err)
	}
}

func TestZipRunBadExclusion(t *testing.T) {
	t.Parallel()

	fs := seed(t)
	cfg := testConfig()
	cfg.Package.Exclude = []string{"("}

	z := NewZip(staging.NewAssembler(fs, nil), archive.NewWriter(fs), nil)
	if _, err := z.Run(context.Background(), cfg, Options{}); !errors.Is(err, staging.ErrInvalidExclusion) {
		t.Errorf("Run() error = %v, want ErrInvalidExclusion", err)
	}
	if _, err := fs.Stat("/proj/target/temp"); err == nil {
		t.Error("nothing should be staged when the exclusions do not compile")
	}
}

func newRPMGoal(fs billy.Filesystem, runner rpm.Runner) *RPM {
	return NewRPM(staging.NewAssembler(fs, nil), rpm.NewBuilder(fs, archive.NewWriter(fs), runner, nil), nil)
}

func TestRPMRun(t *testing.T) {
	t.Parallel()

	fs := seed(t)
	runner := &fakeRPMBuild{fs: fs}
	res, err := newRPMGoal(fs, runner).Run(context.Background(), testConfig(), Options{})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if res.Primary != "/proj/target/billing-1.0-1.noarch.rpm" {
		t.Errorf("Primary = %q", res.Primary)
	}
	if len(runner.commands) != 1 || runner.commands[0].Name != rpm.RPMBuildBinary {
		t.Fatalf("commands = %v", runner.commands)
	}
	for _, gone := range []string{"/proj/target/temp", "/proj/target/rpm"} {
		if _, err := fs.Stat(gone); err == nil {
			t.Errorf("%s should be removed after the build", gone)
		}
	}
}

func TestRPMRunFailure(t *testing.T) {
	t.Parallel()

	fs := seed(t)
	_, err := newRPMGoal(fs, &fakeRPMBuild{fs: fs, exitCode: 1}).Run(context.Background(), testConfig(), Options{})

	var procErr *rpm.ProcessError
	if !errors.As(err, &procErr) || procErr.ExitCode != 1 {
		t.Fatalf("Run() error = %v, want ProcessError with code 1", err)
	}
	if !strings.Contains(err.Error(), "code 1") {
		t.Errorf("error %q should name the exit code", err)
	}
}

func TestRPMRunDebugKeepsDirectories(t *testing.T) {
	t.Parallel()

	fs := seed(t)
	_, err := newRPMGoal(fs, &fakeRPMBuild{fs: fs, exitCode: 2}).Run(context.Background(), testConfig(), Options{Debug: true})
	if err == nil {
		t.Fatal("Run() should fail")
	}
	for _, kept := range []string{"/proj/target/temp/lib/slf4j-api.jar", "/proj/target/temp/lib/console.war", "/proj/target/rpm/SPECS/billing.spec"} {
		if _, statErr := fs.Stat(kept); statErr != nil {
			t.Errorf("%s should be kept in debug mode: %v", kept, statErr)
		}
	}
}

func TestRPMRunInvalidParamsWritesNothing(t *testing.T) {
	t.Parallel()

	fs := seed(t)
	cfg := testConfig()
	cfg.RPM.ComponentName = ""
	cfg.RPM.Release = "1 beta"

	runner := &fakeRPMBuild{fs: fs}
	_, err := newRPMGoal(fs, runner).Run(context.Background(), cfg, Options{})
	if !errors.Is(err, rpm.ErrInvalidConfiguration) {
		t.Fatalf("Run() error = %v, want ErrInvalidConfiguration", err)
	}
	if !errors.Is(err, rpm.ErrInvalidComponentName) || !errors.Is(err, rpm.ErrInvalidRelease) {
		t.Errorf("every invalid parameter should be reported: %v", err)
	}
	if len(runner.commands) != 0 {
		t.Error("rpmbuild should not run")
	}
	if _, statErr := fs.Stat("/proj/target"); statErr == nil {
		t.Error("nothing should be written")
	}
}

func TestRPMRender(t *testing.T) {
	t.Parallel()

	fs := memfs.New()
	if err := util.WriteFile(fs, "/proj/scripts/post.sh", []byte("systemctl daemon-reload\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg := testConfig()
	cfg.RPM.Requires = []string{"java-17-openjdk"}
	cfg.RPM.Scripts = map[string]string{"post": "scripts/post.sh"}

	spec, err := newRPMGoal(fs, &fakeRPMBuild{fs: fs}).Render(cfg, Options{Properties: map[string]string{"unrelated": "x"}})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	for _, want := range []string{"Name: billing\n", "Requires: java-17-openjdk\n", "%post\nsystemctl daemon-reload\n"} {
		if !strings.Contains(spec, want) {
			t.Errorf("spec missing %q:\n%s", want, spec)
		}
	}
	if _, statErr := fs.Stat("/proj/target"); statErr == nil {
		t.Error("Render() should not write anything")
	}
}

func TestRPMParams(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.RPM.Debug = false
	cfg.RPM.Scripts = map[string]string{"preun": "stop.sh"}

	p := RPMParams(cfg, Options{Debug: true, Properties: map[string]string{"post": "/x/post.sh"}})
	if p.ComponentName != "billing" || p.Version != "1.0" {
		t.Errorf("params = %+v", p)
	}
	if !p.Debug {
		t.Error("--debug should enable Debug")
	}
	if p.Scripts[rpm.SectionPreun] != "stop.sh" || p.Properties["post"] != "/x/post.sh" {
		t.Errorf("scripts = %v properties = %v", p.Scripts, p.Properties)
	}
}

func TestNewRunner(t *testing.T) {
	t.Parallel()

	r, err := NewRunner(config.ContainerConfig{}, "/out", nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := r.(*rpm.ExecRunner); !ok {
		t.Errorf("NewRunner() = %T, want *rpm.ExecRunner", r)
	}

	r, err = NewRunner(config.ContainerConfig{Engine: config.ContainerEnginePodman, Image: "rpmbuilder"}, "/out", nil)
	if err != nil {
		t.Fatal(err)
	}
	cr, ok := r.(*rpm.ContainerRunner)
	if !ok {
		t.Fatalf("NewRunner() = %T, want *rpm.ContainerRunner", r)
	}
	wrapped := cr.Wrap(rpm.Command{Name: "rpmbuild", Dir: "/out/rpm/SPECS"})
	if got := strings.Join(wrapped.Args, " "); !strings.Contains(got, "-v /out/rpm:/out/rpm") {
		t.Errorf("container args = %q, want the workspace mounted", got)
	}
}

func TestTimestampRun(t *testing.T) {
	t.Parallel()

	fixed := time.Date(2024, time.March, 5, 14, 22, 33, 0, time.Local)
	fs := memfs.New()
	g := NewTimestamp(fs, timestamp.NewGenerator(nil, timestamp.WithClock(func() time.Time { return fixed })))

	got, err := g.Run(testConfig(), "")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if got != timestamp.Format(fixed) {
		t.Errorf("Run() = %q, want %q", got, timestamp.Format(fixed))
	}
	data, err := util.ReadFile(fs, "/proj/target/build.properties")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), fmt.Sprintf("timestamp = %s", got)) {
		t.Errorf("properties file = %q", data)
	}

	if _, err := g.Run(nil, ""); !errors.Is(err, timestamp.ErrNoProject) {
		t.Errorf("Run(nil) error = %v, want ErrNoProject", err)
	}
}
