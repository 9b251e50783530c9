// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"time"

	"packsmith-cli/internal/archive"
	"packsmith-cli/internal/config"
	"packsmith-cli/internal/goal"
	"packsmith-cli/internal/project"
	"packsmith-cli/internal/rpm"
	"packsmith-cli/internal/staging"
	"packsmith-cli/internal/timestamp"

	"github.com/charmbracelet/log"
	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
)

type (
	// ConfigProvider loads the project descriptor.
	ConfigProvider interface {
		Load(ctx context.Context, opts config.LoadOptions) (*config.Config, error)
	}

	// App wires CLI services and shared dependencies. Every command handler
	// receives an App and builds its goal from it.
	App struct {
		Config        ConfigProvider
		FS            billy.Filesystem
		Logger        *log.Logger
		Runner        rpm.Runner
		Clock         func() time.Time
		MarkdownStyle string
		Dir           string
		stdout        io.Writer
		stderr        io.Writer

		configPath string
		verbose    bool
	}

	// Dependencies defines the injection points for building an App. Nil fields
	// are replaced with production defaults by NewApp.
	Dependencies struct {
		Config ConfigProvider
		// FS must accept absolute paths. Defaults to the host filesystem.
		FS billy.Filesystem
		// Runner executes rpmbuild. Defaults to the host or the descriptor's container.
		Runner rpm.Runner
		Clock  func() time.Time
		// MarkdownStyle is the glamour style for help and previews. Defaults to "auto".
		MarkdownStyle string
		// Dir is the working directory. Defaults to the process working directory.
		Dir    string
		Stdout io.Writer
		Stderr io.Writer
	}
)

// NewApp creates an App, filling unset dependencies with production defaults.
func NewApp(deps Dependencies) *App {
	app := &App{
		Config:        deps.Config,
		FS:            deps.FS,
		Runner:        deps.Runner,
		Clock:         deps.Clock,
		MarkdownStyle: deps.MarkdownStyle,
		Dir:           deps.Dir,
		stdout:        deps.Stdout,
		stderr:        deps.Stderr,
	}
	if app.Config == nil {
		app.Config = config.NewProvider()
	}
	if app.FS == nil {
		app.FS = osfs.New("/")
	}
	if app.Clock == nil {
		app.Clock = time.Now
	}
	if app.MarkdownStyle == "" {
		app.MarkdownStyle = "auto"
	}
	if app.stdout == nil {
		app.stdout = os.Stdout
	}
	if app.stderr == nil {
		app.stderr = os.Stderr
	}
	app.Logger = log.NewWithOptions(app.stderr, log.Options{Prefix: config.AppName})
	return app
}

// loadConfig reads the descriptor and applies its log level, unless --verbose
// already raised it.
func (a *App) loadConfig(ctx context.Context) (*config.Config, error) {
	cfg, err := a.Config.Load(ctx, config.LoadOptions{ConfigFilePath: a.configPath, Dir: a.Dir})
	if err != nil {
		return nil, err
	}
	if !a.verbose {
		if level, parseErr := log.ParseLevel(string(cfg.Log.Level)); parseErr == nil {
			a.Logger.SetLevel(level)
		}
	}
	return cfg, nil
}

// logger returns a component sub-logger.
func (a *App) logger(component string) *log.Logger {
	return a.Logger.WithPrefix(component)
}

func (a *App) zipGoal() *goal.Zip {
	return goal.NewZip(
		staging.NewAssembler(a.FS, a.logger("staging")),
		archive.NewWriter(a.FS),
		a.logger("zip"),
	)
}

func (a *App) rpmGoal(cfg *config.Config) (*goal.RPM, error) {
	runner := a.Runner
	if runner == nil {
		var err error
		runner, err = goal.NewRunner(cfg.RPM.Container, cfg.Project.OutputDir, a.logger("rpmbuild"))
		if err != nil {
			return nil, err
		}
	}
	builder := rpm.NewBuilder(a.FS, archive.NewWriter(a.FS), runner, a.logger("rpm"))
	return goal.NewRPM(staging.NewAssembler(a.FS, a.logger("staging")), builder, a.logger("rpm")), nil
}

func (a *App) timestampGoal() *goal.Timestamp {
	return goal.NewTimestamp(a.FS, timestamp.NewGenerator(a.logger("timestamp"), timestamp.WithClock(a.Clock)))
}

// abs resolves path against the working directory.
func (a *App) abs(path string) (string, error) {
	if path == "" || filepath.IsAbs(path) {
		return path, nil
	}
	if a.Dir != "" {
		return filepath.Join(a.Dir, path), nil
	}
	return filepath.Abs(path)
}

// writeResult writes the build result manifest when --result-file is set and
// reports the produced files.
func (a *App) writeResult(res *project.Result, resultFile string) error {
	for _, f := range res.Files() {
		_, _ = io.WriteString(a.stdout, SuccessStyle.Render("✓")+" built "+CmdStyle.Render(f)+"\n")
	}
	if resultFile == "" {
		return nil
	}
	path, err := a.abs(resultFile)
	if err != nil {
		return err
	}
	return res.WriteManifest(a.FS, path)
}

// fail classifies err, prints its help section and returns the error to hand
// back to cobra.
func (a *App) fail(operation string, err error) error {
	svcErr := classifyError(operation, err)
	renderServiceError(a.stderr, svcErr, a.MarkdownStyle, a.verbose)
	return &ExitError{Code: exitCode(err), Err: svcErr}
}
