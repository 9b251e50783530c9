// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// newRootCommand builds the command tree around app.
func newRootCommand(app *App) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "packsmith",
		Short: "Package JVM projects as ZIP archives and RPMs",
		Long: TitleStyle.Render("packsmith") + SubtitleStyle.Render(" - package JVM projects as ZIP archives and RPMs") + `

packsmith stages a project's classes, dependency artifacts and extra files
into a directory tree, then compresses it or drives rpmbuild over it.
The project is described in a CUE descriptor, packsmith.cue by default.

` + SubtitleStyle.Render("Examples:") + `
  packsmith config init       Create a starter packsmith.cue
  packsmith zip               Build <final_name>.zip
  packsmith rpm --dry-run     Preview the generated spec file
  packsmith rpm -D post=scripts/post.sh
  packsmith timestamp         Stamp the build time into the properties file`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if app.verbose {
				app.Logger.SetLevel(log.DebugLevel)
			}
			return nil
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&app.verbose, "verbose", "v", false, "enable debug output")
	rootCmd.PersistentFlags().StringVar(&app.configPath, "config", "", "project descriptor (default is ./packsmith.cue)")

	rootCmd.AddCommand(
		newZipCommand(app),
		newRPMCommand(app),
		newTimestampCommand(app),
		newConfigCommand(app),
		newCompletionCommand(app),
	)
	return rootCmd
}

// Execute runs the CLI. This is called by main.main().
func Execute() {
	app := NewApp(Dependencies{})
	if err := fang.Execute(
		context.Background(),
		newRootCommand(app),
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(1)
	}
}
