// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"
	"path/filepath"
	"strconv"

	"packsmith-cli/internal/config"

	"github.com/spf13/cobra"
)

// newConfigCommand creates the `packsmith config` command tree.
func newConfigCommand(app *App) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and create the project descriptor",
		Long: `Inspect and create the project descriptor.

The descriptor is read from --config, else ./packsmith.cue. Any scalar
field can be overridden from the environment: rpm.debug becomes
PACKSMITH_RPM_DEBUG.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the effective project settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.loadConfig(cmd.Context())
			if err != nil {
				return app.fail("load descriptor", err)
			}
			showConfig(app.stdout, cfg)
			return nil
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create a starter descriptor",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := app.configPath
			if path == "" {
				path = config.DescriptorFileName
			}
			path, err := app.abs(path)
			if err != nil {
				return app.fail("create descriptor", err)
			}
			if err := config.CreateDefault(path); err != nil {
				return app.fail("create descriptor", err)
			}
			fmt.Fprintln(app.stdout, SuccessStyle.Render("✓")+" created "+CmdStyle.Render(path))
			return nil
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "dump",
		Short: "Output the effective descriptor as CUE",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.loadConfig(cmd.Context())
			if err != nil {
				return app.fail("load descriptor", err)
			}
			fmt.Fprint(app.stdout, config.GenerateCUE(cfg))
			return nil
		},
	})

	return cfgCmd
}

func showConfig(w io.Writer, cfg *config.Config) {
	source := cfg.Source
	if source == "" {
		source = "(none, using defaults)"
	}

	fmt.Fprintln(w, TitleStyle.Render("Project descriptor"))
	fmt.Fprintln(w)
	row := func(label, value string) {
		fmt.Fprintln(w, labelStyle.Render(label)+value)
	}
	row("Source", source)
	row("Project", cfg.Project.GroupID+":"+cfg.Project.ArtifactID+":"+cfg.Project.Version)
	row("Final name", cfg.Project.FinalName)
	row("Base dir", cfg.Project.BaseDir)
	row("Output dir", cfg.Project.OutputDir)
	row("Dependencies", strconv.Itoa(len(cfg.Project.Dependencies)))
	row("Component", cfg.RPM.ComponentName)
	row("Properties", cfg.Project.PropertiesFile)
	if cfg.RPM.Container.Engine != "" {
		row("Container", string(cfg.RPM.Container.Engine)+" "+cfg.RPM.Container.Image)
	}
	row("Log level", string(cfg.Log.Level))
	if cfg.Source != "" {
		fmt.Fprintln(w)
		fmt.Fprintln(w, SubtitleStyle.Render("Paths are relative to "+filepath.Dir(cfg.Source)))
	}
}
