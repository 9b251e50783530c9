// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"packsmith-cli/internal/timestamp"

	"github.com/spf13/cobra"
)

func newTimestampCommand(app *App) *cobra.Command {
	var properties string

	cmd := &cobra.Command{
		Use:   "timestamp",
		Short: "Stamp the current time into the build properties",
		Long: fmt.Sprintf(`Set the %q property to the current local time, formatted like
2024-Mar-05T142233+0100, in the project's properties file
(project.properties_file, or --properties). The file is created if missing.`, timestamp.Property),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.loadConfig(cmd.Context())
			if err != nil {
				return app.fail("load descriptor", err)
			}
			path, err := app.abs(properties)
			if err != nil {
				return app.fail("set timestamp", err)
			}
			value, err := app.timestampGoal().Run(cfg, path)
			if err != nil {
				return app.fail("set timestamp", err)
			}
			fmt.Fprintln(app.stdout, value)
			return nil
		},
	}

	cmd.Flags().StringVar(&properties, "properties", "", "properties file to update")
	return cmd
}
