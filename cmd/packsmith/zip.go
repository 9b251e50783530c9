// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"packsmith-cli/internal/goal"

	"github.com/spf13/cobra"
)

func newZipCommand(app *App) *cobra.Command {
	var (
		classifier string
		resultFile string
	)

	cmd := &cobra.Command{
		Use:   "zip",
		Short: "Package the staging tree as a ZIP archive",
		Long: `Assemble the staging tree and compress it into
<output_dir>/<final_name>[-<classifier>].zip.

Only jar dependencies are bundled. Test-scoped dependencies never are.
Without a classifier the archive becomes the project's primary artifact,
with one it is attached alongside.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.loadConfig(cmd.Context())
			if err != nil {
				return app.fail("load descriptor", err)
			}
			res, err := app.zipGoal().Run(cmd.Context(), cfg, goal.Options{Classifier: classifier})
			if err != nil {
				return app.fail("build zip", err)
			}
			if err := app.writeResult(res, resultFile); err != nil {
				return app.fail("write build result", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&classifier, "classifier", "", "attach the archive under this classifier")
	cmd.Flags().StringVar(&resultFile, "result-file", "", "write the build result as TOML to this file")
	return cmd
}
