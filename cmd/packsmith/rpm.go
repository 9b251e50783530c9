// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"packsmith-cli/internal/goal"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
)

// ErrInvalidProperty is returned for a -D value without '='.
var ErrInvalidProperty = errors.New("invalid property, expected key=value")

func newRPMCommand(app *App) *cobra.Command {
	var (
		defines    []string
		debug      bool
		dryRun     bool
		classifier string
		resultFile string
	)

	cmd := &cobra.Command{
		Use:   "rpm",
		Short: "Build an RPM from the staging tree",
		Long: `Assemble the staging tree, render a spec file and run rpmbuild.

Jar, war and ear dependencies are bundled. Section scripts default to
built-in bodies and can be overridden in the descriptor (rpm.scripts) or
with -D <section>=<file>, which takes precedence. Sections: pre, install,
post, preun, postun, verifyscript, clean, files.`,
		Example: `  packsmith rpm
  packsmith rpm -D post=scripts/post.sh -D preun=scripts/preun.sh
  packsmith rpm --dry-run
  packsmith rpm --debug`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			props, err := parseProperties(defines)
			if err != nil {
				return app.fail("parse properties", err)
			}
			cfg, err := app.loadConfig(cmd.Context())
			if err != nil {
				return app.fail("load descriptor", err)
			}
			rpmGoal, err := app.rpmGoal(cfg)
			if err != nil {
				return app.fail("set up rpmbuild", err)
			}
			opts := goal.Options{Classifier: classifier, Properties: props, Debug: debug}

			if dryRun {
				spec, err := rpmGoal.Render(cfg, opts)
				if err != nil {
					return app.fail("render spec file", err)
				}
				return renderSpec(app.stdout, spec, app.MarkdownStyle)
			}

			res, err := rpmGoal.Run(cmd.Context(), cfg, opts)
			if err != nil {
				return app.fail("build rpm", err)
			}
			if err := app.writeResult(res, resultFile); err != nil {
				return app.fail("write build result", err)
			}
			return nil
		},
	}

	cmd.Flags().StringArrayVarP(&defines, "define", "D", nil, "set a property (key=value), repeatable")
	cmd.Flags().BoolVar(&debug, "debug", false, "keep the staging tree and rpmbuild workspace")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the spec file instead of building")
	cmd.Flags().StringVar(&classifier, "classifier", "", "attach the package under this classifier")
	cmd.Flags().StringVar(&resultFile, "result-file", "", "write the build result as TOML to this file")
	return cmd
}

// parseProperties turns key=value pairs into a map. Later pairs win.
func parseProperties(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	props := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("%w: %q", ErrInvalidProperty, pair)
		}
		props[key] = value
	}
	return props, nil
}

// renderSpec prints the spec file as a fenced Markdown block through glamour.
func renderSpec(w io.Writer, spec, style string) error {
	r, err := glamour.NewTermRenderer(glamour.WithStandardStyle(style), glamour.WithWordWrap(0))
	if err != nil {
		return fmt.Errorf("create renderer: %w", err)
	}
	out, err := r.Render("```\n" + spec + "```\n")
	if err != nil {
		return fmt.Errorf("render spec file: %w", err)
	}
	_, err = io.WriteString(w, out)
	return err
}
