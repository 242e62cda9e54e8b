package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/mizan-eval/mizan/infrastructure/inspect"
)

// inspectCmd renders a schema's sections as tables, JSON, or a tree.
var inspectCmd = &cobra.Command{
	Use:   "inspect [schema-file]",
	Short: "Show the entries a schema document defines",
	Long: `Inspect renders the sections of a schema document. By default all
four sections are shown as tables; --section narrows the output to one of
metrics, perturbations, metric_groups, or run_groups, and --tree renders
the run-group hierarchy instead.

Examples:

	mizan inspect
	mizan inspect --section metrics
	mizan inspect --tree
	mizan inspect leaderboard.yaml -o json`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetup,
	Run: func(_ *cobra.Command, _ []string) {
		schema, err := loadSchema(rootCtx)
		if err != nil {
			logFatal("Cannot load schema", err)
		}

		opts := inspectOptions()
		if cfg.Tree {
			if err := inspect.WriteRunGroupTree(os.Stdout, schema, opts); err != nil {
				logFatal("Cannot render run-group tree", err)
			}
			return
		}
		if err := inspect.WriteSection(os.Stdout, schema, cfg.Section, opts); err != nil {
			logFatal("Cannot render schema sections", err)
		}
	},
}
