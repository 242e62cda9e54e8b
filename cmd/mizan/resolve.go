package main

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/mizan-eval/mizan/infrastructure/inspect"
)

// resolveCmd resolves a run group's metric groups against its environment.
var resolveCmd = &cobra.Command{
	Use:   "resolve [schema-file]",
	Short: "Resolve a run group's metric references",
	Long: `Resolve substitutes a run group's environment into the templated
metric references of its metric groups and prints the concrete metric,
split, and perturbation each entry binds to.

Examples:

	mizan resolve -r mmmlu
	mizan resolve leaderboard.yaml --run-group aratrust -o json`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetup,
	Run: func(_ *cobra.Command, _ []string) {
		if cfg.RunGroup == "" {
			logFatal("Cannot resolve", errors.New("no run group given (use --run-group)"))
		}

		schema, err := loadSchema(rootCtx)
		if err != nil {
			logFatal("Cannot load schema", err)
		}

		if err := inspect.WriteResolvedRunGroup(os.Stdout, schema, cfg.RunGroup, inspectOptions()); err != nil {
			logFatal("Cannot resolve run group", err)
		}
	},
}
