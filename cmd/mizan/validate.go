package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// validateCmd parses and validates a schema document.
var validateCmd = &cobra.Command{
	Use:   "validate [schema-file]",
	Short: "Validate a schema document",
	Long: `Validate parses a schema document, checks every name and
cross-reference, and reports the section inventory.

With --strict, every run group is additionally resolved against its
environment, so templated metric references must bind to real metrics.

Examples:

	mizan validate
	mizan validate leaderboard.yaml
	mizan validate --strict`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetup,
	Run: func(_ *cobra.Command, _ []string) {
		schema, err := loadSchema(rootCtx)
		if err != nil {
			logFatal("Cannot validate schema", err)
		}

		fmt.Printf("%s: valid (%d metrics, %d perturbations, %d metric groups, %d run groups)\n",
			schemaSource(), len(schema.Metrics()), len(schema.Perturbations()),
			len(schema.MetricGroups()), len(schema.RunGroups()))

		if cfg.Strict {
			groups := schema.RunGroups()
			for _, group := range groups {
				if _, err := schema.ResolveRunGroup(group.Name); err != nil {
					logFatal(fmt.Sprintf("Cannot resolve run group %q", group.Name), err)
				}
			}
			fmt.Printf("all %d run groups resolve\n", len(groups))
		}
	},
}
