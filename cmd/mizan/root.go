// Package main defines the command-line interface for mizan.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mizan-eval/mizan/infrastructure/inspect"
	"github.com/mizan-eval/mizan/internal/application"
	"github.com/mizan-eval/mizan/internal/domain"
	"github.com/mizan-eval/mizan/schemas"
)

// All linker flags will be set by goreleaser infra at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// rootCtx is the root context for all operations.
var rootCtx = context.Background()

// cliConfig holds the resolved configuration from flags, environment, and
// config file.
type cliConfig struct {
	Schema   string `mapstructure:"schema"`
	Embedded string `mapstructure:"embedded"`
	Output   string `mapstructure:"output"`
	Color    string `mapstructure:"color"`
	Width    int    `mapstructure:"width"`
	Verbose  bool   `mapstructure:"verbose"`
	Section  string `mapstructure:"section"`
	Tree     bool   `mapstructure:"tree"`
	RunGroup string `mapstructure:"run-group"`
	Strict   bool   `mapstructure:"strict"`
}

// cfg holds the validated, final configuration.
var cfg = &cliConfig{}

// logger emits diagnostics to stderr, at debug level when --verbose is set.
var logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

// rootCmd is the command-line entrypoint for all other commands.
var rootCmd = &cobra.Command{
	Use:                "mizan",
	Short:              "Validate and inspect benchmark presentation schemas.",
	Long:               `Mizan loads leaderboard presentation schemas, validates their cross-references, and renders their inventories.`,
	Version:            version,
	SilenceErrors:      true,
	SilenceUsage:       true,
	DisableSuggestions: true,
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

func init() {
	// Call initConfig on Cobra's initialization.
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command.
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(resolveCmd)
	rootCmd.AddCommand(versionCmd)

	// Bind all persistent flags of rootCmd to Viper.
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	rootCmd.PersistentFlags().StringP("schema", "s", "", "Path to a schema file (default: the embedded document)")
	rootCmd.PersistentFlags().String("embedded", schemas.ArabicFile, "Name of the embedded schema document to use")
	rootCmd.PersistentFlags().StringP("output", "o", string(inspect.FormatTable), "Output format: table or json")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug diagnostics on stderr")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		logFatal("Error binding root flags", err)
	}

	// Bind all flags of validateCmd to Viper.
	validateCmd.Flags().Bool("strict", false, "Also resolve every run group against its environment")
	if err := viper.BindPFlags(validateCmd.Flags()); err != nil {
		logFatal("Error binding validate flags", err)
	}

	// Bind all flags of inspectCmd to Viper.
	inspectCmd.Flags().String("section", "", "Section to show: metrics, perturbations, metric_groups, or run_groups (default: all)")
	inspectCmd.Flags().Bool("tree", false, "Render the run-group hierarchy instead of tables")
	if err := viper.BindPFlags(inspectCmd.Flags()); err != nil {
		logFatal("Error binding inspect flags", err)
	}

	// Bind all flags of resolveCmd to Viper.
	resolveCmd.Flags().StringP("run-group", "r", "", "Run group whose environment drives resolution")
	if err := viper.BindPFlags(resolveCmd.Flags()); err != nil {
		logFatal("Error binding resolve flags", err)
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	// Check if a specific config file is provided.
	if configFile := viper.GetString("config"); configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.SetConfigName(".mizan") // Name of config file (without extension).
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")     // Look in the current directory.
		viper.AddConfigPath("$HOME") // Look in the home directory.
	}

	// Set environment variable prefix.
	viper.SetEnvPrefix("MIZAN")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // Read in environment variables that match.
}

// sharedSetup merges defaults, config file, environment, and flags into
// cfg, then validates the simple fields every command relies on.
func sharedSetup(_ *cobra.Command, args []string) error {
	// 1. Read config file. Absence is fine; defaults, env, and flags cover it.
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	// 2. Unmarshal all resolved values from Viper.
	if err := viper.Unmarshal(cfg); err != nil {
		return fmt.Errorf("unable to unmarshal config: %w", err)
	}

	// 3. Handle the positional schema file argument, which Viper does not.
	if len(args) == 1 {
		cfg.Schema = args[0]
	}

	// 4. Validate the simple fields.
	switch inspect.Format(cfg.Output) {
	case inspect.FormatTable, inspect.FormatJSON:
	default:
		return fmt.Errorf("unknown output format %q (valid formats: table, json)", cfg.Output)
	}

	// 5. Raise diagnostics to debug level when requested.
	if cfg.Verbose {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	return nil
}

// loadSchema loads the configured schema document: an explicit file when
// one is set, the embedded document otherwise.
func loadSchema(ctx context.Context) (*domain.Schema, error) {
	loader, err := application.NewSchemaLoader(nil)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	var schema *domain.Schema
	if cfg.Schema != "" {
		schema, err = loader.LoadFromFile(ctx, cfg.Schema)
	} else {
		var data []byte
		if data, err = schemas.Read(cfg.Embedded); err != nil {
			return nil, err
		}
		schema, err = loader.Load(ctx, data)
	}
	if err != nil {
		return nil, err
	}

	logger.Debug("schema loaded",
		"source", schemaSource(),
		"duration", time.Since(start),
		"metrics", len(schema.Metrics()),
		"run_groups", len(schema.RunGroups()))
	return schema, nil
}

// inspectOptions converts the CLI configuration into rendering options.
func inspectOptions() *inspect.Options {
	return &inspect.Options{
		Format:    inspect.Format(cfg.Output),
		UseColors: parseColorFlag(cfg.Color),
		Width:     cfg.Width,
	}
}

// parseColorFlag interprets the color flag's accepted spellings.
func parseColorFlag(value string) bool {
	switch strings.ToLower(value) {
	case "yes", "true", "1":
		return true
	default:
		return false
	}
}

// schemaSource names the schema being operated on, for status lines.
func schemaSource() string {
	if cfg.Schema != "" {
		return cfg.Schema
	}
	return "embedded " + cfg.Embedded
}

// logFatal logs an error and exits the program.
func logFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
