package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gridspec/gridspec/pkg/config"
	"github.com/gridspec/gridspec/pkg/logger"
)

// RootCmd assembles the gridspec command tree.
func RootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "gridspec",
		Short: "Resolve, expand, and dispatch experiment configurations",
		Long: `gridspec resolves experiment configurations against composed schemas,
expands sweep specifications into concrete configuration grids, and
dispatches validated configurations into distributed execution plans.`,
		SilenceUsage:      true,
		PersistentPreRunE: setupCommandContext,
	}

	root.PersistentFlags().String("log-level", "", "Log level (debug, info, warn, error, disabled)")
	root.PersistentFlags().Bool("log-json", false, "Output logs in JSON format")
	root.PersistentFlags().Bool("log-source", false, "Include source file and line in logs")
	root.PersistentFlags().String("env-file", "", "Path to an environment variables file")
	root.PersistentFlags().StringP("format", "f", "", "Output format (auto, table, json, yaml)")

	root.AddCommand(
		ValidateCmd(),
		ExpandCmd(),
		PlanCmd(),
		SchemasCmd(),
		VersionCmd(),
	)

	return root
}

// setupCommandContext prepares the shared context before any subcommand runs:
// env file first so the configuration loader sees its variables, then the
// merged configuration, then a logger built from it.
func setupCommandContext(cmd *cobra.Command, _ []string) error {
	if _, err := loadEnvFile(cmd); err != nil {
		return err
	}
	overrides, err := collectOverrides(cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	cfg, err := config.NewLoader().Load(ctx, overrides...)
	if err != nil {
		return err
	}
	log := logger.SetupLogger(cfg.Log.Level, cfg.Log.JSON, cfg.Log.Source)
	ctx = logger.ContextWithLogger(ctx, log)
	ctx = config.ContextWithConfig(ctx, cfg)
	cmd.SetContext(ctx)
	return nil
}

// collectOverrides turns explicitly set flags into configuration overrides.
// Only changed flags are collected so environment variables keep their place
// below flags and above defaults.
func collectOverrides(cmd *cobra.Command) ([]config.Override, error) {
	var overrides []config.Override
	addFlag := func(flagName, key string, getter func(string) (any, error)) error {
		if !cmd.Flags().Changed(flagName) {
			return nil
		}
		value, err := getter(flagName)
		if err != nil {
			return fmt.Errorf("failed to get %s flag: %w", flagName, err)
		}
		overrides = append(overrides, config.Override{Key: key, Value: value})
		return nil
	}

	getString := func(name string) (any, error) { return cmd.Flags().GetString(name) }
	getInt := func(name string) (any, error) { return cmd.Flags().GetInt(name) }
	getBool := func(name string) (any, error) { return cmd.Flags().GetBool(name) }

	flagDefs := []struct {
		flagName string
		key      string
		getter   func(string) (any, error)
	}{
		{"log-level", "log.level", getString},
		{"log-json", "log.json", getBool},
		{"log-source", "log.source", getBool},
		{"format", "output.format", getString},

		// Expand flags; Changed is false on commands that never define them.
		{"limit", "expand.limit", getInt},
		{"fail-fast", "expand.fail_fast", getBool},
		{"output-dir", "expand.output_dir", getString},
	}

	for _, def := range flagDefs {
		if err := addFlag(def.flagName, def.key, def.getter); err != nil {
			return nil, err
		}
	}
	return overrides, nil
}
