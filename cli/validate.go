package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/gridspec/gridspec/engine/core"
	"github.com/gridspec/gridspec/engine/grid"
	"github.com/gridspec/gridspec/engine/schema"
	"github.com/gridspec/gridspec/pkg/logger"
)

// ValidateCmd returns the validate command.
func ValidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <config-file>",
		Short: "Validate a configuration file against a schema",
		Long: `Validate loads a YAML configuration, resolves it against the named
schema with composition and defaults applied, and reports every violation
found in one pass. The exit code is non-zero when the configuration is
invalid.`,
		Args: cobra.ExactArgs(1),
		RunE: runValidate,
	}
	cmd.Flags().String("schema", schema.SchemaTokenization, "Schema to validate against")
	return cmd
}

// validationReport is the serializable outcome of a validate run. Config is
// the resolved document with defaults applied, not the raw input.
type validationReport struct {
	Valid      bool            `json:"valid"                yaml:"valid"`
	Schema     string          `json:"schema"               yaml:"schema"`
	File       string          `json:"file"                 yaml:"file"`
	Config     core.Document   `json:"config"               yaml:"config"`
	Violations core.Violations `json:"violations,omitempty" yaml:"violations,omitempty"`
}

func runValidate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	log := logger.FromContext(ctx)

	schemaName, err := cmd.Flags().GetString("schema")
	if err != nil {
		return fmt.Errorf("failed to get schema flag: %w", err)
	}
	doc, err := core.LoadDocument(args[0])
	if err != nil {
		return err
	}
	result, err := grid.Default().Run(doc, schemaName)
	if err != nil {
		return err
	}
	log.Debug("validation finished",
		"file", args[0],
		"schema", schemaName,
		"violations", len(result.Violations))

	format, err := resolveFormat(ctx)
	if err != nil {
		return err
	}
	report := validationReport{
		Valid:      result.Valid(),
		Schema:     schemaName,
		File:       args[0],
		Config:     result.Config,
		Violations: result.Violations,
	}
	if err := renderValidation(cmd.OutOrStdout(), format, &report); err != nil {
		return err
	}
	if !report.Valid {
		return fmt.Errorf("%s: %d violation(s) against %s", args[0], len(result.Violations), schemaName)
	}
	return nil
}

func renderValidation(w io.Writer, format Format, report *validationReport) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, report)
	case FormatYAML:
		return writeYAML(w, report)
	default:
		if report.Valid {
			fmt.Fprintf(w, "✅ %s is valid against %s\n", report.File, report.Schema)
			return writeKeyValueTable(w, report.Config.AsMap())
		}
		fmt.Fprintf(w, "❌ %s: %d violation(s) against %s\n", report.File, len(report.Violations), report.Schema)
		return writeViolationsTable(w, report.Violations)
	}
}
