package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gridspec/gridspec/engine/plan"
	"github.com/gridspec/gridspec/engine/schema"
	"github.com/gridspec/gridspec/pkg/logger"
)

// SchemasCmd returns the schemas command group.
func SchemasCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schemas",
		Short: "Inspect and export the registered schema family",
		Long: `Schemas lists the registered experiment schemas, shows one resolved
(merged) schema, and exports the whole family as verified draft-07 JSON
Schema documents for external tooling.`,
	}
	cmd.AddCommand(
		SchemasListCmd(),
		SchemasShowCmd(),
		SchemasExportCmd(),
	)
	return cmd
}

// -----------------------------------------------------------------------------
// schemas list
// -----------------------------------------------------------------------------

// SchemasListCmd returns the schemas list subcommand.
func SchemasListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List registered schema names",
		Args:  cobra.NoArgs,
		RunE:  runSchemasList,
	}
}

// schemaSummary is one registered schema's shape after resolution.
type schemaSummary struct {
	Name     string `json:"name"     yaml:"name"`
	Fields   int    `json:"fields"   yaml:"fields"`
	Required int    `json:"required" yaml:"required"`
}

func runSchemasList(cmd *cobra.Command, _ []string) error {
	registry := schema.Builtin()
	summaries := make([]schemaSummary, 0, len(registry.Names()))
	for _, name := range registry.Names() {
		ms, err := registry.Resolve(name)
		if err != nil {
			return err
		}
		summaries = append(summaries, schemaSummary{
			Name:     name,
			Fields:   len(ms.Fields),
			Required: len(ms.Required),
		})
	}
	format, err := resolveFormat(cmd.Context())
	if err != nil {
		return err
	}
	switch format {
	case FormatJSON:
		return writeJSON(cmd.OutOrStdout(), summaries)
	case FormatYAML:
		return writeYAML(cmd.OutOrStdout(), summaries)
	default:
		tw := newTable(cmd.OutOrStdout())
		fmt.Fprintln(tw, "NAME\tFIELDS\tREQUIRED")
		fmt.Fprintln(tw, "----\t------\t--------")
		for _, s := range summaries {
			fmt.Fprintf(tw, "%s\t%d\t%d\n", s.Name, s.Fields, s.Required)
		}
		return tw.Flush()
	}
}

// -----------------------------------------------------------------------------
// schemas show
// -----------------------------------------------------------------------------

// SchemasShowCmd returns the schemas show subcommand.
func SchemasShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <name>",
		Short: "Show one merged schema with its composition chain resolved",
		Args:  cobra.ExactArgs(1),
		RunE:  runSchemasShow,
	}
}

func runSchemasShow(cmd *cobra.Command, args []string) error {
	registry := schema.Builtin()
	ms, err := registry.Resolve(args[0])
	if err != nil {
		return err
	}
	format, err := resolveFormat(cmd.Context())
	if err != nil {
		return err
	}
	switch format {
	case FormatJSON, FormatYAML:
		// Machine formats carry the JSON Schema rendering so the output can
		// feed validators directly.
		export, err := registry.Export(args[0])
		if err != nil {
			return err
		}
		if format == FormatJSON {
			return writeJSON(cmd.OutOrStdout(), export)
		}
		return writeYAML(cmd.OutOrStdout(), export)
	default:
		return writeSchemaTable(cmd.OutOrStdout(), ms)
	}
}

// writeSchemaTable renders a merged schema one field per row, in declaration
// order so the table mirrors violation and axis ordering.
func writeSchemaTable(w io.Writer, ms *schema.MergedSchema) error {
	fmt.Fprintf(w, "schema %s: %d field(s), %d required\n", ms.Name, len(ms.Fields), len(ms.Required))
	tw := newTable(w)
	fmt.Fprintln(tw, "PATH\tTYPE\tREQUIRED\tCONSTRAINT\tDEFAULT")
	fmt.Fprintln(tw, "----\t----\t--------\t----------\t-------")
	for _, field := range ms.Fields {
		c := field.Constraint
		required := "-"
		if ms.IsRequired(field.Path) {
			required = "yes"
		}
		constraint := describeConstraint(c)
		defaultValue := "-"
		if c.Default != nil {
			defaultValue = fmt.Sprintf("%v", c.Default)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", field.Path, c.Type, required, constraint, defaultValue)
	}
	return tw.Flush()
}

func describeConstraint(c schema.Constraint) string {
	switch {
	case len(c.Enum) > 0:
		parts := make([]string, len(c.Enum))
		for i, v := range c.Enum {
			parts[i] = fmt.Sprintf("%v", v)
		}
		return "enum: " + strings.Join(parts, ", ")
	case c.Min != nil && c.Max != nil:
		return fmt.Sprintf("[%v, %v]", *c.Min, *c.Max)
	case c.Min != nil:
		return fmt.Sprintf(">= %v", *c.Min)
	case c.Max != nil:
		return fmt.Sprintf("<= %v", *c.Max)
	default:
		return "-"
	}
}

// -----------------------------------------------------------------------------
// schemas export
// -----------------------------------------------------------------------------

// SchemasExportCmd returns the schemas export subcommand.
func SchemasExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export all schemas as verified JSON Schema files",
		Long: `Export writes every registered experiment schema plus the execution plan
schema (reflected from the plan types) into a directory as draft-07 JSON
Schema documents. Each document is compiled before writing, so an exported
file is guaranteed to load in a standards-compliant validator.`,
		Args: cobra.NoArgs,
		RunE: runSchemasExport,
	}
	cmd.Flags().String("dir", "schemas", "Directory to write schema files into")
	return cmd
}

func runSchemasExport(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	log := logger.FromContext(ctx)

	dir, err := cmd.Flags().GetString("dir")
	if err != nil {
		return fmt.Errorf("failed to get dir flag: %w", err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	registry := schema.Builtin()
	var written []string
	for _, name := range registry.Names() {
		if _, err := registry.Compile(name); err != nil {
			return fmt.Errorf("schema %q does not compile: %w", name, err)
		}
		export, err := registry.Export(name)
		if err != nil {
			return err
		}
		data, err := json.MarshalIndent(export, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal schema %q: %w", name, err)
		}
		path := filepath.Join(dir, name+".json")
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
		log.Info("exported schema", "file", path)
		written = append(written, path)
	}

	planSchema, err := plan.JSONSchema()
	if err != nil {
		return err
	}
	planPath := filepath.Join(dir, "execution_plan.json")
	if err := os.WriteFile(planPath, planSchema, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", planPath, err)
	}
	log.Info("exported schema", "file", planPath)
	written = append(written, planPath)

	fmt.Fprintf(cmd.OutOrStdout(), "exported %d schema file(s) to %s\n", len(written), dir)
	return nil
}
