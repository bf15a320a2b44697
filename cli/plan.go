package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/gridspec/gridspec/engine/core"
	"github.com/gridspec/gridspec/engine/grid"
	"github.com/gridspec/gridspec/engine/plan"
	"github.com/gridspec/gridspec/engine/schema"
	"github.com/gridspec/gridspec/pkg/logger"
)

// PlanCmd returns the plan command.
func PlanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan <config-file>",
		Short: "Dispatch a validated configuration into an execution plan",
		Long: `Plan validates a configuration and dispatches it into a normalized
execution plan for the selected parallelization strategy. Dispatch never
runs on an invalid configuration, so an emitted plan always satisfies its
own contract.`,
		Args: cobra.ExactArgs(1),
		RunE: runPlan,
	}
	cmd.Flags().String("schema", schema.SchemaCausalPretraining, "Schema to validate against before dispatch")
	return cmd
}

func runPlan(cmd *cobra.Command, args []string) error {
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
	format, err := resolveFormat(ctx)
	if err != nil {
		return err
	}
	if !result.Valid() {
		report := validationReport{
			Schema:     schemaName,
			File:       args[0],
			Config:     result.Config,
			Violations: result.Violations,
		}
		if err := renderValidation(cmd.OutOrStdout(), format, &report); err != nil {
			return err
		}
		return fmt.Errorf("cannot plan %s: %d violation(s) against %s", args[0], len(result.Violations), schemaName)
	}
	execPlan, err := plan.Dispatch(result.Config)
	if err != nil {
		return err
	}
	log.Debug("plan dispatched", "file", args[0], "strategy", execPlan.Strategy)
	return renderPlan(cmd.OutOrStdout(), format, execPlan)
}

func renderPlan(w io.Writer, format Format, execPlan *plan.ExecutionPlan) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, execPlan)
	case FormatYAML:
		return writeYAML(w, execPlan)
	default:
		// JSON round-trip flattens through the same field names external
		// consumers see.
		data, err := json.Marshal(execPlan)
		if err != nil {
			return fmt.Errorf("failed to encode execution plan: %w", err)
		}
		var flat map[string]any
		if err := json.Unmarshal(data, &flat); err != nil {
			return fmt.Errorf("failed to decode execution plan: %w", err)
		}
		return writeKeyValueTable(w, flat)
	}
}
