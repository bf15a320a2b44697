package cli

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/gridspec/gridspec/engine/core"
	"github.com/gridspec/gridspec/engine/grid"
	"github.com/gridspec/gridspec/engine/schema"
	"github.com/gridspec/gridspec/pkg/config"
	"github.com/gridspec/gridspec/pkg/logger"
)

// ExpandCmd returns the expand command.
func ExpandCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "expand <sweep-file>",
		Short: "Expand a sweep specification into concrete configurations",
		Long: `Expand reads a sweep specification, enumerates the Cartesian product of
its swept fields in declaration order, and validates every combination
against the named schema. With --output-dir each valid configuration is
written as <run-id>-NNNN.yaml where NNNN is the combination's position in
the grid.`,
		Args: cobra.ExactArgs(1),
		RunE: runExpand,
	}
	cmd.Flags().String("schema", schema.SchemaTokenization, "Schema to validate each configuration against")
	cmd.Flags().String("output-dir", "", "Directory to write expanded configuration files into")
	cmd.Flags().Bool("fail-fast", false, "Stop at the first invalid configuration")
	cmd.Flags().Int("limit", 0, "Maximum number of configurations to expand (0 means all)")
	return cmd
}

// expandVerdict is one combination's outcome. Index is the combination's
// ordinal in the full grid so file names stay aligned with enumeration order.
type expandVerdict struct {
	Index      int             `json:"index"                yaml:"index"`
	Valid      bool            `json:"valid"                yaml:"valid"`
	File       string          `json:"file,omitempty"       yaml:"file,omitempty"`
	Config     core.Document   `json:"config"               yaml:"config"`
	Violations core.Violations `json:"violations,omitempty" yaml:"violations,omitempty"`
}

type expandReport struct {
	RunID        string          `json:"run_id"               yaml:"run_id"`
	Schema       string          `json:"schema"               yaml:"schema"`
	Combinations int             `json:"combinations"         yaml:"combinations"`
	Expanded     int             `json:"expanded"             yaml:"expanded"`
	Valid        int             `json:"valid"                yaml:"valid"`
	Invalid      int             `json:"invalid"              yaml:"invalid"`
	OutputDir    string          `json:"output_dir,omitempty" yaml:"output_dir,omitempty"`
	Results      []expandVerdict `json:"results"              yaml:"results"`
}

func runExpand(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	log := logger.FromContext(ctx)
	cfg := config.FromContext(ctx)

	schemaName, err := cmd.Flags().GetString("schema")
	if err != nil {
		return fmt.Errorf("failed to get schema flag: %w", err)
	}
	spec, err := grid.ParseSweepFile(args[0])
	if err != nil {
		return err
	}
	seq, err := grid.NewExpanderFromPipeline(grid.Default()).Expand(spec, schemaName)
	if err != nil {
		return err
	}
	runID, err := core.NewID()
	if err != nil {
		return err
	}
	outputDir := cfg.Expand.OutputDir
	if outputDir != "" {
		if err := os.MkdirAll(outputDir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	log.Info("expansion started",
		"sweep", args[0],
		"schema", schemaName,
		"run_id", runID,
		"combinations", spec.Count())

	report := expandReport{
		RunID:        runID.String(),
		Schema:       schemaName,
		Combinations: spec.Count(),
		OutputDir:    outputDir,
	}
	index := 0
	for result := range seq {
		verdict := expandVerdict{
			Index:      index,
			Valid:      result.Valid(),
			Config:     result.Config,
			Violations: result.Violations,
		}
		if verdict.Valid {
			report.Valid++
			if outputDir != "" {
				name := fmt.Sprintf("%s-%04d.yaml", runID, index)
				if err := writeConfigFile(filepath.Join(outputDir, name), result.Config); err != nil {
					return err
				}
				verdict.File = name
			}
		} else {
			report.Invalid++
		}
		report.Results = append(report.Results, verdict)
		index++
		if !verdict.Valid && cfg.Expand.FailFast {
			log.Warn("stopping expansion on first invalid combination", "index", verdict.Index)
			break
		}
		if cfg.Expand.Limit > 0 && index >= cfg.Expand.Limit {
			break
		}
	}
	report.Expanded = index

	format, err := resolveFormat(ctx)
	if err != nil {
		return err
	}
	if err := renderExpand(cmd.OutOrStdout(), format, &report); err != nil {
		return err
	}
	if report.Invalid > 0 {
		return fmt.Errorf("%d of %d expanded combination(s) invalid", report.Invalid, report.Expanded)
	}
	return nil
}

func renderExpand(w io.Writer, format Format, report *expandReport) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, report)
	case FormatYAML:
		return writeYAML(w, report)
	default:
		fmt.Fprintf(w, "run %s: expanded %d of %d combination(s), %d valid, %d invalid\n",
			report.RunID, report.Expanded, report.Combinations, report.Valid, report.Invalid)
		tw := newTable(w)
		fmt.Fprintln(tw, "INDEX\tVALID\tFILE\tVIOLATIONS")
		fmt.Fprintln(tw, "-----\t-----\t----\t----------")
		for i := range report.Results {
			r := &report.Results[i]
			file := r.File
			if file == "" {
				file = "-"
			}
			violations := "-"
			if len(r.Violations) > 0 {
				violations = strings.Join(r.Violations.Paths(), ", ")
			}
			fmt.Fprintf(tw, "%d\t%v\t%s\t%s\n", r.Index, r.Valid, file, violations)
		}
		return tw.Flush()
	}
}

// writeConfigFile serializes one resolved configuration as YAML.
func writeConfigFile(path string, doc core.Document) error {
	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(doc.AsMap()); err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	if err := encoder.Close(); err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
