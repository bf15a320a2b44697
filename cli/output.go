package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/mattn/go-isatty"
	"gopkg.in/yaml.v3"

	"github.com/gridspec/gridspec/engine/core"
	"github.com/gridspec/gridspec/pkg/config"
)

// -----------------------------------------------------------------------------
// Format
// -----------------------------------------------------------------------------

// Format selects how command results are rendered.
type Format string

const (
	FormatAuto  Format = "auto"
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
)

// ParseFormat normalizes a format name. The empty string means auto.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(FormatAuto):
		return FormatAuto, nil
	case string(FormatTable):
		return FormatTable, nil
	case string(FormatJSON):
		return FormatJSON, nil
	case string(FormatYAML):
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unsupported format: %s", s)
	}
}

// resolveFormat reads the configured format and settles auto against the
// environment. Flag values already sit in the configuration with the right
// precedence, so this only consults the context.
func resolveFormat(ctx context.Context) (Format, error) {
	format, err := ParseFormat(config.FromContext(ctx).Output.Format)
	if err != nil {
		return "", err
	}
	if format == FormatAuto {
		return autoFormat(), nil
	}
	return format, nil
}

// autoFormat picks JSON for pipes and CI so machine consumers never have to
// parse a table, and a table for humans at an interactive terminal.
func autoFormat() Format {
	if isRunningInCI() {
		return FormatJSON
	}
	if !stdoutIsTerminal() {
		return FormatJSON
	}
	term := os.Getenv("TERM")
	if term == "dumb" || term == "" {
		return FormatJSON
	}
	return FormatTable
}

// isRunningInCI checks if we're running in a CI/CD environment.
func isRunningInCI() bool {
	ciVars := []string{
		"CI",
		"GITHUB_ACTIONS",
		"GITLAB_CI",
		"JENKINS_URL",
		"CIRCLECI",
		"TRAVIS",
		"BUILDKITE",
		"DRONE",
		"TEAMCITY_VERSION",
		"CONTINUOUS_INTEGRATION",
	}
	for _, v := range ciVars {
		if os.Getenv(v) != "" {
			return true
		}
	}
	return false
}

func stdoutIsTerminal() bool {
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}

// -----------------------------------------------------------------------------
// Encoders
// -----------------------------------------------------------------------------

func writeJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

func writeYAML(w io.Writer, v any) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}
	return encoder.Close()
}

// -----------------------------------------------------------------------------
// Tables
// -----------------------------------------------------------------------------

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

// writeViolationsTable renders violations one row per breach, in the order
// the validator reported them.
func writeViolationsTable(w io.Writer, violations core.Violations) error {
	tw := newTable(w)
	fmt.Fprintln(tw, "PATH\tKIND\tMESSAGE")
	fmt.Fprintln(tw, "----\t----\t-------")
	for i := range violations {
		v := &violations[i]
		fmt.Fprintf(tw, "%s\t%s\t%s\n", v.Path, v.Kind, v.Message)
	}
	return tw.Flush()
}

// writeKeyValueTable renders a nested value as sorted dotted-path rows.
func writeKeyValueTable(w io.Writer, value any) error {
	flat := make(map[string]string)
	flattenValue("", value, flat)

	keys := make([]string, 0, len(flat))
	for k := range flat {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	tw := newTable(w)
	fmt.Fprintln(tw, "KEY\tVALUE")
	fmt.Fprintln(tw, "---\t-----")
	for _, key := range keys {
		fmt.Fprintf(tw, "%s\t%s\n", key, flat[key])
	}
	return tw.Flush()
}

// flattenValue converts nested maps to a flat dotted-path map. Lists and
// scalars both render via %v since tables are for human eyes only.
func flattenValue(prefix string, value any, result map[string]string) {
	mapping, ok := value.(map[string]any)
	if !ok {
		result[prefix] = fmt.Sprintf("%v", value)
		return
	}
	if len(mapping) == 0 && prefix != "" {
		result[prefix] = "{}"
		return
	}
	for key, child := range mapping {
		path := key
		if prefix != "" {
			path = prefix + "." + key
		}
		flattenValue(path, child, result)
	}
}
