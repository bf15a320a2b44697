package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execute runs the root command with args and returns stdout. Every run uses
// JSON output and disabled logging so assertions stay deterministic; cobra's
// own error line goes to a separate stderr buffer so stdout stays parseable.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := RootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append(args, "--format", "json", "--log-level", "disabled"))
	err := cmd.Execute()
	return out.String(), err
}

func writeFixture(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func Test_ValidateCommand(t *testing.T) {
	t.Run("Should accept a valid tokenization config and render the resolved document", func(t *testing.T) {
		path := writeFixture(t, "config.yaml", `
tokenizer:
  name: gpt2
  context_length: 512
dataset:
  source: huggingface
  nameOrPath: wikitext
`)
		out, err := execute(t, "validate", path, "--schema", "tokenization")
		require.NoError(t, err)

		var report struct {
			Valid  bool           `json:"valid"`
			Config map[string]any `json:"config"`
		}
		require.NoError(t, json.Unmarshal([]byte(out), &report))
		assert.True(t, report.Valid)
		tokenizer, ok := report.Config["tokenizer"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "causal_pretraining", tokenizer["task"])
	})
	t.Run("Should fail with the ordered violation list for an invalid config", func(t *testing.T) {
		path := writeFixture(t, "config.yaml", `
tokenizer:
  context_length: 512
dataset:
  source: nowhere
  nameOrPath: wikitext
test_size: 1.5
`)
		out, err := execute(t, "validate", path, "--schema", "tokenization")
		require.Error(t, err)

		var report struct {
			Valid      bool `json:"valid"`
			Violations []struct {
				Path string `json:"path"`
				Kind string `json:"kind"`
			} `json:"violations"`
		}
		require.NoError(t, json.Unmarshal([]byte(out), &report))
		assert.False(t, report.Valid)
		require.Len(t, report.Violations, 3)
		// Field declaration order: base schema fields first, then the task's.
		assert.Equal(t, "test_size", report.Violations[0].Path)
		assert.Equal(t, "range_violation", report.Violations[0].Kind)
		assert.Equal(t, "tokenizer.name", report.Violations[1].Path)
		assert.Equal(t, "missing_required", report.Violations[1].Kind)
		assert.Equal(t, "dataset.source", report.Violations[2].Path)
		assert.Equal(t, "enum_violation", report.Violations[2].Kind)
	})
	t.Run("Should fail for a missing file", func(t *testing.T) {
		_, err := execute(t, "validate", filepath.Join(t.TempDir(), "absent.yaml"))
		require.Error(t, err)
	})
	t.Run("Should fail for an unknown schema", func(t *testing.T) {
		path := writeFixture(t, "config.yaml", "tokenizer:\n  name: gpt2\n")
		_, err := execute(t, "validate", path, "--schema", "mystery")
		require.Error(t, err)
	})
}

func Test_ExpandCommand(t *testing.T) {
	t.Run("Should expand a sweep and write one file per valid combination", func(t *testing.T) {
		sweep := writeFixture(t, "sweep.yaml", `
model_name: [gpt2]
precision: [16-mixed, bf16-mixed]
batch_size: [4, 8]
`)
		outputDir := t.TempDir()
		out, err := execute(t, "expand", sweep,
			"--schema", "causal_pretraining", "--output-dir", outputDir)
		require.NoError(t, err)

		var report struct {
			Combinations int `json:"combinations"`
			Expanded     int `json:"expanded"`
			Valid        int `json:"valid"`
			Invalid      int `json:"invalid"`
		}
		require.NoError(t, json.Unmarshal([]byte(out), &report))
		assert.Equal(t, 4, report.Combinations)
		assert.Equal(t, 4, report.Expanded)
		assert.Equal(t, 4, report.Valid)
		assert.Equal(t, 0, report.Invalid)

		files, err := filepath.Glob(filepath.Join(outputDir, "*.yaml"))
		require.NoError(t, err)
		assert.Len(t, files, 4)
	})
	t.Run("Should honor the expansion limit", func(t *testing.T) {
		sweep := writeFixture(t, "sweep.yaml", `
model_name: [gpt2]
batch_size: [1, 2, 3, 4]
`)
		out, err := execute(t, "expand", sweep,
			"--schema", "causal_pretraining", "--limit", "2")
		require.NoError(t, err)

		var report struct {
			Combinations int `json:"combinations"`
			Expanded     int `json:"expanded"`
		}
		require.NoError(t, json.Unmarshal([]byte(out), &report))
		assert.Equal(t, 4, report.Combinations)
		assert.Equal(t, 2, report.Expanded)
	})
	t.Run("Should fail when a combination is invalid", func(t *testing.T) {
		sweep := writeFixture(t, "sweep.yaml", `
model_name: [gpt2]
batch_size: [0, 4]
`)
		_, err := execute(t, "expand", sweep, "--schema", "causal_pretraining")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid")
	})
	t.Run("Should fail before expanding when an axis has no candidates", func(t *testing.T) {
		sweep := writeFixture(t, "sweep.yaml", `
model_name: [gpt2]
precision: []
`)
		_, err := execute(t, "expand", sweep, "--schema", "causal_pretraining")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "empty candidate set")
	})
}

func Test_PlanCommand(t *testing.T) {
	t.Run("Should dispatch a valid config into an execution plan", func(t *testing.T) {
		path := writeFixture(t, "config.yaml", `
model_name: gpt2
parallelization_strategy: fsdp
gradient_checkpointing: true
`)
		out, err := execute(t, "plan", path)
		require.NoError(t, err)

		var execPlan struct {
			Strategy              string `json:"strategy"`
			GradientCheckpointing bool   `json:"gradient_checkpointing"`
			Sharding              *struct {
				ShardingStrategy string `json:"sharding_strategy"`
				StateDictType    string `json:"state_dict_type"`
			} `json:"sharding"`
			Topology *struct{} `json:"topology"`
		}
		require.NoError(t, json.Unmarshal([]byte(out), &execPlan))
		assert.Equal(t, "fsdp", execPlan.Strategy)
		assert.True(t, execPlan.GradientCheckpointing)
		require.NotNil(t, execPlan.Sharding)
		assert.Equal(t, "FULL_SHARD", execPlan.Sharding.ShardingStrategy)
		assert.Equal(t, "full", execPlan.Sharding.StateDictType)
		assert.Nil(t, execPlan.Topology)
	})
	t.Run("Should refuse to plan an invalid config", func(t *testing.T) {
		path := writeFixture(t, "config.yaml", "parallelization_strategy: fsdp\n")
		_, err := execute(t, "plan", path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cannot plan")
	})
}

func Test_SchemasCommand(t *testing.T) {
	t.Run("Should list the builtin schema family", func(t *testing.T) {
		out, err := execute(t, "schemas", "list")
		require.NoError(t, err)

		var summaries []struct {
			Name string `json:"name"`
		}
		require.NoError(t, json.Unmarshal([]byte(out), &summaries))
		names := make([]string, len(summaries))
		for i := range summaries {
			names[i] = summaries[i].Name
		}
		assert.Equal(t, []string{"causal_pretraining", "experiment_base", "tokenization"}, names)
	})
	t.Run("Should show one merged schema as JSON Schema", func(t *testing.T) {
		out, err := execute(t, "schemas", "show", "tokenization")
		require.NoError(t, err)

		var doc map[string]any
		require.NoError(t, json.Unmarshal([]byte(out), &doc))
		assert.Equal(t, "http://json-schema.org/draft-07/schema#", doc["$schema"])
		properties, ok := doc["properties"].(map[string]any)
		require.True(t, ok)
		// Composition pulls the base strategy field into the task schema.
		assert.Contains(t, properties, "parallelization_strategy")
		assert.Contains(t, properties, "tokenizer")
	})
	t.Run("Should fail to show an unknown schema", func(t *testing.T) {
		_, err := execute(t, "schemas", "show", "mystery")
		require.Error(t, err)
	})
	t.Run("Should export every schema plus the plan schema", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "schemas")
		_, err := execute(t, "schemas", "export", "--dir", dir)
		require.NoError(t, err)

		for _, name := range []string{
			"experiment_base.json",
			"tokenization.json",
			"causal_pretraining.json",
			"execution_plan.json",
		} {
			data, err := os.ReadFile(filepath.Join(dir, name))
			require.NoError(t, err, name)
			var doc map[string]any
			require.NoError(t, json.Unmarshal(data, &doc), name)
		}
	})
}

func Test_VersionCommand(t *testing.T) {
	t.Run("Should print build information", func(t *testing.T) {
		out, err := execute(t, "version")
		require.NoError(t, err)
		assert.Contains(t, out, "gridspec version")
		assert.Contains(t, out, "commit:")
	})
}
