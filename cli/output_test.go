package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridspec/gridspec/engine/core"
)

func Test_ParseFormat(t *testing.T) {
	t.Run("Should accept the known formats", func(t *testing.T) {
		for name, want := range map[string]Format{
			"auto":  FormatAuto,
			"table": FormatTable,
			"json":  FormatJSON,
			"yaml":  FormatYAML,
			"JSON":  FormatJSON,
			" yaml": FormatYAML,
		} {
			got, err := ParseFormat(name)
			require.NoError(t, err, name)
			assert.Equal(t, want, got, name)
		}
	})
	t.Run("Should treat the empty string as auto", func(t *testing.T) {
		got, err := ParseFormat("")
		require.NoError(t, err)
		assert.Equal(t, FormatAuto, got)
	})
	t.Run("Should reject unknown formats", func(t *testing.T) {
		_, err := ParseFormat("xml")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported format")
	})
}

func Test_WriteKeyValueTable(t *testing.T) {
	t.Run("Should flatten nested mappings into sorted dotted rows", func(t *testing.T) {
		var buf bytes.Buffer
		err := writeKeyValueTable(&buf, map[string]any{
			"tokenizer": map[string]any{"name": "gpt2", "context_length": 512},
			"test_size": 0.1,
		})
		require.NoError(t, err)

		out := buf.String()
		assert.Contains(t, out, "tokenizer.name")
		assert.Contains(t, out, "tokenizer.context_length")
		assert.Contains(t, out, "test_size")
		assert.Less(t, bytes.Index(buf.Bytes(), []byte("test_size")),
			bytes.Index(buf.Bytes(), []byte("tokenizer.context_length")))
	})
	t.Run("Should render empty nested mappings as a placeholder", func(t *testing.T) {
		var buf bytes.Buffer
		err := writeKeyValueTable(&buf, map[string]any{
			"dataset": map[string]any{"file_config": map[string]any{}},
		})
		require.NoError(t, err)
		assert.Contains(t, buf.String(), "dataset.file_config")
		assert.Contains(t, buf.String(), "{}")
	})
}

func Test_WriteViolationsTable(t *testing.T) {
	t.Run("Should keep violations in reported order", func(t *testing.T) {
		var buf bytes.Buffer
		violations := core.Violations{
			core.NewViolation(core.ViolationMissingRequired, "model_name", "required field is missing"),
			core.NewViolation(core.ViolationRangeViolation, "test_size", "value out of range"),
		}
		require.NoError(t, writeViolationsTable(&buf, violations))

		out := buf.String()
		assert.Contains(t, out, "model_name")
		assert.Contains(t, out, "test_size")
		assert.Less(t, bytes.Index(buf.Bytes(), []byte("model_name")),
			bytes.Index(buf.Bytes(), []byte("test_size")))
	})
}
