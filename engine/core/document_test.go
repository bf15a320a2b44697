package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Document_GetSet(t *testing.T) {
	t.Run("Should read nested values by dotted path", func(t *testing.T) {
		doc := Document{
			"dataset": map[string]any{
				"file_config": map[string]any{
					"text_key": "body",
				},
			},
		}
		got, ok := doc.Get("dataset.file_config.text_key")
		require.True(t, ok)
		assert.Equal(t, "body", got)
	})
	t.Run("Should report absence for unknown paths", func(t *testing.T) {
		doc := Document{"tokenizer": map[string]any{"name": "gpt2"}}
		_, ok := doc.Get("tokenizer.task")
		assert.False(t, ok)
		assert.False(t, doc.Has("dataset.source"))
	})
	t.Run("Should return the whole document for the empty path", func(t *testing.T) {
		doc := Document{"a": 1}
		got, ok := doc.Get("")
		require.True(t, ok)
		assert.Equal(t, map[string]any{"a": 1}, got)
	})
	t.Run("Should create intermediate mappings on Set", func(t *testing.T) {
		doc := Document{}
		require.NoError(t, doc.Set("dataset.file_config.format", "json"))
		got, ok := doc.Get("dataset.file_config.format")
		require.True(t, ok)
		assert.Equal(t, "json", got)
	})
	t.Run("Should overwrite existing leaves on Set", func(t *testing.T) {
		doc := Document{"batch_size": 4}
		require.NoError(t, doc.Set("batch_size", 8))
		got, ok := doc.Get("batch_size")
		require.True(t, ok)
		assert.Equal(t, float64(8), got)
	})
	t.Run("Should refuse to tunnel through scalar segments", func(t *testing.T) {
		doc := Document{"output": "plain"}
		err := doc.Set("output.path", "/tmp/out")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not a mapping")
	})
	t.Run("Should reject the empty path on Set", func(t *testing.T) {
		doc := Document{}
		assert.Error(t, doc.Set("", 1))
	})
}

func Test_DecodeTo(t *testing.T) {
	t.Run("Should decode a document into a struct with weak typing", func(t *testing.T) {
		type target struct {
			Backend    string `mapstructure:"backend"`
			NumWorkers int    `mapstructure:"num_workers"`
		}
		doc := Document{"backend": "nccl", "num_workers": "4"}
		got, err := DecodeTo[target](doc)
		require.NoError(t, err)
		assert.Equal(t, "nccl", got.Backend)
		assert.Equal(t, 4, got.NumWorkers)
	})
}

func Test_DeepCopy_Document(t *testing.T) {
	t.Run("Should copy nested documents without aliasing", func(t *testing.T) {
		doc := Document{
			"tokenizer": map[string]any{"name": "gpt2", "context_length": 1024},
		}
		copied, err := DeepCopy(doc)
		require.NoError(t, err)
		require.NoError(t, copied.Set("tokenizer.name", "llama"))

		orig, ok := doc.Get("tokenizer.name")
		require.True(t, ok)
		assert.Equal(t, "gpt2", orig)

		changed, ok := copied.Get("tokenizer.name")
		require.True(t, ok)
		assert.Equal(t, "llama", changed)
	})
	t.Run("Should treat nil documents as absent", func(t *testing.T) {
		var doc Document
		copied, err := DeepCopy(doc)
		require.NoError(t, err)
		assert.Nil(t, copied)
	})
}
