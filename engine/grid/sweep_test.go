package grid

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridspec/gridspec/engine/core"
)

func Test_ParseSweep(t *testing.T) {
	t.Run("Should split scalars into the fixed portion and sequences into axes", func(t *testing.T) {
		spec, err := ParseSweep([]byte(`
model_name: gpt2
tokenizer:
  name: gpt2
  context_length: [512, 1024]
dataset:
  source: local
precision: [bf16-mixed]
`))
		require.NoError(t, err)

		name, ok := spec.Fixed().Get("model_name")
		require.True(t, ok)
		assert.Equal(t, "gpt2", name)
		tokenizerName, ok := spec.Fixed().Get("tokenizer.name")
		require.True(t, ok)
		assert.Equal(t, "gpt2", tokenizerName)
		source, ok := spec.Fixed().Get("dataset.source")
		require.True(t, ok)
		assert.Equal(t, "local", source)

		require.Len(t, spec.Axes(), 2)
		assert.Equal(t, "tokenizer.context_length", spec.Axes()[0].Path)
		assert.Equal(t, []any{512, 1024}, spec.Axes()[0].Candidates)
		assert.Equal(t, "precision", spec.Axes()[1].Path)
		assert.Equal(t, []any{"bf16-mixed"}, spec.Axes()[1].Candidates)
	})
	t.Run("Should record axes depth-first in declaration order", func(t *testing.T) {
		spec, err := ParseSweep([]byte(`
lr: [0.001, 0.01]
tokenizer:
  overlap: [0, 32]
  task: causal_pretraining
batch_size: [4]
`))
		require.NoError(t, err)
		require.Len(t, spec.Axes(), 3)
		assert.Equal(t, "lr", spec.Axes()[0].Path)
		assert.Equal(t, "tokenizer.overlap", spec.Axes()[1].Path)
		assert.Equal(t, "batch_size", spec.Axes()[2].Path)
	})
	t.Run("Should decode composite candidates", func(t *testing.T) {
		spec, err := ParseSweep([]byte(`
save_raw: [{enabled: true}, {enabled: false, path: ./raw}]
`))
		require.NoError(t, err)
		require.Len(t, spec.Axes(), 1)
		require.Len(t, spec.Axes()[0].Candidates, 2)
		assert.Equal(t, map[string]any{"enabled": true}, spec.Axes()[0].Candidates[0])
		assert.Equal(t, map[string]any{"enabled": false, "path": "./raw"}, spec.Axes()[0].Candidates[1])
	})
	t.Run("Should keep an explicit empty mapping in the fixed portion", func(t *testing.T) {
		spec, err := ParseSweep([]byte("file_config: {}\n"))
		require.NoError(t, err)
		value, ok := spec.Fixed().Get("file_config")
		require.True(t, ok)
		assert.Equal(t, map[string]any{}, value)
		assert.Empty(t, spec.Axes())
	})
	t.Run("Should keep an empty sequence as an axis", func(t *testing.T) {
		spec, err := ParseSweep([]byte("precision: []\n"))
		require.NoError(t, err)
		require.Len(t, spec.Axes(), 1)
		assert.Empty(t, spec.Axes()[0].Candidates)
		assert.Equal(t, 0, spec.Count())
	})
	t.Run("Should return an empty spec for an empty document", func(t *testing.T) {
		spec, err := ParseSweep(nil)
		require.NoError(t, err)
		assert.Empty(t, spec.Axes())
		assert.Empty(t, spec.Fixed())
		assert.Equal(t, 1, spec.Count())
	})
	t.Run("Should reject a non-mapping document", func(t *testing.T) {
		_, err := ParseSweep([]byte("- a\n- b\n"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "must be a mapping")
	})
	t.Run("Should fail on malformed YAML", func(t *testing.T) {
		_, err := ParseSweep([]byte("a: [1, 2\n"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to decode sweep YAML")
	})
}

func Test_ParseSweepFile(t *testing.T) {
	t.Run("Should load a sweep document from disk", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "sweep.yaml")
		require.NoError(t, os.WriteFile(path, []byte("batch_size: [4, 8]\n"), 0o644))
		spec, err := ParseSweepFile(path)
		require.NoError(t, err)
		assert.Equal(t, 2, spec.Count())
	})
	t.Run("Should fail for a missing file", func(t *testing.T) {
		_, err := ParseSweepFile(filepath.Join(t.TempDir(), "absent.yaml"))
		assert.Error(t, err)
	})
}

func Test_SweepSpec_Count(t *testing.T) {
	t.Run("Should multiply candidate counts across axes", func(t *testing.T) {
		spec := NewSweep(nil, []Axis{
			{Path: "precision", Candidates: []any{"16-mixed", "bf16-mixed"}},
			{Path: "batch_size", Candidates: []any{4, 8, 16}},
		})
		assert.Equal(t, 6, spec.Count())
	})
	t.Run("Should count one configuration when nothing is swept", func(t *testing.T) {
		spec := NewSweep(core.Document{"model_name": "gpt2"}, nil)
		assert.Equal(t, 1, spec.Count())
	})
	t.Run("Should count zero when any axis has no candidates", func(t *testing.T) {
		spec := NewSweep(nil, []Axis{
			{Path: "precision", Candidates: []any{"bf16-mixed"}},
			{Path: "batch_size"},
		})
		assert.Equal(t, 0, spec.Count())
	})
}
