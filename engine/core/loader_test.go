package core

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_LoadDocument(t *testing.T) {
	t.Run("Should load a YAML config file into a document", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "experiment.yaml")
		content := []byte(`
tokenizer:
  name: gpt2
  context_length: 1024
dataset:
  source: local
  nameOrPath: ./corpus
test_size: 0.1
`)
		require.NoError(t, os.WriteFile(path, content, 0o600))

		doc, err := LoadDocument(path)
		require.NoError(t, err)

		name, ok := doc.Get("tokenizer.name")
		require.True(t, ok)
		assert.Equal(t, "gpt2", name)

		size, ok := doc.Get("test_size")
		require.True(t, ok)
		assert.Equal(t, 0.1, size)
	})
	t.Run("Should fail for missing files", func(t *testing.T) {
		_, err := LoadDocument(filepath.Join(t.TempDir(), "absent.yaml"))
		assert.Error(t, err)
	})
	t.Run("Should fail for malformed YAML", func(t *testing.T) {
		_, err := DocumentFromBytes([]byte("fo: [unclosed"))
		assert.Error(t, err)
	})
	t.Run("Should decode an empty file into an empty document", func(t *testing.T) {
		doc, err := DocumentFromBytes(nil)
		require.NoError(t, err)
		assert.Empty(t, doc.AsMap())
	})
}
