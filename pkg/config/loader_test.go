package config

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Loader_Load(t *testing.T) {
	t.Run("Should resolve built-in defaults", func(t *testing.T) {
		cfg, err := NewLoader().Load(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "info", cfg.Log.Level)
		assert.False(t, cfg.Log.JSON)
		assert.Equal(t, "auto", cfg.Output.Format)
		assert.Equal(t, 0, cfg.Expand.Limit)
		assert.False(t, cfg.Expand.FailFast)
	})
	t.Run("Should layer environment variables over defaults", func(t *testing.T) {
		t.Setenv("GRIDSPEC_LOG_LEVEL", "debug")
		t.Setenv("GRIDSPEC_OUTPUT_FORMAT", "json")
		t.Setenv("GRIDSPEC_EXPAND_FAIL_FAST", "true")
		t.Setenv("GRIDSPEC_EXPAND_LIMIT", "8")

		cfg, err := NewLoader().Load(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "debug", cfg.Log.Level)
		assert.Equal(t, "json", cfg.Output.Format)
		assert.True(t, cfg.Expand.FailFast)
		assert.Equal(t, 8, cfg.Expand.Limit)
	})
	t.Run("Should apply overrides over environment", func(t *testing.T) {
		t.Setenv("GRIDSPEC_LOG_LEVEL", "debug")

		cfg, err := NewLoader().Load(context.Background(), Override{Key: "log.level", Value: "error"})
		require.NoError(t, err)
		assert.Equal(t, "error", cfg.Log.Level)
	})
	t.Run("Should skip overrides with an empty key", func(t *testing.T) {
		cfg, err := NewLoader().Load(context.Background(), Override{Value: "ignored"})
		require.NoError(t, err)
		assert.Equal(t, "info", cfg.Log.Level)
	})
	t.Run("Should reject an invalid level from the environment", func(t *testing.T) {
		t.Setenv("GRIDSPEC_LOG_LEVEL", "silly")

		_, err := NewLoader().Load(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "validation failed")
	})
	t.Run("Should reject an invalid output format", func(t *testing.T) {
		_, err := NewLoader().Load(context.Background(), Override{Key: "output.format", Value: "xml"})
		assert.Error(t, err)
	})
	t.Run("Should reject a negative expand limit", func(t *testing.T) {
		_, err := NewLoader().Load(context.Background(), Override{Key: "expand.limit", Value: -1})
		assert.Error(t, err)
	})
}

func Test_Loader_Validate(t *testing.T) {
	t.Run("Should reject a nil configuration", func(t *testing.T) {
		err := NewLoader().Validate(nil)
		assert.Error(t, err)
	})
	t.Run("Should accept the default configuration", func(t *testing.T) {
		assert.NoError(t, NewLoader().Validate(Default()))
	})
}

func Test_TransformEnvKey(t *testing.T) {
	t.Run("Should map section prefixes to dotted paths", func(t *testing.T) {
		cases := map[string]string{
			"LOG_LEVEL":         "log.level",
			"OUTPUT_FORMAT":     "output.format",
			"EXPAND_FAIL_FAST":  "expand.fail_fast",
			"EXPAND_OUTPUT_DIR": "expand.output_dir",
			"FOO":               "foo",
			"FOO__BAR":          "foo.bar",
			"":                  "",
		}
		for input, want := range cases {
			assert.Equal(t, want, transformEnvKey(input), input)
		}
	})
}

func Test_FromContext(t *testing.T) {
	t.Run("Should return the configuration carried by the context", func(t *testing.T) {
		cfg := Default()
		cfg.Log.Level = "error"
		ctx := ContextWithConfig(context.Background(), cfg)
		assert.Equal(t, cfg, FromContext(ctx))
	})
	t.Run("Should fall back to a usable configuration when none is attached", func(t *testing.T) {
		cfg := FromContext(context.Background())
		require.NotNil(t, cfg)
	})
	t.Run("Should leave the context unchanged for a nil config", func(t *testing.T) {
		ctx := context.Background()
		assert.Equal(t, ctx, ContextWithConfig(ctx, nil))
	})
}
