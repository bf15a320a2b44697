package config

import (
	"context"
	"sync"

	"github.com/gridspec/gridspec/pkg/logger"
)

type ctxKey struct{}

// ConfigCtxKey is the context key carrying the process configuration.
var ConfigCtxKey = ctxKey{}

// ContextWithConfig stores the process configuration in the context. A nil
// config leaves the context unchanged.
func ContextWithConfig(ctx context.Context, cfg *Config) context.Context {
	if cfg == nil {
		return ctx
	}
	return context.WithValue(ctx, ConfigCtxKey, cfg)
}

var (
	fallbackConfig *Config
	fallbackOnce   sync.Once
)

// FromContext returns the configuration carried by the context. When none is
// attached it falls back to a lazily-loaded default resolved from built-in
// values and environment, so callers always see a usable configuration.
func FromContext(ctx context.Context) *Config {
	if ctx != nil {
		if cfg, ok := ctx.Value(ConfigCtxKey).(*Config); ok && cfg != nil {
			return cfg
		}
	}
	return fallback(ctx)
}

func fallback(ctx context.Context) *Config {
	fallbackOnce.Do(func() {
		cfg, err := NewLoader().Load(ctx)
		if err != nil {
			logger.FromContext(ctx).Warn(
				"failed to load configuration, using built-in defaults",
				"error", err,
			)
			cfg = Default()
		}
		fallbackConfig = cfg
	})
	return fallbackConfig
}
