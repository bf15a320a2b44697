package config

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

const envPrefix = "GRIDSPEC_"

// Loader resolves the process configuration by layering struct defaults,
// GRIDSPEC_-prefixed environment variables, and explicit overrides, in that
// precedence order. A loader is stateless; every Load starts fresh.
type Loader struct {
	validator *validator.Validate
}

func NewLoader() *Loader {
	return &Loader{validator: validator.New()}
}

// Override pins one dotted config key to a value with the highest
// precedence. The CLI uses it for flags the user set explicitly.
type Override struct {
	Key   string
	Value any
}

// Load resolves and validates the configuration.
func (l *Loader) Load(_ context.Context, overrides ...Override) (*Config, error) {
	k := koanf.New(".")
	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}
	if err := k.Load(env.Provider(".", env.Opt{
		Prefix: envPrefix,
		TransformFunc: func(key, value string) (string, any) {
			return transformEnvKey(strings.TrimPrefix(key, envPrefix)), value
		},
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}
	for _, override := range overrides {
		if override.Key == "" {
			continue
		}
		if err := k.Set(override.Key, override.Value); err != nil {
			return nil, fmt.Errorf("failed to apply override %q: %w", override.Key, err)
		}
	}
	config, err := l.unmarshal(k)
	if err != nil {
		return nil, err
	}
	if err := l.Validate(config); err != nil {
		return nil, err
	}
	return config, nil
}

func (l *Loader) unmarshal(k *koanf.Koanf) (*Config, error) {
	var config Config
	if err := k.UnmarshalWithConf("", &config, koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			WeaklyTypedInput: true,
			Result:           &config,
			TagName:          "koanf",
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
				mapstructure.StringToSliceHookFunc(","),
			),
		},
	}); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	return &config, nil
}

// Validate checks a configuration against its struct tags.
func (l *Loader) Validate(config *Config) error {
	if config == nil {
		return fmt.Errorf("configuration cannot be nil")
	}
	if err := l.validator.Struct(config); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}
	return nil
}

// transformEnvKey converts an environment variable name to a koanf path.
// EXPAND_FAIL_FAST becomes expand.fail_fast: the first segment selects the
// section, the remaining segments keep their underscores as one field name.
func transformEnvKey(s string) string {
	s = strings.ToLower(s)
	parts := strings.FieldsFunc(s, func(r rune) bool {
		return r == '_'
	})
	if len(parts) == 0 {
		return ""
	}
	if len(parts) == 1 {
		return parts[0]
	}
	return parts[0] + "." + strings.Join(parts[1:], "_")
}
