// Package config carries process-level settings for the gridspec CLI:
// logging, output rendering, and expansion behavior. Experiment documents
// are engine values and never flow through here.
package config

// Config is the resolved process configuration.
type Config struct {
	Log    LogConfig    `koanf:"log"`
	Output OutputConfig `koanf:"output"`
	Expand ExpandConfig `koanf:"expand"`
}

// LogConfig selects the logging threshold and rendering.
type LogConfig struct {
	Level  string `koanf:"level" validate:"omitempty,oneof=debug info warn error disabled"`
	JSON   bool   `koanf:"json"`
	Source bool   `koanf:"source"`
}

// OutputConfig controls how command results render. Format auto picks a
// table on a TTY and JSON otherwise.
type OutputConfig struct {
	Format string `koanf:"format" validate:"omitempty,oneof=auto table json yaml"`
}

// ExpandConfig bounds grid expansion runs. A zero limit means unbounded.
type ExpandConfig struct {
	Limit     int    `koanf:"limit" validate:"min=0"`
	FailFast  bool   `koanf:"fail_fast"`
	OutputDir string `koanf:"output_dir"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Log:    LogConfig{Level: "info"},
		Output: OutputConfig{Format: "auto"},
		Expand: ExpandConfig{},
	}
}
