// Package logger is the process-wide structured logging facade. Engine
// packages report violations as values and never log; logging belongs to the
// CLI layer, so the surface here stays deliberately small.
package logger

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	charmlog "github.com/charmbracelet/log"
)

const defaultTimeFormat = "15:04:05"

// -----------------------------------------------------------------------------
// Levels
// -----------------------------------------------------------------------------

// LogLevel names a logging threshold.
type LogLevel string

const (
	DebugLevel    LogLevel = "debug"
	InfoLevel     LogLevel = "info"
	WarnLevel     LogLevel = "warn"
	ErrorLevel    LogLevel = "error"
	DisabledLevel LogLevel = "disabled"
)

// disabledCharmLevel sits above every real level so nothing passes the filter.
const disabledCharmLevel = charmlog.Level(1000)

func (l LogLevel) String() string {
	return string(l)
}

func (l LogLevel) charmLevel() charmlog.Level {
	switch l {
	case DebugLevel:
		return charmlog.DebugLevel
	case WarnLevel:
		return charmlog.WarnLevel
	case ErrorLevel:
		return charmlog.ErrorLevel
	case DisabledLevel:
		return disabledCharmLevel
	default:
		return charmlog.InfoLevel
	}
}

// ParseLevel maps a level name to a LogLevel. Unknown names fall back to
// InfoLevel so a typo in a flag never silences the process.
func ParseLevel(s string) LogLevel {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return DebugLevel
	case "info":
		return InfoLevel
	case "warn", "warning":
		return WarnLevel
	case "error":
		return ErrorLevel
	case "disabled", "off":
		return DisabledLevel
	default:
		return InfoLevel
	}
}

// -----------------------------------------------------------------------------
// Logger
// -----------------------------------------------------------------------------

// Logger is the structured logging interface handed through the CLI.
type Logger interface {
	Debug(msg string, keyvals ...any)
	Info(msg string, keyvals ...any)
	Warn(msg string, keyvals ...any)
	Error(msg string, keyvals ...any)
	With(keyvals ...any) Logger
}

type charmLogger struct {
	inner *charmlog.Logger
}

func (l *charmLogger) Debug(msg string, keyvals ...any) {
	l.inner.Debug(msg, keyvals...)
}

func (l *charmLogger) Info(msg string, keyvals ...any) {
	l.inner.Info(msg, keyvals...)
}

func (l *charmLogger) Warn(msg string, keyvals ...any) {
	l.inner.Warn(msg, keyvals...)
}

func (l *charmLogger) Error(msg string, keyvals ...any) {
	l.inner.Error(msg, keyvals...)
}

func (l *charmLogger) With(keyvals ...any) Logger {
	return &charmLogger{inner: l.inner.With(keyvals...)}
}

// -----------------------------------------------------------------------------
// Config
// -----------------------------------------------------------------------------

// Config controls how log records are rendered and where they go.
type Config struct {
	Level      LogLevel
	Output     io.Writer
	JSON       bool
	AddSource  bool
	TimeFormat string
}

// DefaultConfig logs human-readable text at info level to stderr, keeping
// stdout free for command output.
func DefaultConfig() *Config {
	return &Config{
		Level:      InfoLevel,
		Output:     os.Stderr,
		JSON:       false,
		AddSource:  false,
		TimeFormat: defaultTimeFormat,
	}
}

// TestConfig discards all output so test runs stay quiet.
func TestConfig() *Config {
	return &Config{
		Level:      DisabledLevel,
		Output:     io.Discard,
		JSON:       false,
		AddSource:  false,
		TimeFormat: defaultTimeFormat,
	}
}

// NewLogger builds a logger from the config. A nil config selects
// DefaultConfig, or TestConfig when running under "go test".
func NewLogger(cfg *Config) Logger {
	if cfg == nil {
		if IsTestEnvironment() {
			cfg = TestConfig()
		} else {
			cfg = DefaultConfig()
		}
	}
	output := cfg.Output
	if output == nil {
		output = os.Stderr
	}
	inner := charmlog.NewWithOptions(output, charmlog.Options{
		ReportCaller:    cfg.AddSource,
		ReportTimestamp: true,
		TimeFormat:      cfg.TimeFormat,
		Level:           cfg.Level.charmLevel(),
	})
	if cfg.JSON {
		inner.SetFormatter(charmlog.JSONFormatter)
	}
	return &charmLogger{inner: inner}
}

// IsTestEnvironment reports whether the process is a "go test" binary.
func IsTestEnvironment() bool {
	if len(os.Args) == 0 {
		return false
	}
	return strings.HasSuffix(filepath.Base(os.Args[0]), ".test")
}

// -----------------------------------------------------------------------------
// Package default
// -----------------------------------------------------------------------------

var defaultLogger = NewLogger(nil)

// Init builds a logger from the config and installs it as the package
// default.
func Init(cfg *Config) Logger {
	l := NewLogger(cfg)
	defaultLogger = l
	return l
}

// Default returns the package default logger.
func Default() Logger {
	return defaultLogger
}

func Debug(msg string, keyvals ...any) {
	defaultLogger.Debug(msg, keyvals...)
}

func Info(msg string, keyvals ...any) {
	defaultLogger.Info(msg, keyvals...)
}

func Warn(msg string, keyvals ...any) {
	defaultLogger.Warn(msg, keyvals...)
}

func Error(msg string, keyvals ...any) {
	defaultLogger.Error(msg, keyvals...)
}
