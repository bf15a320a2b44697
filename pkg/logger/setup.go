package logger

// SetupLogger builds the process logger from resolved settings, installs it as
// the package default, and returns it so callers can attach it to a context.
func SetupLogger(level string, logJSON, logSource bool) Logger {
	return Init(&Config{
		Level:      ParseLevel(level),
		JSON:       logJSON,
		AddSource:  logSource,
		TimeFormat: defaultTimeFormat,
	})
}
