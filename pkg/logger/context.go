package logger

import "context"

type ctxKey struct{}

// LoggerCtxKey is the context key the CLI uses to carry the request logger.
var LoggerCtxKey = ctxKey{}

// ContextWithLogger attaches a logger to the context. A nil logger leaves the
// context unchanged.
func ContextWithLogger(ctx context.Context, l Logger) context.Context {
	if l == nil {
		return ctx
	}
	return context.WithValue(ctx, LoggerCtxKey, l)
}

// FromContext returns the logger carried by the context, or the package
// default when the context carries none.
func FromContext(ctx context.Context) Logger {
	if ctx == nil {
		return Default()
	}
	if l, ok := ctx.Value(LoggerCtxKey).(Logger); ok && l != nil {
		return l
	}
	return Default()
}
