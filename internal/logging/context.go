package logging

import (
	"context"
	"log/slog"
)

type sourceKey struct{}

// WithSource records the recording being processed on ctx.
func WithSource(ctx context.Context, source string) context.Context {
	return context.WithValue(ctx, sourceKey{}, source)
}

// SourceFromContext returns the recording stored by WithSource.
func SourceFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	source, ok := ctx.Value(sourceKey{}).(string)
	return source, ok && source != ""
}

// WithContext returns logger tagged with the source carried by ctx, if any.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	if source, ok := SourceFromContext(ctx); ok {
		return logger.With(String(FieldSource, source))
	}
	return logger
}
