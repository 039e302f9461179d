package logger

import (
	"context"

	"go.uber.org/zap"
)

type contextKey struct{}

var loggerCtxKey = contextKey{}

// defaultLogger is returned by Get when the context carries no logger.
var defaultLogger = zap.NewNop()

// Get returns the logger attached to ctx, or a no-op logger. Safe with a nil ctx.
func Get(ctx context.Context) *zap.Logger {
	if ctx == nil {
		return defaultLogger
	}
	if ctxLogger, ok := ctx.Value(loggerCtxKey).(*zap.Logger); ok && ctxLogger != nil {
		return ctxLogger
	}
	return defaultLogger
}

// With returns a copy of ctx carrying logger.
func With(ctx context.Context, logger *zap.Logger) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, loggerCtxKey, logger)
}

// GetOr returns the logger attached to ctx, falling back to the given one.
func GetOr(ctx context.Context, fallback *zap.Logger) *zap.Logger {
	if ctx != nil {
		if ctxLogger, ok := ctx.Value(loggerCtxKey).(*zap.Logger); ok && ctxLogger != nil {
			return ctxLogger
		}
	}
	return fallback
}
