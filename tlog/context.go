package tlog

import (
	"context"

	"go.uber.org/zap"
)

type loggerKey struct{}

// Get returns the logger carried by ctx. A context without one logs nothing.
func Get(ctx context.Context) *zap.Logger {
	if logger, ok := ctx.Value(loggerKey{}).(*zap.Logger); ok {
		return logger
	}
	return zap.NewNop()
}

// WithLogger returns a context carrying logger
func WithLogger(ctx context.Context, logger *zap.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// With returns a context whose logger adds fields to every message
func With(ctx context.Context, fields ...zap.Field) context.Context {
	return WithLogger(ctx, Get(ctx).With(fields...))
}

// Named returns a context whose logger is the named child of the current
// one, such as "engine" or "monitor"
func Named(ctx context.Context, name string) context.Context {
	return WithLogger(ctx, Get(ctx).Named(name))
}
