// Package logging carries an operation-scoped slog logger through
// context.Context so services can log without holding a logger field.
package logging

import (
	"context"
	"log/slog"
	"os"
)

// contextKey is a private type to prevent collisions in context values.
type contextKey string

const loggerKey = contextKey("logger")

// NewLogger builds the process-wide structured logger. Production gets JSON
// output, everything else a human-readable text handler.
func NewLogger(isProduction bool) *slog.Logger {
	if isProduction {
		return slog.New(slog.NewJSONHandler(os.Stdout, nil))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}

// WithLogger returns a context carrying the given logger.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// FromCtx retrieves the context-scoped logger, falling back to the default
// logger when none was attached.
func FromCtx(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(loggerKey).(*slog.Logger); ok {
		return logger
	}
	return slog.Default()
}
