// Package logger provides structured logging for LiveWatch.
package logger

import "context"

// contextKey is a type for context keys to avoid collisions.
type contextKey string

const (
	// loggerKey is the context key for the logger.
	loggerKey contextKey = "livewatch.logger"
	// runIDKey is the context key for the recording run ID.
	runIDKey contextKey = "livewatch.run_id"
	// liveIDKey is the context key for the watched live ID.
	liveIDKey contextKey = "livewatch.live_id"
)

// WithLogger adds a logger to the context.
func WithLogger(ctx context.Context, l Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// FromContext extracts the logger from context.
// Returns the default logger if none is set.
func FromContext(ctx context.Context) Logger {
	if l, ok := ctx.Value(loggerKey).(Logger); ok {
		return l
	}
	return Default()
}

// WithRunID adds a recording run ID to the context.
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, runIDKey, runID)
}

// RunIDFromContext extracts the recording run ID from context.
func RunIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(runIDKey).(string); ok {
		return id
	}
	return ""
}

// WithLiveID adds the watched live ID to the context.
func WithLiveID(ctx context.Context, liveID string) context.Context {
	return context.WithValue(ctx, liveIDKey, liveID)
}

// LiveIDFromContext extracts the watched live ID from context.
func LiveIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(liveIDKey).(string); ok {
		return id
	}
	return ""
}

// L is a shorthand for FromContext that also enriches the logger
// with the run ID and live ID from the context.
func L(ctx context.Context) Logger {
	l := FromContext(ctx)

	// Add run ID if present
	if runID := RunIDFromContext(ctx); runID != "" {
		l = l.With("run_id", runID)
	}

	// Add live ID if present
	if liveID := LiveIDFromContext(ctx); liveID != "" {
		l = l.With("live_id", liveID)
	}

	return l
}
