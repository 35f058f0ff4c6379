// Package logging defines the structured-logging contract used across
// the server. The rest of the code depends on the Logger interface, not
// on a concrete backend; slog is the backend we ship.
package logging

import "context"

// Logger is a context-aware, structured logger. The variadic args are
// alternating key-value pairs:
//
//	log.Info(ctx, "purge finished", "purged", n)
type Logger interface {
	// Info logs an informational message.
	Info(ctx context.Context, msg string, args ...any)

	// Warn logs unusual but non-fatal conditions.
	Warn(ctx context.Context, msg string, args ...any)

	// Error logs failures.
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger that always carries the given
	// key-value pairs.
	With(args ...any) Logger
}
