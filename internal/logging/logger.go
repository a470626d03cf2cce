// Package logging defines the structured logging contract used throughout
// the server. Services depend on the Logger interface, not on a concrete
// backend, so the implementation can be swapped without touching them.
package logging

import "context"

// Logger is a context-aware, structured logger. The variadic args are
// alternating key-value pairs, as in log/slog:
//
//	log.Info(ctx, "listening", "addr", addr)
type Logger interface {
	Debug(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger that always includes the given key-value
	// pairs.
	With(args ...any) Logger
}
