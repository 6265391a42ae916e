// Package logging is the structured logger shared by the gastrolog client
// and server. SlogLogger is the only implementation.
package logging

import "context"

// Logger writes leveled records with key/value attributes. The context is
// handed to the underlying slog handler.
//
//	log.Info(ctx, "logs saved", "user", userID, "count", n)
type Logger interface {
	Debug(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)

	// With returns a logger that adds args to every record.
	With(args ...any) Logger
}

// ComponentKey is the attribute naming the part of gastrolog that logged
// a record (syncengine, localstore, httpapi ...).
const ComponentKey = "component"

// Component tags l with the component name.
func Component(l Logger, name string) Logger {
	return l.With(ComponentKey, name)
}
