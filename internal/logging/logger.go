// Package logging is the structured logger every shoppi component takes in
// its constructor. SlogLogger is the only implementation.
package logging

import "context"

// Logger takes a message plus alternating keys and values:
//
//	l.Info(ctx, "list created", "list_id", id, "group_id", groupID)
type Logger interface {
	Debug(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)

	// With returns a logger that adds args to every record, typically
	// With("module", "session").
	With(args ...any) Logger
}
