package credstore

import (
	"context"

	"github.com/carTloyal123/shoppi/internal/filex"
	"github.com/carTloyal123/shoppi/internal/logging"
)

// Options selects the backing store.
type Options struct {
	// Path of the SQLite file. Empty means memory only.
	Path string
	// Key seals values when set. Must be 16, 24 or 32 bytes.
	Key []byte
}

// Open returns the best Store available for opts and a function that
// releases it. It never fails: if the file cannot be opened the values are
// kept in memory and a warning is logged.
func Open(ctx context.Context, opts Options, l logging.Logger) (Store, func() error) {
	l = l.With("module", "credstore")

	if opts.Path == "" {
		l.Info(ctx, "no store path configured, using memory store")
		return NewMemoryStore(), func() error { return nil }
	}

	if err := filex.EnsureParentDir(opts.Path); err != nil {
		l.Warn(ctx, "local store unavailable, using memory store", "path", opts.Path, "error", err)
		return NewMemoryStore(), func() error { return nil }
	}

	db, err := OpenDatabase(ctx, opts.Path)
	if err != nil {
		l.Warn(ctx, "local store unavailable, using memory store", "path", opts.Path, "error", err)
		return NewMemoryStore(), func() error { return nil }
	}

	var s Store = NewSQLiteStore(db)
	if len(opts.Key) > 0 {
		s = NewSealedStore(s, opts.Key)
		l.Debug(ctx, "opened sealed sqlite store", "path", opts.Path)
	} else {
		l.Debug(ctx, "opened sqlite store", "path", opts.Path)
	}
	return s, db.Close
}
