package credstore

import (
	"context"

	"github.com/carTloyal123/shoppi/internal/logging"
)

// StorageError describes a failed store operation.
type StorageError struct {
	Op  string
	Key string
	Err error
}

func (e *StorageError) Error() string {
	return "storage " + e.Op + "[" + e.Key + "]: " + e.Err.Error()
}

func (e *StorageError) Unwrap() error { return e.Err }

// SafeStore never reports failures to its caller. A failed Get reads as
// absent, failed Put and Delete are only logged.
type SafeStore struct {
	inner  Store
	logger logging.Logger
}

func NewSafeStore(inner Store, l logging.Logger) *SafeStore {
	return &SafeStore{inner: inner, logger: l.With("module", "credstore")}
}

func (s *SafeStore) Get(ctx context.Context, key string) []byte {
	v, err := s.inner.Get(ctx, key)
	if err != nil {
		s.report(ctx, &StorageError{Op: "get", Key: key, Err: err})
		return nil
	}
	return v
}

func (s *SafeStore) Put(ctx context.Context, key string, value []byte) {
	if err := s.inner.Put(ctx, key, value); err != nil {
		s.report(ctx, &StorageError{Op: "put", Key: key, Err: err})
	}
}

func (s *SafeStore) Delete(ctx context.Context, key string) {
	if err := s.inner.Delete(ctx, key); err != nil {
		s.report(ctx, &StorageError{Op: "delete", Key: key, Err: err})
	}
}

func (s *SafeStore) report(ctx context.Context, err *StorageError) {
	s.logger.Warn(ctx, "local storage failure ignored", "op", err.Op, "key", err.Key, "error", err.Err)
}
