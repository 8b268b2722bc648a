package credstore

import (
	"context"
	"fmt"

	"github.com/carTloyal123/shoppi/internal/cryptox"
)

// SealedStore encrypts values with AES-GCM before handing them to the
// wrapped Store. Keys are stored in the clear.
type SealedStore struct {
	inner Store
	key   []byte
}

func NewSealedStore(inner Store, key []byte) *SealedStore {
	return &SealedStore{inner: inner, key: key}
}

func (s *SealedStore) Get(ctx context.Context, key string) ([]byte, error) {
	sealed, err := s.inner.Get(ctx, key)
	if err != nil || sealed == nil {
		return nil, err
	}
	v, err := cryptox.Open(sealed, s.key)
	if err != nil {
		return nil, fmt.Errorf("failed to open sealed value[%s]: %w", key, err)
	}
	return v, nil
}

func (s *SealedStore) Put(ctx context.Context, key string, value []byte) error {
	sealed, err := cryptox.Seal(value, s.key)
	if err != nil {
		return fmt.Errorf("failed to seal value[%s]: %w", key, err)
	}
	return s.inner.Put(ctx, key, sealed)
}

func (s *SealedStore) Delete(ctx context.Context, key string) error {
	return s.inner.Delete(ctx, key)
}
