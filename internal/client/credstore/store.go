// Package credstore persists small opaque values (the serialized session
// record) on the local device.
//
// The concrete backend is picked by Open: an AES-GCM sealed SQLite file
// when a device key is configured, a plain SQLite file otherwise, and an
// in-memory map when no file can be used. Callers only see Store.
//
// SafeStore is the wrapper the session layer talks to: it logs and absorbs
// every storage failure so local persistence problems never block
// authentication.
package credstore

import "context"

// Store is a durable key/value store.
type Store interface {
	// Get returns (nil, nil) when key is absent.
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	// Delete is a no-op for an absent key.
	Delete(ctx context.Context, key string) error
}
