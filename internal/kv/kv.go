// Package kv defines the key-value contract behind saved analyses and
// preferences, with Redis and in-memory implementations. The SQLite
// store.Store satisfies it as well.
package kv

import "context"

// Store is a flat string-keyed byte store. Values are opaque; writes
// replace the whole value.
type Store interface {
	// Get returns the value for key and whether it exists.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Put replaces the value for key.
	Put(ctx context.Context, key string, value []byte) error
	// Delete removes key. Missing keys are not an error.
	Delete(ctx context.Context, key string) error
}
