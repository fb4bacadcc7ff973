// Package kv defines the opaque key-value persistence boundary and its
// backends. Collections are stored as opaque strings under well-known keys;
// the store makes no transactional guarantees across keys.
package kv

import "context"

// Store provides string get/set access scoped to one installation.
type Store interface {
	// Get returns the value for key, or ErrKeyNotFound if absent.
	Get(ctx context.Context, key string) (string, error)

	// Set writes the value for key, overwriting any previous value.
	Set(ctx context.Context, key string, value string) error

	// Close releases backend resources.
	Close() error
}
