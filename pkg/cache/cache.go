// Package cache provides a generic, thread-safe LRU cache with optional
// per-entry TTL. Statistics are always collected; Prometheus metrics are
// optional via functional options.
package cache

import (
	"errors"
)

// ErrEmptyKey rejects the empty string as a cache key.
var ErrEmptyKey = errors.New("cache key cannot be empty")

// Cache represents a generic cache interface parameterized by value type V.
type Cache[V any] interface {
	// Get retrieves a value by key. Returns the value and true if found,
	// zero value and false otherwise. Expired entries count as misses.
	Get(key string) (V, bool)

	// Set stores a value with the given key. Returns true if a new entry
	// was created, false if an existing one was updated.
	Set(key string, value V) (bool, error)

	// Delete removes an entry by key. Returns true if the key existed.
	Delete(key string) bool

	// Clear removes all entries.
	Clear()

	// Size returns the current number of entries.
	Size() int

	// Keys returns all keys, most recently used first.
	Keys() []string

	// Stats returns the cache statistics.
	Stats() *Statistics
}

// EvictCallback is called with the key and value of an evicted entry.
type EvictCallback[V any] func(key string, value V)
