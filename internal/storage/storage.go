package storage

import (
	"context"
	"time"
)

// Key constrains table key types to those with an underlying string form.
// Callers define a named string type per logical collection (e.g.
// `type SessionID string`) so distinct collections stay type-separated even
// though they share one physical store. The abstraction does not enforce
// namespace isolation - two key types may produce colliding strings, and
// avoiding that (usually by prefixing) is the caller's responsibility.
type Key interface {
	~string
}

// Reader provides read access to a logical collection.
// This abstraction allows swapping storage backends (Redis, Postgres, in-memory)
// without changing the code that depends on it.
type Reader[K Key, V any] interface {
	// Get retrieves the value stored under key.
	// Returns nil when the key is absent. A stored value that cannot be
	// decoded into V is a Deserialize error, never treated as absent.
	Get(ctx context.Context, key K) (*V, error)

	// Exists reports whether a value is stored under key.
	Exists(ctx context.Context, key K) (bool, error)
}

// Writer provides write access to a logical collection.
type Writer[K Key, V any] interface {
	// Insert stores value under key with the backend's configured TTL and
	// returns the value previously stored there, nil if there was none.
	Insert(ctx context.Context, key K, value V) (*V, error)

	// Remove deletes the value stored under key and returns it,
	// nil if the key was absent. Removing an absent key is not an error.
	Remove(ctx context.Context, key K) (*V, error)
}

// Temporal exposes the remaining lifetime of stored values.
type Temporal[K Key] interface {
	// TTL returns the remaining time-to-live for key, derived from the whole
	// seconds reported by the backend. Backend sentinels for a missing key or
	// a non-expiring one are surfaced unchanged as negative durations.
	TTL(ctx context.Context, key K) (time.Duration, error)
}

// Store combines the read, write, and temporal capabilities over one
// logical collection.
type Store[K Key, V any] interface {
	Reader[K, V]
	Writer[K, V]
	Temporal[K]
}
