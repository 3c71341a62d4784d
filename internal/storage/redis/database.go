package redis

import (
	"context"
	"encoding/json"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"kvstore/internal/storage"
)

// Database owns the Redis client handle and the default expiration applied
// to every write. It is created once at startup and safely shared read-only
// across concurrent callers; each operation acquires its own connection.
type Database struct {
	client *goredis.Client
	ttl    time.Duration
}

// New builds a Database from a connection URL
// (redis://[:password@]host:port[/db]) and a default TTL.
// It fails only if the URL cannot be parsed into a client handle;
// server reachability is deferred to first use.
func New(url string, ttl time.Duration) (*Database, error) {
	opts, err := goredis.ParseURL(url)
	if err != nil {
		return nil, storage.NewConnectionError(err.Error())
	}
	return &Database{client: goredis.NewClient(opts), ttl: ttl}, nil
}

// Ping verifies the server is reachable
func (d *Database) Ping(ctx context.Context) error {
	if err := d.client.Ping(ctx).Err(); err != nil {
		return storage.NewConnectionError(err.Error())
	}
	return nil
}

// Close releases the client and its connections
func (d *Database) Close() error {
	return d.client.Close()
}

// Table is a typed view over a shared Database. Many tables with distinct
// key and value types can sit on one Database; nothing prevents two tables
// from producing the same string key, so callers that need isolation prefix
// their keys.
type Table[K storage.Key, V any] struct {
	exec commandExecutor
	ttl  time.Duration
}

// NewTable creates a typed table backed by db
func NewTable[K storage.Key, V any](db *Database) *Table[K, V] {
	return &Table[K, V]{exec: db, ttl: db.ttl}
}

var _ storage.Store[string, any] = (*Table[string, any])(nil)

// Get retrieves and decodes the value stored under key.
// Returns nil when the key is absent.
func (t *Table[K, V]) Get(ctx context.Context, key K) (*V, error) {
	k := string(key)
	data, ok, err := t.exec.execString(ctx, getCommand(k))
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	return decode[V](k, data)
}

// Exists reports whether a value is stored under key
func (t *Table[K, V]) Exists(ctx context.Context, key K) (bool, error) {
	return t.exec.execBool(ctx, existsCommand(string(key)))
}

// Insert encodes value, stores it under key with the default TTL, and
// returns the previous value. The server applies the write and hands back
// the prior value in one atomic command, so the previous value is exact
// even under concurrent writers.
func (t *Table[K, V]) Insert(ctx context.Context, key K, value V) (*V, error) {
	k := string(key)
	data, err := json.Marshal(value)
	if err != nil {
		return nil, storage.NewSerializeError(k, err.Error())
	}
	prev, ok, err := t.exec.execString(ctx, setCommand(k, string(data), t.ttl))
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	return decode[V](k, prev)
}

// Remove deletes the value stored under key and returns it, again in one
// atomic command. Removing an absent key yields nil without error.
func (t *Table[K, V]) Remove(ctx context.Context, key K) (*V, error) {
	k := string(key)
	prev, ok, err := t.exec.execString(ctx, deleteCommand(k))
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	return decode[V](k, prev)
}

// TTL returns the remaining lifetime of key as reported by the server in
// whole seconds. Server sentinels (-1 no expiry, -2 no key) come through
// unchanged as negative durations.
func (t *Table[K, V]) TTL(ctx context.Context, key K) (time.Duration, error) {
	seconds, err := t.exec.execInt(ctx, ttlCommand(string(key)))
	if err != nil {
		return 0, err
	}
	return time.Duration(seconds) * time.Second, nil
}

func decode[V any](key, data string) (*V, error) {
	var value V
	if err := json.Unmarshal([]byte(data), &value); err != nil {
		return nil, storage.NewDeserializeError(key, err.Error())
	}
	return &value, nil
}
