package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"kvstore/internal/storage"
)

// Entry is the row shape for stored values: one string value per key with
// an absolute expiry. Expired rows are treated as absent on read and swept
// lazily by the writes that replace them.
type Entry struct {
	Key       string    `gorm:"primaryKey;size:512"`
	Value     string    `gorm:"not null;type:text"`
	ExpiresAt time.Time `gorm:"not null;index"`
}

// TableName specifies the table name for GORM
func (Entry) TableName() string {
	return "entries"
}

// Database adapts a relational database to the storage contracts. Unlike
// the Redis backend there is no single-statement primitive that writes and
// returns the prior value, so Insert and Remove read before writing; under
// concurrent writers the reported previous value reflects each call's own
// read, not a serialized history.
type Database struct {
	db  *gorm.DB
	ttl time.Duration
}

// New prepares the schema and returns a Database applying ttl to every write
func New(db *gorm.DB, ttl time.Duration) (*Database, error) {
	if err := db.AutoMigrate(&Entry{}); err != nil {
		return nil, storage.NewConnectionError(err.Error())
	}
	return &Database{db: db, ttl: ttl}, nil
}

// Table is a typed view over a shared Database
type Table[K storage.Key, V any] struct {
	db *Database
}

// NewTable creates a typed table backed by db
func NewTable[K storage.Key, V any](db *Database) *Table[K, V] {
	return &Table[K, V]{db: db}
}

var _ storage.Store[string, any] = (*Table[string, any])(nil)

// Get retrieves and decodes the value stored under key.
// Returns nil when the key is absent or its row has expired.
func (t *Table[K, V]) Get(ctx context.Context, key K) (*V, error) {
	k := string(key)
	entry, err := t.db.live(ctx, k)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, nil
	}
	var value V
	if err := json.Unmarshal([]byte(entry.Value), &value); err != nil {
		return nil, storage.NewDeserializeError(k, err.Error())
	}
	return &value, nil
}

// Exists reports whether an unexpired value is stored under key
func (t *Table[K, V]) Exists(ctx context.Context, key K) (bool, error) {
	var count int64
	result := t.db.db.WithContext(ctx).
		Model(&Entry{}).
		Where("key = ? AND expires_at > ?", string(key), time.Now()).
		Count(&count)
	if result.Error != nil {
		return false, queryError(result.Error)
	}
	return count > 0, nil
}

// Insert encodes value and upserts it under key with a fresh expiry,
// returning the previous value captured by a read issued just before the
// write. The read and write are separate statements; see Database.
func (t *Table[K, V]) Insert(ctx context.Context, key K, value V) (*V, error) {
	k := string(key)
	previous, err := t.Get(ctx, key)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(value)
	if err != nil {
		return nil, storage.NewSerializeError(k, err.Error())
	}

	entry := Entry{Key: k, Value: string(data), ExpiresAt: time.Now().Add(t.db.ttl)}
	result := t.db.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "expires_at"}),
	}).Create(&entry)
	if result.Error != nil {
		return nil, queryError(result.Error)
	}
	return previous, nil
}

// Remove deletes the value stored under key and returns it.
// Removing an absent key yields nil without error.
func (t *Table[K, V]) Remove(ctx context.Context, key K) (*V, error) {
	previous, err := t.Get(ctx, key)
	if err != nil {
		return nil, err
	}

	result := t.db.db.WithContext(ctx).
		Where("key = ?", string(key)).
		Delete(&Entry{})
	if result.Error != nil {
		return nil, queryError(result.Error)
	}
	return previous, nil
}

// TTL returns the remaining lifetime of key in whole seconds. A missing or
// expired key yields the same -2s sentinel the Redis backend surfaces, so
// callers see one contract across backends.
func (t *Table[K, V]) TTL(ctx context.Context, key K) (time.Duration, error) {
	entry, err := t.db.live(ctx, string(key))
	if err != nil {
		return 0, err
	}
	if entry == nil {
		return -2 * time.Second, nil
	}
	return time.Until(entry.ExpiresAt).Truncate(time.Second), nil
}

// live fetches the unexpired row for key, nil if none
func (d *Database) live(ctx context.Context, key string) (*Entry, error) {
	var entry Entry
	result := d.db.WithContext(ctx).
		Where("key = ? AND expires_at > ?", key, time.Now()).
		First(&entry)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, queryError(result.Error)
	}
	return &entry, nil
}

// queryError maps a driver error to the storage taxonomy, flattening it to
// a message string
func queryError(err error) error {
	var netErr net.Error
	if errors.As(err, &netErr) ||
		errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, context.Canceled) {
		return storage.NewConnectionError(err.Error())
	}
	return storage.NewQueryError(err.Error())
}
