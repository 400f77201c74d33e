package store

import (
	"context"
	"errors"
)

var (
	// ErrVersionConflict is returned by CompareAndSet when the stored version moved.
	ErrVersionConflict = errors.New("version conflict")

	// ErrConflict is returned when an update keeps losing the compare-and-set race.
	ErrConflict = errors.New("too many concurrent updates")
)

// KV is a versioned key-value backend. Every successful write bumps the key's
// version by one; version 0 means the key does not exist.
type KV interface {
	// Get returns the stored value and its version. found is false for absent keys.
	Get(ctx context.Context, key string) (value []byte, version int64, found bool, err error)

	// CompareAndSet writes value only if the current version equals expectedVersion
	// (0 = key must be absent) and returns the new version.
	CompareAndSet(ctx context.Context, key string, value []byte, expectedVersion int64) (int64, error)

	// Put writes value unconditionally and returns the new version.
	Put(ctx context.Context, key string, value []byte) (int64, error)

	Delete(ctx context.Context, key string) error
	Close() error
}
