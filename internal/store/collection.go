package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// MaxUpdateAttempts bounds the optimistic retry loop in Collection.Update.
const MaxUpdateAttempts = 8

// Collection is a JSON-encoded list of records stored under one key.
type Collection[T any] struct {
	kv        KV
	key       string
	normalize func(*T)
	log       *zap.Logger
}

// NewCollection binds a collection to key. normalize may be nil.
func NewCollection[T any](kv KV, key string, normalize func(*T), log *zap.Logger) *Collection[T] {
	return &Collection[T]{kv: kv, key: key, normalize: normalize, log: log}
}

// Key returns the backing key.
func (c *Collection[T]) Key() string { return c.key }

// Load returns the records and the collection revision. Absent or malformed
// data reads as an empty collection.
func (c *Collection[T]) Load(ctx context.Context) ([]T, int64, error) {
	raw, version, found, err := c.kv.Get(ctx, c.key)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to load %s: %w", c.key, err)
	}
	if !found {
		return []T{}, 0, nil
	}
	return c.decode(raw), version, nil
}

// Update applies fn to the current records and writes the result back if fn
// reports a change. Lost races are retried against the fresh state. It returns
// the revision after the call and whether a write happened.
func (c *Collection[T]) Update(ctx context.Context, fn func([]T) ([]T, bool)) (int64, bool, error) {
	for attempt := 1; attempt <= MaxUpdateAttempts; attempt++ {
		items, version, err := c.Load(ctx)
		if err != nil {
			return 0, false, err
		}

		next, changed := fn(items)
		if !changed {
			return version, false, nil
		}

		data, err := json.Marshal(next)
		if err != nil {
			return 0, false, fmt.Errorf("failed to encode %s: %w", c.key, err)
		}

		newVersion, err := c.kv.CompareAndSet(ctx, c.key, data, version)
		if errors.Is(err, ErrVersionConflict) {
			c.log.Debug("update lost race, retrying",
				zap.String("key", c.key), zap.Int("attempt", attempt))
			continue
		}
		if err != nil {
			return 0, false, fmt.Errorf("failed to save %s: %w", c.key, err)
		}
		return newVersion, true, nil
	}

	c.log.Warn("update gave up after repeated conflicts", zap.String("key", c.key))
	return 0, false, ErrConflict
}

// Seed writes items only when the key does not exist yet.
func (c *Collection[T]) Seed(ctx context.Context, items []T) (bool, error) {
	data, err := json.Marshal(items)
	if err != nil {
		return false, fmt.Errorf("failed to encode seed for %s: %w", c.key, err)
	}
	_, err = c.kv.CompareAndSet(ctx, c.key, data, 0)
	if errors.Is(err, ErrVersionConflict) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to seed %s: %w", c.key, err)
	}
	return true, nil
}

func (c *Collection[T]) decode(raw []byte) []T {
	var items []T
	if err := json.Unmarshal(raw, &items); err != nil {
		c.log.Warn("malformed collection, reading as empty",
			zap.String("key", c.key), zap.Error(err))
		return []T{}
	}
	if items == nil {
		return []T{}
	}
	if c.normalize != nil {
		for i := range items {
			c.normalize(&items[i])
		}
	}
	return items
}
