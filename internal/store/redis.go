package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"
)

const (
	fieldValue   = "value"
	fieldVersion = "version"
)

// RedisKV stores each key as a hash {value, version}. Conditional writes use
// WATCH/MULTI so concurrent writers on other instances are detected.
type RedisKV struct {
	client *redis.Client
}

// NewRedisKV wraps an existing client. The caller owns the client.
func NewRedisKV(client *redis.Client) *RedisKV {
	return &RedisKV{client: client}
}

func (s *RedisKV) Get(ctx context.Context, key string) ([]byte, int64, bool, error) {
	vals, err := s.client.HMGet(ctx, key, fieldValue, fieldVersion).Result()
	if err != nil {
		return nil, 0, false, fmt.Errorf("failed to get %s: %w", key, err)
	}
	if len(vals) != 2 || vals[0] == nil || vals[1] == nil {
		return nil, 0, false, nil
	}

	value, _ := vals[0].(string)
	versionStr, _ := vals[1].(string)
	version, err := strconv.ParseInt(versionStr, 10, 64)
	if err != nil {
		return nil, 0, false, fmt.Errorf("failed to parse version of %s: %w", key, err)
	}
	return []byte(value), version, true, nil
}

func (s *RedisKV) CompareAndSet(ctx context.Context, key string, value []byte, expectedVersion int64) (int64, error) {
	var next int64

	txf := func(tx *redis.Tx) error {
		current, err := tx.HGet(ctx, key, fieldVersion).Int64()
		if errors.Is(err, redis.Nil) {
			current = 0
		} else if err != nil {
			return err
		}
		if current != expectedVersion {
			return ErrVersionConflict
		}

		next = current + 1
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, key, fieldValue, value, fieldVersion, next)
			return nil
		})
		return err
	}

	err := s.client.Watch(ctx, txf, key)
	if errors.Is(err, ErrVersionConflict) || errors.Is(err, redis.TxFailedErr) {
		return 0, ErrVersionConflict
	}
	if err != nil {
		return 0, fmt.Errorf("failed to write %s: %w", key, err)
	}
	return next, nil
}

func (s *RedisKV) Put(ctx context.Context, key string, value []byte) (int64, error) {
	var incr *redis.IntCmd
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key, fieldValue, value)
		incr = pipe.HIncrBy(ctx, key, fieldVersion, 1)
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to write %s: %w", key, err)
	}
	return incr.Val(), nil
}

func (s *RedisKV) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

// Close is a no-op; the shared client is closed by its owner.
func (s *RedisKV) Close() error { return nil }
