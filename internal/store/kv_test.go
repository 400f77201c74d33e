package store

import (
	"context"
	"os"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// SHARED CONTRACT
// =============================================================================
//
// Every backend must behave identically, so the same checks run against each.

func runKVContract(t *testing.T, kv KV) {
	ctx := context.Background()

	t.Run("absent key", func(t *testing.T) {
		_, version, found, err := kv.Get(ctx, "missing")
		require.NoError(t, err)
		assert.False(t, found)
		assert.Equal(t, int64(0), version)
	})

	t.Run("create then update", func(t *testing.T) {
		v1, err := kv.CompareAndSet(ctx, "k1", []byte("a"), 0)
		require.NoError(t, err)
		assert.Equal(t, int64(1), v1)

		v2, err := kv.CompareAndSet(ctx, "k1", []byte("b"), v1)
		require.NoError(t, err)
		assert.Equal(t, int64(2), v2)

		value, version, found, err := kv.Get(ctx, "k1")
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, "b", string(value))
		assert.Equal(t, int64(2), version)
	})

	t.Run("stale version is rejected", func(t *testing.T) {
		_, err := kv.CompareAndSet(ctx, "k2", []byte("a"), 0)
		require.NoError(t, err)

		_, err = kv.CompareAndSet(ctx, "k2", []byte("b"), 0)
		assert.ErrorIs(t, err, ErrVersionConflict)

		_, err = kv.CompareAndSet(ctx, "k2", []byte("b"), 7)
		assert.ErrorIs(t, err, ErrVersionConflict)
	})

	t.Run("put bumps version", func(t *testing.T) {
		v1, err := kv.Put(ctx, "k3", []byte("x"))
		require.NoError(t, err)
		v2, err := kv.Put(ctx, "k3", []byte("y"))
		require.NoError(t, err)
		assert.Equal(t, v1+1, v2)
	})

	t.Run("delete", func(t *testing.T) {
		_, err := kv.Put(ctx, "k4", []byte("x"))
		require.NoError(t, err)
		require.NoError(t, kv.Delete(ctx, "k4"))

		_, _, found, err := kv.Get(ctx, "k4")
		require.NoError(t, err)
		assert.False(t, found)
	})
}

func TestMemoryKV(t *testing.T) {
	runKVContract(t, NewMemoryKV())
}

func TestRedisKV(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	runKVContract(t, NewRedisKV(client))
}

func TestPostgresKV(t *testing.T) {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	db, err := sqlx.Connect("postgres", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	kv := NewPostgresKV(db)
	require.NoError(t, kv.EnsureSchema(context.Background()))
	_, err = db.Exec(`DELETE FROM kv_store WHERE key IN ('missing','k1','k2','k3','k4')`)
	require.NoError(t, err)

	runKVContract(t, kv)
}

func TestMemoryKV_ConcurrentCompareAndSet(t *testing.T) {
	kv := NewMemoryKV()
	ctx := context.Background()

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		winners int
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := kv.CompareAndSet(ctx, "race", []byte("v"), 0); err == nil {
				mu.Lock()
				winners++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, winners)
}
