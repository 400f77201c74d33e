package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

const kvSchema = `
CREATE TABLE IF NOT EXISTS kv_store (
	key        TEXT PRIMARY KEY,
	value      TEXT NOT NULL,
	version    BIGINT NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

type kvRow struct {
	Value   string `db:"value"`
	Version int64  `db:"version"`
}

// PostgresKV stores keys as rows of kv_store with an optimistic version column.
type PostgresKV struct {
	db *sqlx.DB
}

// NewPostgresKV wraps an open connection. The caller owns the connection.
func NewPostgresKV(db *sqlx.DB) *PostgresKV {
	return &PostgresKV{db: db}
}

// EnsureSchema creates the kv_store table if missing.
func (s *PostgresKV) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, kvSchema); err != nil {
		return fmt.Errorf("failed to create kv_store: %w", err)
	}
	return nil
}

func (s *PostgresKV) Get(ctx context.Context, key string) ([]byte, int64, bool, error) {
	var row kvRow
	err := s.db.GetContext(ctx, &row, `SELECT value, version FROM kv_store WHERE key = $1`, key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, 0, false, nil
	}
	if err != nil {
		return nil, 0, false, fmt.Errorf("failed to get %s: %w", key, err)
	}
	return []byte(row.Value), row.Version, true, nil
}

func (s *PostgresKV) CompareAndSet(ctx context.Context, key string, value []byte, expectedVersion int64) (int64, error) {
	var (
		res sql.Result
		err error
	)
	if expectedVersion == 0 {
		res, err = s.db.ExecContext(ctx, `
			INSERT INTO kv_store (key, value, version)
			VALUES ($1, $2, 1)
			ON CONFLICT (key) DO NOTHING`, key, string(value))
	} else {
		res, err = s.db.ExecContext(ctx, `
			UPDATE kv_store
			SET value = $2, version = version + 1, updated_at = NOW()
			WHERE key = $1 AND version = $3`, key, string(value), expectedVersion)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to write %s: %w", key, err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to write %s: %w", key, err)
	}
	if rows == 0 {
		return 0, ErrVersionConflict
	}
	return expectedVersion + 1, nil
}

func (s *PostgresKV) Put(ctx context.Context, key string, value []byte) (int64, error) {
	var version int64
	err := s.db.QueryRowxContext(ctx, `
		INSERT INTO kv_store (key, value, version)
		VALUES ($1, $2, 1)
		ON CONFLICT (key) DO UPDATE
		SET value = EXCLUDED.value, version = kv_store.version + 1, updated_at = NOW()
		RETURNING version`, key, string(value)).Scan(&version)
	if err != nil {
		return 0, fmt.Errorf("failed to write %s: %w", key, err)
	}
	return version, nil
}

func (s *PostgresKV) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM kv_store WHERE key = $1`, key); err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

// Close is a no-op; the connection is closed by its owner.
func (s *PostgresKV) Close() error { return nil }
