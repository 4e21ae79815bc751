package repository

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed kv_schema.sql
var kvSchemaSQL string

// KVStore is a device-local SQLite store that keeps each logical table as one
// JSON array under a fixed key.
type KVStore struct {
	db *sql.DB
	mu sync.Mutex
}

// OpenKVStore opens or creates the store at path.
func OpenKVStore(path string) (*KVStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}
	// Each key is rewritten as a whole; one connection serializes writers.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(kvSchemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}
	return &KVStore{db: db}, nil
}

func (s *KVStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *KVStore) Close() error {
	return s.db.Close()
}

// Get returns the raw value stored under key, or nil when the key is absent.
func (s *KVStore) Get(ctx context.Context, key string) ([]byte, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv_store WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return []byte(value), nil
}

// Put replaces the value stored under key.
func (s *KVStore) Put(ctx context.Context, key string, value []byte) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO kv_store (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, key, string(value))
	return err
}

// loadArray decodes the array under key. A missing key yields an empty slice.
// Callers hold s.mu.
func loadArray[T any](ctx context.Context, s *KVStore, key string) ([]T, error) {
	raw, err := s.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	var list []T
	if err := decodeKey(raw, &list); err != nil {
		return nil, fmt.Errorf("decode %s: %w", key, err)
	}
	return list, nil
}

// storeArray encodes list under key. Callers hold s.mu.
func storeArray[T any](ctx context.Context, s *KVStore, key string, list []T) error {
	if list == nil {
		list = []T{}
	}
	b, err := json.Marshal(list)
	if err != nil {
		return err
	}
	return s.Put(ctx, key, b)
}
