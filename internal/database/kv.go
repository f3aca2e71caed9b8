package database

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// KVRepository provides access to the kv_entries table backing the
// persisted-collection store. Values are opaque serialized text.
type KVRepository struct {
	conn *sql.DB
}

// NewKVRepository creates a repository over an open connection.
func NewKVRepository(conn *sql.DB) *KVRepository {
	return &KVRepository{conn: conn}
}

// Get returns the value stored under key and whether the key exists.
func (r *KVRepository) Get(key string) (string, bool, error) {
	var value string
	err := r.conn.QueryRow("SELECT value FROM kv_entries WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("query kv entry: %w", err)
	}
	return value, true, nil
}

// Set inserts or replaces the value stored under key.
func (r *KVRepository) Set(key, value string) error {
	_, err := r.conn.Exec(
		`INSERT INTO kv_entries (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("upsert kv entry: %w", err)
	}
	return nil
}

// Delete removes the entry stored under key. Deleting a missing key is not an error.
func (r *KVRepository) Delete(key string) error {
	if _, err := r.conn.Exec("DELETE FROM kv_entries WHERE key = ?", key); err != nil {
		return fmt.Errorf("delete kv entry: %w", err)
	}
	return nil
}

// Keys returns all keys starting with the given prefix.
func (r *KVRepository) Keys(prefix string) ([]string, error) {
	// Escape LIKE metacharacters so prefixes containing _ or % match literally.
	escaped := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(prefix)
	rows, err := r.conn.Query(`SELECT key FROM kv_entries WHERE key LIKE ? ESCAPE '\' ORDER BY key`, escaped+"%")
	if err != nil {
		return nil, fmt.Errorf("list kv keys: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("scan kv key: %w", err)
		}
		keys = append(keys, key)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate kv keys: %w", err)
	}
	return keys, nil
}
