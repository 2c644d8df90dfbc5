// Package sqlite persists store records in a SQLite database, so
// preferences and history survive process restarts.
package sqlite

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// KV is a string key/value substrate backed by SQLite.
type KV struct {
	db *sql.DB
}

const createTable = `
CREATE TABLE IF NOT EXISTS kv_records (
	key TEXT PRIMARY KEY,
	value TEXT NOT NULL,
	updated_at DATETIME NOT NULL DEFAULT (datetime('now'))
);
`

// Open opens (creating if needed) the database at path.
func Open(path string) (*KV, error) {
	db, err := sql.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open store db: %w", err)
	}

	if _, err := db.Exec(createTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate store db: %w", err)
	}

	return &KV{db: db}, nil
}

// Get returns the value stored under key, reporting presence.
func (k *KV) Get(key string) (string, bool, error) {
	var value string
	err := k.db.QueryRow(`SELECT value FROM kv_records WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("kv get: %w", err)
	}
	return value, true, nil
}

// Set stores value under key, replacing any previous value.
func (k *KV) Set(key, value string) error {
	_, err := k.db.Exec(
		`INSERT OR REPLACE INTO kv_records (key, value, updated_at) VALUES (?, ?, datetime('now'))`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("kv set: %w", err)
	}
	return nil
}

// Remove deletes the record under key. Removing an absent key is a
// no-op.
func (k *KV) Remove(key string) error {
	if _, err := k.db.Exec(`DELETE FROM kv_records WHERE key = ?`, key); err != nil {
		return fmt.Errorf("kv remove: %w", err)
	}
	return nil
}

// Keys returns every stored key.
func (k *KV) Keys() ([]string, error) {
	rows, err := k.db.Query(`SELECT key FROM kv_records ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("kv keys: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("kv keys: %w", err)
		}
		keys = append(keys, key)
	}
	return keys, rows.Err()
}

// Close releases the database connection.
func (k *KV) Close() error {
	return k.db.Close()
}
