// Package snapshot persists the last known state of each entity collection to
// a local sqlite file. It backs degraded mode when the remote document store
// is unreachable and is distinct from the first-run seed data.
package snapshot

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `CREATE TABLE IF NOT EXISTS snapshots (
	entity     TEXT PRIMARY KEY,
	data       BLOB NOT NULL,
	updated_at TEXT NOT NULL
);`

// Cache is a sqlite-backed key-value mirror keyed by entity name.
type Cache struct {
	db *sql.DB
}

// Open creates or opens the cache file and ensures the schema exists.
func Open(path string) (*Cache, error) {
	if path == "" {
		return nil, errors.New("snapshot cache path must not be empty")
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open snapshot cache: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init snapshot cache schema: %w", err)
	}

	return &Cache{db: db}, nil
}

// Load returns the stored snapshot for an entity, or nil when none exists.
func (c *Cache) Load(entity string) ([]byte, error) {
	var data []byte
	err := c.db.QueryRow(`SELECT data FROM snapshots WHERE entity = ?`, entity).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load snapshot for %s: %w", entity, err)
	}
	return data, nil
}

// Save upserts the snapshot for an entity.
func (c *Cache) Save(entity string, data []byte) error {
	_, err := c.db.Exec(
		`INSERT INTO snapshots (entity, data, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(entity) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		entity, data, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("save snapshot for %s: %w", entity, err)
	}
	return nil
}

// Close releases the underlying database handle.
func (c *Cache) Close() error {
	return c.db.Close()
}
