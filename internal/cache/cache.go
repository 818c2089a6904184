// Package cache implements a persistent, content-addressed compile cache:
// a compiled unit is skipped on a subsequent run if its source hash and the
// enabled optimizer passes are unchanged since the last successful build.
// A single pure-Go sqlite connection in WAL mode, with a busy timeout and
// an idempotent schema, stores content-hash -> emitted-output rows, each
// tagged with the google/uuid build identifier stamped when the cache was
// opened.
package cache

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // pure-Go SQLite driver

	"github.com/outfield-lang/outfieldc/internal/config"
)

const schema = `
CREATE TABLE IF NOT EXISTS builds (
	id         TEXT PRIMARY KEY,
	started_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS compiled_units (
	key        TEXT PRIMARY KEY,
	output     TEXT NOT NULL,
	build_id   TEXT NOT NULL,
	updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

// Cache is a single-writer, pure-Go SQLite-backed compile cache.
type Cache struct {
	db      *sql.DB
	buildID string
}

// Open opens (or creates) a cache database at dbPath and stamps a fresh
// build id, the cache's unit of "this run" bookkeeping.
func Open(ctx context.Context, dbPath string) (*Cache, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("cache: open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("cache: enable WAL mode: %w", err)
	}
	if _, err := db.ExecContext(ctx, "PRAGMA busy_timeout=5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("cache: set busy timeout: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("cache: create schema: %w", err)
	}

	buildID := uuid.NewString()
	if _, err := db.ExecContext(ctx, "INSERT INTO builds (id) VALUES (?)", buildID); err != nil {
		db.Close()
		return nil, fmt.Errorf("cache: stamp build id: %w", err)
	}

	return &Cache{db: db, buildID: buildID}, nil
}

func (c *Cache) Close() error { return c.db.Close() }

// Key hashes a unit's source text together with its target and enabled
// optimizer passes: any of those changing invalidates the cached output.
func Key(unitName, source string, opts config.Options) string {
	h := sha256.New()
	fmt.Fprintf(h, "%s\x00%s\x00%d\x00%+v", unitName, source, opts.Target, opts.Enable)
	return hex.EncodeToString(h.Sum(nil))
}

// Lookup returns the cached output for key, if present.
func (c *Cache) Lookup(ctx context.Context, key string) (string, bool, error) {
	var output string
	err := c.db.QueryRowContext(ctx, "SELECT output FROM compiled_units WHERE key = ?", key).Scan(&output)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("cache: lookup %q: %w", key, err)
	}
	return output, true, nil
}

// Store upserts key's compiled output under the cache's current build id.
func (c *Cache) Store(ctx context.Context, key, output string) error {
	const q = `
		INSERT INTO compiled_units (key, output, build_id, updated_at)
		VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET output = excluded.output, build_id = excluded.build_id, updated_at = CURRENT_TIMESTAMP`
	if _, err := c.db.ExecContext(ctx, q, key, output, c.buildID); err != nil {
		return fmt.Errorf("cache: store %q: %w", key, err)
	}
	return nil
}

// Prune deletes cached entries whose last update is older than ttl.
func (c *Cache) Prune(ctx context.Context, ttl time.Duration) error {
	cutoff := time.Now().Add(-ttl)
	if _, err := c.db.ExecContext(ctx, "DELETE FROM compiled_units WHERE updated_at < ?", cutoff); err != nil {
		return fmt.Errorf("cache: prune: %w", err)
	}
	return nil
}
