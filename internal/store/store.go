// Package store persists screen-config documents. The interpreter core is
// agnostic to where a config string comes from; this package supplies the
// sqlite-backed cache and the HTTP fetcher the binaries wire in.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a screen id has no stored config.
var ErrNotFound = errors.New("screen config not found")

// ScreenInfo summarizes one stored config.
type ScreenInfo struct {
	ScreenID  string    `json:"screenId"`
	Version   string    `json:"version"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Store is a sqlite-backed screen-config cache.
type Store struct {
	db *sql.DB
}

// Open opens (and if needed initializes) a store at the given sqlite DSN.
func Open(ctx context.Context, dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}
	db.SetMaxOpenConns(1)

	const schema = `
CREATE TABLE IF NOT EXISTS screen_configs (
	screen_id  TEXT PRIMARY KEY,
	version    TEXT NOT NULL,
	config     TEXT NOT NULL,
	updated_at TEXT NOT NULL
)`
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating screen_configs table: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error { return s.db.Close() }

// Get returns the stored config document for a screen id.
func (s *Store) Get(ctx context.Context, screenID string) ([]byte, error) {
	var config string
	err := s.db.QueryRowContext(ctx,
		`SELECT config FROM screen_configs WHERE screen_id = ?`, screenID).Scan(&config)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("reading config for %s: %w", screenID, err)
	}
	return []byte(config), nil
}

// Put stores or replaces the config document for a screen id.
func (s *Store) Put(ctx context.Context, screenID, version string, config []byte) error {
	_, err := s.db.ExecContext(ctx, `
INSERT INTO screen_configs (screen_id, version, config, updated_at)
VALUES (?, ?, ?, ?)
ON CONFLICT(screen_id) DO UPDATE SET
	version = excluded.version,
	config = excluded.config,
	updated_at = excluded.updated_at`,
		screenID, version, string(config), time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("storing config for %s: %w", screenID, err)
	}
	return nil
}

// Delete removes a stored config. Deleting an unknown id is a no-op.
func (s *Store) Delete(ctx context.Context, screenID string) error {
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM screen_configs WHERE screen_id = ?`, screenID); err != nil {
		return fmt.Errorf("deleting config for %s: %w", screenID, err)
	}
	return nil
}

// List returns summaries of every stored config, newest first.
func (s *Store) List(ctx context.Context) ([]ScreenInfo, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT screen_id, version, updated_at FROM screen_configs ORDER BY updated_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing configs: %w", err)
	}
	defer rows.Close()

	var out []ScreenInfo
	for rows.Next() {
		var info ScreenInfo
		var updated string
		if err := rows.Scan(&info.ScreenID, &info.Version, &updated); err != nil {
			return nil, fmt.Errorf("scanning config row: %w", err)
		}
		if t, parseErr := time.Parse(time.RFC3339Nano, updated); parseErr == nil {
			info.UpdatedAt = t
		}
		out = append(out, info)
	}
	return out, rows.Err()
}
