// Package history persists a log of completed downloads in SQLite.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"snapgrab/internal/media"
)

// Store is a SQLite-backed download log. It is safe for concurrent use;
// the pool is capped at one connection since SQLite allows one writer.
type Store struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS downloads (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	source_url  TEXT NOT NULL,
	platform    TEXT NOT NULL,
	media_type  TEXT NOT NULL,
	file        TEXT NOT NULL,
	saved_at    TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_downloads_saved_at ON downloads(saved_at);
`

// Open opens or creates the history database under dir.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("creating history dir: %w", err)
	}

	dbPath := filepath.Join(dir, "history.db")
	db, err := sql.Open("sqlite", dbPath+"?mode=rwc")
	if err != nil {
		return nil, fmt.Errorf("opening history db: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.ExecContext(context.Background(), schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating history schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Add records a completed download and returns its assigned ID.
func (s *Store) Add(ctx context.Context, e media.HistoryEntry) (int64, error) {
	savedAt := e.SavedAt
	if savedAt == "" {
		savedAt = time.Now().UTC().Format(time.RFC3339)
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO downloads (source_url, platform, media_type, file, saved_at) VALUES (?, ?, ?, ?, ?)`,
		e.SourceURL, e.Platform, string(e.Type), e.File, savedAt,
	)
	if err != nil {
		return 0, fmt.Errorf("recording download: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading inserted id: %w", err)
	}
	return id, nil
}

// List returns all recorded downloads, newest first.
func (s *Store) List(ctx context.Context) ([]media.HistoryEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, source_url, platform, media_type, file, saved_at FROM downloads ORDER BY id DESC`)
	if err != nil {
		return nil, fmt.Errorf("querying history: %w", err)
	}
	defer rows.Close()

	var entries []media.HistoryEntry
	for rows.Next() {
		var e media.HistoryEntry
		var mediaType string
		if err := rows.Scan(&e.ID, &e.SourceURL, &e.Platform, &mediaType, &e.File, &e.SavedAt); err != nil {
			return nil, fmt.Errorf("scanning history row: %w", err)
		}
		e.Type = media.Type(mediaType)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading history: %w", err)
	}

	return entries, nil
}

// Clear removes all recorded downloads.
func (s *Store) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM downloads`); err != nil {
		return fmt.Errorf("clearing history: %w", err)
	}
	return nil
}
