package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteSink stores each export as a row in a local SQLite database.
type SQLiteSink struct {
	sqlStore
}

// NewSQLiteSink opens (or creates) the database file at path and ensures
// the exports table exists.
func NewSQLiteSink(ctx context.Context, path string) (*SQLiteSink, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("sqlite: create dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: ping: %w", err)
	}

	s := &SQLiteSink{sqlStore{
		db:     db,
		insert: `INSERT INTO exports (filename, content) VALUES (?, ?)`,
		latest: `SELECT content FROM exports WHERE filename = ? ORDER BY id DESC LIMIT 1`,
	}}
	if _, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS exports (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			filename   TEXT NOT NULL,
			content    TEXT NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_exports_filename ON exports(filename);
	`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: migrate: %w", err)
	}
	return s, nil
}

func (s *SQLiteSink) Name() string { return "sqlite" }

// Save inserts the export as a new row.
func (s *SQLiteSink) Save(ctx context.Context, filename, text string) error {
	if err := s.save(ctx, filename, text); err != nil {
		return fmt.Errorf("sqlite: %w", err)
	}
	return nil
}
