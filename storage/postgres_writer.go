package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
)

// PostgresSink stores each export as a row in PostgreSQL.
type PostgresSink struct {
	sqlStore
}

// NewPostgresSink opens a connection, waits for the server to accept it,
// runs the schema migration and returns a ready-to-use sink.
func NewPostgresSink(ctx context.Context, dsn string) (*PostgresSink, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	for i := 0; i < 10; i++ {
		if err = db.PingContext(ctx); err == nil {
			break
		}
		select {
		case <-ctx.Done():
			_ = db.Close()
			return nil, fmt.Errorf("postgres: ping: %w", ctx.Err())
		case <-time.After(2 * time.Second):
		}
	}
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: ping failed after retries: %w", err)
	}

	s := &PostgresSink{sqlStore{
		db:     db,
		insert: `INSERT INTO exports (filename, content) VALUES ($1, $2)`,
		latest: `SELECT content FROM exports WHERE filename = $1 ORDER BY id DESC LIMIT 1`,
	}}
	if err := s.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: migrate: %w", err)
	}
	return s, nil
}

func (s *PostgresSink) migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS exports (
			id         BIGSERIAL   PRIMARY KEY,
			filename   TEXT        NOT NULL,
			content    TEXT        NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE INDEX IF NOT EXISTS idx_exports_filename ON exports(filename);
	`)
	return err
}

func (s *PostgresSink) Name() string { return "postgres" }

// Save inserts the export as a new row.
func (s *PostgresSink) Save(ctx context.Context, filename, text string) error {
	if err := s.save(ctx, filename, text); err != nil {
		return fmt.Errorf("postgres: %w", err)
	}
	return nil
}
