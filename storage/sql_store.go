package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// ErrExportNotFound is returned by Latest when no export has the name.
var ErrExportNotFound = errors.New("storage: export not found")

// sqlStore keeps one row per export in an "exports" table. The driver
// specific sinks only supply their schema and placeholder style.
type sqlStore struct {
	db     *sql.DB
	insert string
	latest string
}

func (s *sqlStore) save(ctx context.Context, filename, text string) error {
	if _, err := s.db.ExecContext(ctx, s.insert, filename, text); err != nil {
		return fmt.Errorf("insert export %q: %w", filename, err)
	}
	return nil
}

// Latest returns the most recently saved content for filename.
func (s *sqlStore) Latest(ctx context.Context, filename string) (string, error) {
	var content string
	err := s.db.QueryRowContext(ctx, s.latest, filename).Scan(&content)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrExportNotFound
	}
	if err != nil {
		return "", fmt.Errorf("query export %q: %w", filename, err)
	}
	return content, nil
}

func (s *sqlStore) Close() error {
	return s.db.Close()
}
