package snapshot

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver.
)

// SQLiteStore keeps snapshots in a single SQLite table keyed by board.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens or creates the database at path and applies the schema.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("%w: mkdir %s: %w", ErrStore, dir, err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %w", ErrStore, path, err)
	}
	// One writer at a time; SQLite serializes anyway.
	db.SetMaxOpenConns(1)

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	const stmt = `CREATE TABLE IF NOT EXISTS snapshots (
		board TEXT PRIMARY KEY,
		saved_at TEXT NOT NULL,
		data BLOB NOT NULL
	);`
	if _, err := s.db.Exec(stmt); err != nil {
		return fmt.Errorf("%w: migrate: %w", ErrStore, err)
	}
	return nil
}

// Load reads the row for board.
func (s *SQLiteStore) Load(ctx context.Context, board string) (Record, error) {
	var (
		savedAt string
		data    []byte
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT saved_at, data FROM snapshots WHERE board = ?`, board,
	).Scan(&savedAt, &data)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, ErrNotFound
	}
	if err != nil {
		return Record{}, fmt.Errorf("%w: load %s: %w", ErrStore, board, err)
	}
	at, err := time.Parse(time.RFC3339Nano, savedAt)
	if err != nil {
		return Record{}, fmt.Errorf("%w: saved_at %q: %w", ErrStore, savedAt, err)
	}
	return Record{Board: board, SavedAt: at, Data: data}, nil
}

// Save upserts the row for r.Board.
func (s *SQLiteStore) Save(ctx context.Context, r Record) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO snapshots (board, saved_at, data) VALUES (?, ?, ?)
		 ON CONFLICT(board) DO UPDATE SET saved_at = excluded.saved_at, data = excluded.data`,
		r.Board, r.SavedAt.UTC().Format(time.RFC3339Nano), r.Data,
	)
	if err != nil {
		return fmt.Errorf("%w: save %s: %w", ErrStore, r.Board, err)
	}
	return nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
