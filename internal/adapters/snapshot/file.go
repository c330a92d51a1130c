package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

// fileDocument is the on-disk shape of one board snapshot.
type fileDocument struct {
	SavedAt time.Time       `json:"savedAt"`
	Data    json.RawMessage `json:"data"`
}

// FileStore writes one JSON document per board into a directory. Record
// data must itself be JSON.
type FileStore struct {
	dir string
}

// NewFileStore creates dir if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: mkdir %s: %w", ErrStore, dir, err)
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) path(board string) string {
	return filepath.Join(s.dir, board+".json")
}

// Load reads the board's document.
func (s *FileStore) Load(ctx context.Context, board string) (Record, error) {
	if err := ctx.Err(); err != nil {
		return Record{}, err
	}
	b, err := os.ReadFile(s.path(board))
	if errors.Is(err, fs.ErrNotExist) {
		return Record{}, ErrNotFound
	}
	if err != nil {
		return Record{}, fmt.Errorf("%w: %w", ErrStore, err)
	}
	var doc fileDocument
	if err := json.Unmarshal(b, &doc); err != nil {
		return Record{}, fmt.Errorf("%w: decode %s: %w", ErrStore, board, err)
	}
	return Record{Board: board, SavedAt: doc.SavedAt, Data: doc.Data}, nil
}

// Save writes to a temp file and renames it over the previous document so
// readers never see a partial write.
func (s *FileStore) Save(ctx context.Context, r Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b, err := json.Marshal(fileDocument{SavedAt: r.SavedAt.UTC(), Data: r.Data})
	if err != nil {
		return fmt.Errorf("%w: encode %s: %w", ErrStore, r.Board, err)
	}
	tmp, err := os.CreateTemp(s.dir, r.Board+".*.tmp")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrStore, err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(b); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("%w: write %s: %w", ErrStore, r.Board, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: %w", ErrStore, err)
	}
	if err := os.Rename(tmp.Name(), s.path(r.Board)); err != nil {
		return fmt.Errorf("%w: rename %s: %w", ErrStore, r.Board, err)
	}
	return nil
}

// Close is a no-op.
func (s *FileStore) Close() error { return nil }
