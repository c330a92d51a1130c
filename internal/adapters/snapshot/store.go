// Package snapshot persists the last successfully ranked dataset of each
// board and serves it back when a later fetch fails.
package snapshot

import (
	"context"
	"fmt"
	"time"
)

// Backend names accepted by Open.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// Record is one persisted snapshot.
type Record struct {
	Board   string
	SavedAt time.Time
	Data    []byte
}

// Store reads and writes one record per board.
type Store interface {
	// Load returns ErrNotFound when the board has never been saved.
	Load(ctx context.Context, board string) (Record, error)
	Save(ctx context.Context, r Record) error
	Close() error
}

// Open builds the store for backend. path is a directory for the file
// backend and a database file for sqlite.
func Open(backend, path string) (Store, error) {
	switch backend {
	case BackendFile:
		return NewFileStore(path)
	case BackendSQLite:
		return OpenSQLite(path)
	case BackendMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, backend)
	}
}
