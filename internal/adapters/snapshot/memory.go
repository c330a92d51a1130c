package snapshot

import (
	"context"
	"slices"
	"sync"
)

// MemoryStore keeps records in process memory.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]Record
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]Record)}
}

// Load returns a copy of the stored record.
func (m *MemoryStore) Load(_ context.Context, board string) (Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.records[board]
	if !ok {
		return Record{}, ErrNotFound
	}
	r.Data = slices.Clone(r.Data)
	return r, nil
}

// Save replaces the record for r.Board.
func (m *MemoryStore) Save(_ context.Context, r Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r.Data = slices.Clone(r.Data)
	m.records[r.Board] = r
	return nil
}

// Close is a no-op.
func (m *MemoryStore) Close() error { return nil }
