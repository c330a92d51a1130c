// Package dedupe tracks identity keys so that repeated entities inside one
// normalization pass are dropped.
package dedupe

import (
	"sync"
)

// Deduper records seen identity keys. The first occurrence wins.
type Deduper interface {
	// SeenAndRecord atomically checks if key was seen and records it if not.
	// Returns true if key was already seen, false if it was newly recorded.
	SeenAndRecord(key string) bool

	// Size returns the number of distinct keys recorded.
	Size() int
}

type inMemoryDeduper struct {
	mu       sync.Mutex
	seen     map[string]struct{}
	capacity int
}

// NewInMemoryDeduper creates a new deduper with configuration options.
func NewInMemoryDeduper(opts ...Option) Deduper {
	d := &inMemoryDeduper{}
	for _, opt := range opts {
		opt(d)
	}
	d.seen = make(map[string]struct{}, d.capacity)
	return d
}

func (d *inMemoryDeduper) SeenAndRecord(key string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, exists := d.seen[key]; exists {
		return true
	}
	d.seen[key] = struct{}{}
	return false
}

func (d *inMemoryDeduper) Size() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.seen)
}

// Unique keeps the first item for every key, preserving order, and returns
// how many later duplicates were dropped.
func Unique[T any](items []T, key func(T) string) ([]T, int) {
	d := NewInMemoryDeduper(WithCapacity(len(items)))
	out := make([]T, 0, len(items))
	dropped := 0
	for _, it := range items {
		if d.SeenAndRecord(key(it)) {
			dropped++
			continue
		}
		out = append(out, it)
	}
	return out, dropped
}
