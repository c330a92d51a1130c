// Package repository holds the current immutable state of each board.
//
// A refresh cycle builds a complete ranked dataset and publishes it in one
// atomic pointer swap; readers always see either the previous or the new
// dataset, never a mix.
package repository

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/okian/skillboard/pkg/metrics"
)

// State is one published dataset. It must not be mutated after Publish.
type State[T any] struct {
	Board     string
	Items     []T
	UpdatedAt time.Time
	// FromCache is set when the items came from a snapshot after a failed fetch.
	FromCache bool
	Version   uint64

	index map[string]int
}

// Len returns the number of items.
func (s *State[T]) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Items)
}

// Store provides read access to a board's published state.
type Store[T any] interface {
	// Current returns the latest state, or nil before the first publish.
	Current() *State[T]

	// Lookup returns the item with the given identity key.
	// Returns ErrNotFound if no such item is published.
	Lookup(ctx context.Context, key string) (T, error)

	// TopN returns up to n leading items in published order.
	TopN(ctx context.Context, n int) ([]T, error)

	// Count returns the number of published items.
	Count(ctx context.Context) int
}

var _ Store[struct{}] = (*BoardStore[struct{}])(nil)

// BoardStore is the in-memory Store implementation.
type BoardStore[T any] struct {
	board   string
	key     func(T) string
	version atomic.Uint64
	state   atomic.Pointer[State[T]]
}

// NewBoardStore creates an empty store. key must return the same identity
// key that lookups use.
func NewBoardStore[T any](board string, key func(T) string) *BoardStore[T] {
	return &BoardStore[T]{board: board, key: key}
}

// Board returns the board name.
func (s *BoardStore[T]) Board() string { return s.board }

// Publish indexes items and swaps them in. The caller gives up ownership of
// items.
func (s *BoardStore[T]) Publish(items []T, at time.Time, fromCache bool) *State[T] {
	index := make(map[string]int, len(items))
	for i, it := range items {
		k := s.key(it)
		if _, dup := index[k]; !dup {
			index[k] = i
		}
	}
	st := &State[T]{
		Board:     s.board,
		Items:     items,
		UpdatedAt: at,
		FromCache: fromCache,
		Version:   s.version.Add(1),
		index:     index,
	}
	s.state.Store(st)
	metrics.UpdateEntities(s.board, len(items))
	return st
}

// Current returns the latest state, or nil.
func (s *BoardStore[T]) Current() *State[T] {
	return s.state.Load()
}

// Lookup finds an item by identity key.
func (s *BoardStore[T]) Lookup(_ context.Context, key string) (T, error) {
	var zero T
	st := s.state.Load()
	if st == nil {
		metrics.RecordErrorByComponent("repository", "not_found")
		return zero, ErrNotFound
	}
	i, ok := st.index[key]
	if !ok {
		metrics.RecordErrorByComponent("repository", "not_found")
		return zero, ErrNotFound
	}
	return st.Items[i], nil
}

// TopN returns the first n items of the current state.
func (s *BoardStore[T]) TopN(_ context.Context, n int) ([]T, error) {
	if n < 1 {
		metrics.RecordErrorByComponent("repository", "invalid_limit")
		return nil, ErrInvalidLimit
	}
	st := s.state.Load()
	if st == nil {
		return []T{}, nil
	}
	n = min(n, len(st.Items))
	out := make([]T, n)
	copy(out, st.Items[:n])
	return out, nil
}

// Count returns the number of published items.
func (s *BoardStore[T]) Count(_ context.Context) int {
	return s.state.Load().Len()
}
