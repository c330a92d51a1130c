package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/okian/skillboard/pkg/metrics"
)

const defaultFreshness = 24 * time.Hour

// Cache outcomes, also used as metric labels.
const (
	OutcomeServed = "served"
	OutcomeStale  = "stale"
	OutcomeEmpty  = "empty"
	OutcomeError  = "error"
	OutcomeOK     = "ok"
)

// CacheOption configures a Cache.
type CacheOption func(*cacheConfig)

type cacheConfig struct {
	freshness time.Duration
	now       func() time.Time
}

// WithFreshness sets how old a snapshot may be and still stand in for a
// failed fetch.
func WithFreshness(d time.Duration) CacheOption {
	return func(c *cacheConfig) {
		if d > 0 {
			c.freshness = d
		}
	}
}

// WithNow replaces the clock used for age checks.
func WithNow(now func() time.Time) CacheOption {
	return func(c *cacheConfig) {
		if now != nil {
			c.now = now
		}
	}
}

// Cache stores a typed dataset for one board on top of a Store.
type Cache[T any] struct {
	store Store
	board string
	cfg   cacheConfig
}

// NewCache creates a Cache for board.
func NewCache[T any](store Store, board string, opts ...CacheOption) *Cache[T] {
	cfg := cacheConfig{freshness: defaultFreshness, now: time.Now}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Cache[T]{store: store, board: board, cfg: cfg}
}

// Freshness returns the configured freshness window.
func (c *Cache[T]) Freshness() time.Duration { return c.cfg.freshness }

// Write persists v with timestamp at. Callers treat failures as best
// effort: log them and carry on.
func (c *Cache[T]) Write(ctx context.Context, v T, at time.Time) error {
	data, err := json.Marshal(v)
	if err != nil {
		metrics.RecordCacheWrite(c.board, OutcomeError)
		return fmt.Errorf("%w: encode %s: %w", ErrStore, c.board, err)
	}
	if err := c.store.Save(ctx, Record{Board: c.board, SavedAt: at, Data: data}); err != nil {
		metrics.RecordCacheWrite(c.board, OutcomeError)
		return err
	}
	metrics.RecordCacheWrite(c.board, OutcomeOK)
	return nil
}

// Read returns the stored dataset regardless of age.
func (c *Cache[T]) Read(ctx context.Context) (T, time.Time, error) {
	var zero T
	r, err := c.store.Load(ctx, c.board)
	if err != nil {
		return zero, time.Time{}, err
	}
	var v T
	if err := json.Unmarshal(r.Data, &v); err != nil {
		return zero, time.Time{}, fmt.Errorf("%w: decode %s: %w", ErrStore, c.board, err)
	}
	return v, r.SavedAt, nil
}

// Fallback is called after fetchErr. It returns the snapshot when one
// exists and is younger than the freshness window. Otherwise it returns
// fetchErr, joined with the reason the snapshot could not serve.
func (c *Cache[T]) Fallback(ctx context.Context, fetchErr error) (T, time.Time, error) {
	var zero T
	v, at, err := c.Read(ctx)
	switch {
	case errors.Is(err, ErrNotFound):
		metrics.RecordCacheFallback(c.board, OutcomeEmpty)
		return zero, time.Time{}, fetchErr
	case err != nil:
		metrics.RecordCacheFallback(c.board, OutcomeError)
		return zero, time.Time{}, errors.Join(fetchErr, err)
	}

	age := c.cfg.now().Sub(at)
	if age >= c.cfg.freshness {
		metrics.RecordCacheFallback(c.board, OutcomeStale)
		return zero, time.Time{}, errors.Join(fetchErr, fmt.Errorf("%w: age %s", ErrStale, age.Round(time.Second)))
	}
	metrics.RecordCacheFallback(c.board, OutcomeServed)
	return v, at, nil
}
