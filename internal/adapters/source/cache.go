package source

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/okian/skillboard/pkg/metrics"
)

const fetchCacheSize = 8

// CachedFetcher keeps successful fetch bodies in memory for a short TTL so
// bursts of triggers do not hammer the upstream sheet. Failures are never
// cached.
type CachedFetcher struct {
	next Fetcher
	lru  *expirable.LRU[string, string]
}

// NewCachedFetcher wraps next. A non-positive ttl returns next unchanged.
func NewCachedFetcher(next Fetcher, ttl time.Duration) Fetcher {
	if ttl <= 0 {
		return next
	}
	return &CachedFetcher{
		next: next,
		lru:  expirable.NewLRU[string, string](fetchCacheSize, nil, ttl),
	}
}

// Location returns the wrapped fetcher's location.
func (c *CachedFetcher) Location() string { return c.next.Location() }

// Fetch returns a cached body when present, else fetches and caches it.
func (c *CachedFetcher) Fetch(ctx context.Context) (string, error) {
	key := c.next.Location()
	if body, ok := c.lru.Get(key); ok {
		metrics.RecordFetchCacheHit(key)
		return body, nil
	}
	body, err := c.next.Fetch(ctx)
	if err != nil {
		return "", err
	}
	c.lru.Add(key, body)
	return body, nil
}

// Invalidate drops the cached body so the next Fetch goes upstream.
func (c *CachedFetcher) Invalidate() {
	c.lru.Purge()
}
