package source

import (
	"net/http"
	"time"
)

// Option configures an HTTPSource.
type Option func(*HTTPSource)

// WithHTTPClient sets the client used for requests.
func WithHTTPClient(c *http.Client) Option {
	return func(s *HTTPSource) {
		if c != nil {
			s.client = c
		}
	}
}

// WithTimeout bounds a single fetch.
func WithTimeout(d time.Duration) Option {
	return func(s *HTTPSource) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithMaxBodyBytes caps the accepted response size. Larger bodies fail the
// fetch.
func WithMaxBodyBytes(n int64) Option {
	return func(s *HTTPSource) {
		if n > 0 {
			s.maxBody = n
		}
	}
}

// WithClock replaces the time source used for the cache-busting parameter.
func WithClock(now func() time.Time) Option {
	return func(s *HTTPSource) {
		if now != nil {
			s.now = now
		}
	}
}
