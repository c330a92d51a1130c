// Package source fetches raw CSV text from a local file or a published
// spreadsheet URL.
package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"
)

// Default fetch configuration constants.
const (
	defaultTimeout = 15 * time.Second
	maxBodyBytes   = 32 << 20
)

// Fetcher returns the full text of one CSV document.
type Fetcher interface {
	Fetch(ctx context.Context) (string, error)
	// Location identifies the source in logs and metrics.
	Location() string
}

// New picks an HTTPSource for http(s) locations and a FileSource otherwise.
func New(location string, opts ...Option) Fetcher {
	if IsRemote(location) {
		return NewHTTPSource(location, opts...)
	}
	return NewFileSource(location)
}

// IsRemote reports whether location is fetched over HTTP.
func IsRemote(location string) bool {
	l := strings.ToLower(location)
	return strings.HasPrefix(l, "http://") || strings.HasPrefix(l, "https://")
}

// FileSource reads a CSV document from disk.
type FileSource struct {
	path string
}

// NewFileSource creates a FileSource for path.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// Location returns the file path.
func (s *FileSource) Location() string { return s.path }

// Fetch reads the whole file.
func (s *FileSource) Fetch(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrFetch, s.path, err)
	}
	b, err := os.ReadFile(s.path)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrFetch, s.path, err)
	}
	return string(b), nil
}

// HTTPSource downloads a CSV document. Every request carries a
// millisecond timestamp parameter so intermediaries cannot serve a stale copy.
type HTTPSource struct {
	url     string
	client  *http.Client
	timeout time.Duration
	maxBody int64
	now     func() time.Time
}

// NewHTTPSource creates an HTTPSource for url.
func NewHTTPSource(url string, opts ...Option) *HTTPSource {
	s := &HTTPSource{
		url:     url,
		client:  http.DefaultClient,
		timeout: defaultTimeout,
		maxBody: maxBodyBytes,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Location returns the configured URL without the cache-busting parameter.
func (s *HTTPSource) Location() string { return s.url }

// Fetch performs one GET request. Non-2xx responses are errors.
func (s *HTTPSource) Fetch(ctx context.Context) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, bustCache(s.url, s.now()), http.NoBody)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrFetch, s.url, err)
	}
	req.Header.Set("Accept", "text/csv, text/plain;q=0.9, */*;q=0.1")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrFetch, s.url, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return "", &StatusError{Location: s.url, StatusCode: resp.StatusCode}
	}

	b, err := io.ReadAll(io.LimitReader(resp.Body, s.maxBody+1))
	if err != nil {
		return "", fmt.Errorf("%w: %s: read body: %w", ErrFetch, s.url, err)
	}
	if int64(len(b)) > s.maxBody {
		return "", fmt.Errorf("%w: %s: body exceeds %d bytes", ErrFetch, s.url, s.maxBody)
	}
	return string(b), nil
}

func bustCache(url string, at time.Time) string {
	sep := "?"
	if strings.Contains(url, "?") {
		sep = "&"
	}
	return url + sep + "t=" + strconv.FormatInt(at.UnixMilli(), 10)
}
