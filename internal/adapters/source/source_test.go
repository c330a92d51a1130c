package source_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okian/skillboard/internal/adapters/source"
)

func TestNew_PicksImplementation(t *testing.T) {
	assert.IsType(t, &source.HTTPSource{}, source.New("https://docs.example.com/pub?output=csv"))
	assert.IsType(t, &source.HTTPSource{}, source.New("HTTP://host/file.csv"))
	assert.IsType(t, &source.FileSource{}, source.New("data/leaderboard.csv"))
	assert.True(t, source.IsRemote("https://x"))
	assert.False(t, source.IsRemote("/tmp/x.csv"))
}

func TestFileSource_Fetch(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "board.csv")
	require.NoError(t, os.WriteFile(path, []byte("User Name,User Email\nAna,ana@example.com\n"), 0o600))

	body, err := source.NewFileSource(path).Fetch(context.Background())
	require.NoError(t, err)
	assert.Contains(t, body, "ana@example.com")

	_, err = source.NewFileSource(filepath.Join(dir, "missing.csv")).Fetch(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, source.ErrFetch)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestHTTPSource_CacheBusting(t *testing.T) {
	var gotQuery atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery.Store(r.URL.RawQuery)
		_, _ = w.Write([]byte("Name\nAna\n"))
	}))
	defer srv.Close()

	at := time.UnixMilli(1_700_000_000_123)
	clock := func() time.Time { return at }

	body, err := source.NewHTTPSource(srv.URL+"/pub", source.WithClock(clock)).Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Name\nAna\n", body)
	assert.Equal(t, "t=1700000000123", gotQuery.Load())

	_, err = source.NewHTTPSource(srv.URL+"/pub?gid=5&output=csv", source.WithClock(clock)).Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "gid=5&output=csv&t=1700000000123", gotQuery.Load())
}

func TestHTTPSource_Status(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := source.NewHTTPSource(srv.URL).Fetch(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, source.ErrFetch)

	var se *source.StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusServiceUnavailable, se.StatusCode)
	assert.Contains(t, err.Error(), "status 503")
}

func TestHTTPSource_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	_, err := source.NewHTTPSource(srv.URL, source.WithTimeout(20*time.Millisecond)).Fetch(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, source.ErrFetch)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestHTTPSource_BodyLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("Name,Done\nAna,Yes\n"))
	}))
	defer srv.Close()

	body, err := source.NewHTTPSource(srv.URL, source.WithMaxBodyBytes(18)).Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Name,Done\nAna,Yes\n", body)

	body, err = source.NewHTTPSource(srv.URL, source.WithMaxBodyBytes(16)).Fetch(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, source.ErrFetch)
	assert.Contains(t, err.Error(), "body exceeds 16 bytes")
	assert.Empty(t, body)
}

type countingFetcher struct {
	calls atomic.Int32
	err   error
}

func (c *countingFetcher) Location() string { return "counting" }

func (c *countingFetcher) Fetch(context.Context) (string, error) {
	c.calls.Add(1)
	if c.err != nil {
		return "", c.err
	}
	return "body", nil
}

func TestCachedFetcher(t *testing.T) {
	ctx := context.Background()

	t.Run("serves repeated fetches from memory", func(t *testing.T) {
		next := &countingFetcher{}
		f := source.NewCachedFetcher(next, time.Minute)
		for i := 0; i < 3; i++ {
			body, err := f.Fetch(ctx)
			require.NoError(t, err)
			assert.Equal(t, "body", body)
		}
		assert.Equal(t, int32(1), next.calls.Load())
		assert.Equal(t, "counting", f.Location())

		f.(*source.CachedFetcher).Invalidate()
		_, err := f.Fetch(ctx)
		require.NoError(t, err)
		assert.Equal(t, int32(2), next.calls.Load())
	})

	t.Run("expires after the ttl", func(t *testing.T) {
		next := &countingFetcher{}
		f := source.NewCachedFetcher(next, 20*time.Millisecond)
		_, _ = f.Fetch(ctx)
		time.Sleep(60 * time.Millisecond)
		_, _ = f.Fetch(ctx)
		assert.Equal(t, int32(2), next.calls.Load())
	})

	t.Run("does not cache failures", func(t *testing.T) {
		next := &countingFetcher{err: source.ErrFetch}
		f := source.NewCachedFetcher(next, time.Minute)
		_, err := f.Fetch(ctx)
		assert.ErrorIs(t, err, source.ErrFetch)
		_, err = f.Fetch(ctx)
		assert.ErrorIs(t, err, source.ErrFetch)
		assert.Equal(t, int32(2), next.calls.Load())
	})

	t.Run("zero ttl disables caching", func(t *testing.T) {
		next := &countingFetcher{}
		assert.Same(t, next, source.NewCachedFetcher(next, 0))
	})
}
