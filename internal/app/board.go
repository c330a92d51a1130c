package service

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/okian/skillboard/internal/adapters/repository"
	"github.com/okian/skillboard/internal/adapters/snapshot"
	"github.com/okian/skillboard/internal/adapters/source"
	"github.com/okian/skillboard/internal/domain/csvparse"
	"github.com/okian/skillboard/internal/domain/normalize"
	"github.com/okian/skillboard/pkg/logger"
	"github.com/okian/skillboard/pkg/metrics"
)

// Board names.
const (
	BoardParticipants = "participants"
	BoardVolunteers   = "volunteers"
)

// Cycle outcomes, also used as metric labels.
const (
	outcomeOK       = "ok"
	outcomeCached   = "cached"
	outcomeFailed   = "failed"
	outcomeRejected = "malformed"
	outcomeBusy     = "busy"
)

// pipeline holds the pure steps of one board: normalize and rank rows,
// then annotate against the previous dataset.
type pipeline[T any] struct {
	build  func(rows []csvparse.Row, at time.Time) ([]T, normalize.Report)
	detect func(next, prev []T) []T
}

// Board runs refresh cycles for one dataset. At most one cycle runs at a time.
type Board[T any] struct {
	name    string
	fetcher source.Fetcher
	parser  *csvparse.Parser
	steps   pipeline[T]
	store   *repository.BoardStore[T]
	cache   *snapshot.Cache[[]T]
	now     func() time.Time
	logger  logger.Logger
	publish func(name string, version uint64)

	running atomic.Bool
}

// Store exposes the published state.
func (b *Board[T]) Store() *repository.BoardStore[T] { return b.store }

// Refresh runs one cycle: fetch, parse, normalize, rank, snapshot, detect
// changes and publish. A failed fetch falls back to a fresh enough snapshot.
// Malformed input fails the cycle without fallback and leaves the published
// state untouched.
func (b *Board[T]) Refresh(ctx context.Context) (*repository.State[T], error) {
	if !b.running.CompareAndSwap(false, true) {
		metrics.RecordRefreshCycle(b.name, outcomeBusy, 0)
		return nil, fmt.Errorf("%w: %s", ErrRefreshInProgress, b.name)
	}
	metrics.SetRefreshInProgress(b.name, true)
	defer func() {
		b.running.Store(false)
		metrics.SetRefreshInProgress(b.name, false)
	}()

	start := time.Now()
	st, outcome, err := b.cycle(ctx)
	metrics.RecordRefreshCycle(b.name, outcome, float64(time.Since(start).Milliseconds()))
	if err != nil {
		metrics.RecordErrorByComponent("refresh", outcome)
		return nil, err
	}
	b.logger.Info(ctx, "board refreshed",
		logger.String("board", b.name),
		logger.String("outcome", outcome),
		logger.Int("entries", st.Len()),
		logger.Duration("took", time.Since(start)),
	)
	return st, nil
}

// Running reports whether a cycle is in progress.
func (b *Board[T]) Running() bool { return b.running.Load() }

func (b *Board[T]) cycle(ctx context.Context) (*repository.State[T], string, error) {
	fetchStart := time.Now()
	text, err := b.fetcher.Fetch(ctx)
	metrics.RecordFetchLatency(b.name, sourceKind(b.fetcher), float64(time.Since(fetchStart).Milliseconds()))
	if err != nil {
		return b.fallback(ctx, err)
	}

	parsed, err := b.parser.Parse(text)
	if err != nil {
		b.logger.Error(ctx, "source rejected",
			logger.String("board", b.name),
			logger.String("source", b.fetcher.Location()),
			logger.Error(err),
		)
		return nil, outcomeRejected, fmt.Errorf("%s: %w", b.name, err)
	}

	at := b.now()
	items, report := b.steps.build(parsed.Rows, at)
	b.record(ctx, parsed, report)

	if err := b.cache.Write(ctx, items, at); err != nil {
		b.logger.Warn(ctx, "snapshot write failed",
			logger.String("board", b.name),
			logger.Error(err),
		)
	}

	return b.commit(items, at, false), outcomeOK, nil
}

func (b *Board[T]) fallback(ctx context.Context, fetchErr error) (*repository.State[T], string, error) {
	items, at, err := b.cache.Fallback(ctx, fetchErr)
	if err != nil {
		b.logger.Error(ctx, "fetch failed and no usable snapshot",
			logger.String("board", b.name),
			logger.Error(err),
		)
		return nil, outcomeFailed, fmt.Errorf("%s: %w", b.name, err)
	}
	b.logger.Warn(ctx, "fetch failed, serving snapshot",
		logger.String("board", b.name),
		logger.Duration("age", b.now().Sub(at)),
		logger.Error(fetchErr),
	)
	return b.commit(items, at, true), outcomeCached, nil
}

// commit annotates items against the current state, when there is one, and
// publishes them.
func (b *Board[T]) commit(items []T, at time.Time, fromCache bool) *repository.State[T] {
	if prev := b.store.Current(); prev.Len() > 0 {
		items = b.steps.detect(items, prev.Items)
	}
	st := b.store.Publish(items, at, fromCache)
	if !fromCache {
		metrics.UpdateLastSuccess(b.name, float64(at.Unix()))
	}
	if b.publish != nil {
		b.publish(b.name, st.Version)
	}
	return st
}

func (b *Board[T]) record(ctx context.Context, parsed csvparse.Result, rep normalize.Report) {
	metrics.AddRowsParsed(b.name, len(parsed.Rows))
	if parsed.Dropped > 0 {
		metrics.AddRowsSkipped(b.name, "columns", parsed.Dropped)
		b.logger.Warn(ctx, "rows with wrong column count dropped",
			logger.String("board", b.name),
			logger.Int("rows", parsed.Dropped),
		)
	}
	for reason, n := range rep.Skipped {
		if n == 0 {
			continue
		}
		metrics.AddRowsSkipped(b.name, reason, n)
		b.logger.Warn(ctx, "rows skipped",
			logger.String("board", b.name),
			logger.String("reason", reason),
			logger.Int("rows", n),
		)
	}
	for _, d := range rep.Defaults {
		metrics.RecordNumericDefault(b.name, d.Field)
		b.logger.Warn(ctx, "non-numeric value defaulted to 0",
			logger.String("board", b.name),
			logger.Int("row", d.Row),
			logger.String("key", d.Key),
			logger.String("field", d.Field),
			logger.String("value", d.Value),
		)
	}
}

func sourceKind(f source.Fetcher) string {
	if source.IsRemote(f.Location()) {
		return "http"
	}
	return "file"
}

// isBusy reports whether err came from the in-progress guard.
func isBusy(err error) bool {
	return errors.Is(err, ErrRefreshInProgress)
}
