// Package worker drains refresh triggers and runs one board cycle at a time.
package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/okian/skillboard/internal/adapters/mq/queue"
	"github.com/okian/skillboard/pkg/logger"
	"github.com/okian/skillboard/pkg/metrics"
)

// Trigger is what workers read off the queue.
type Trigger = queue.Trigger

// Refresher runs a single refresh cycle for the named board.
type Refresher interface {
	Refresh(ctx context.Context, board string) error
}

// Queue defines how workers receive triggers.
type Queue interface {
	Dequeue(ctx context.Context) <-chan Trigger
}

// Worker processes triggers using the provided Refresher.
type Worker interface {
	// Run starts the worker loop until ctx is canceled.
	Run(ctx context.Context)

	// Shutdown stops the worker. A cycle that is already running is
	// allowed to finish.
	Shutdown(ctx context.Context) error
}

// InMemoryWorker implements Worker. There is exactly one per service so
// cycles never overlap.
type InMemoryWorker struct {
	queue     Queue
	refresher Refresher
	name      string

	// Optional hook, called after every cycle with its outcome.
	onDone func(Trigger, error)

	shutdown chan struct{}
	done     chan struct{}

	logger logger.Logger
}

// NewInMemoryWorker creates a new worker with configuration options.
func NewInMemoryWorker(q Queue, r Refresher, opts ...Option) *InMemoryWorker {
	w := &InMemoryWorker{
		queue:     q,
		refresher: r,
		name:      "worker",
		shutdown:  make(chan struct{}),
		done:      make(chan struct{}),
		logger:    logger.Get().Named("worker"),
	}

	for _, opt := range opts {
		opt(w)
	}

	if w.name != "worker" {
		w.logger = w.logger.Named(w.name)
	}

	return w
}

// Run starts the worker loop.
func (w *InMemoryWorker) Run(ctx context.Context) {
	defer close(w.done)

	triggers := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case t, ok := <-triggers:
			if !ok {
				return
			}
			err := w.process(ctx, t)
			if err != nil {
				w.logger.Warn(ctx, "refresh cycle failed",
					logger.String("board", t.Board),
					logger.String("trigger", t.ID),
					logger.String("reason", string(t.Reason)),
					logger.Error(err),
				)
			}
			if w.onDone != nil {
				w.onDone(t, err)
			}
		}
	}
}

// Done is closed once Run has returned.
func (w *InMemoryWorker) Done() <-chan struct{} {
	return w.done
}

// Shutdown gracefully stops the worker.
func (w *InMemoryWorker) Shutdown(ctx context.Context) error {
	select {
	case <-w.shutdown:
	default:
		close(w.shutdown)
	}

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

func (w *InMemoryWorker) process(ctx context.Context, t Trigger) error {
	start := time.Now()
	w.logger.Debug(ctx, "refresh triggered",
		logger.String("board", t.Board),
		logger.String("reason", string(t.Reason)),
		logger.Duration("queued", start.Sub(t.At)),
	)

	if err := w.refresher.Refresh(ctx, t.Board); err != nil {
		metrics.RecordErrorByComponent("worker", "refresh_error")
		return fmt.Errorf("refresh %s: %w", t.Board, err)
	}
	return nil
}
