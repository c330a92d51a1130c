// Package queue carries refresh triggers from timers, the HTTP feed and file
// watchers to the single refresh worker.
//
// The queue is bounded and coalescing: each board may hold only a limited
// number of pending triggers, so a burst of ticks or file events collapses
// into one follow-up cycle.
package queue

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/okian/skillboard/pkg/metrics"
)

// Default queue configuration constants.
const (
	defaultQueueCapacity = 16
	defaultPerBoard      = 1
)

// Reason names what caused a refresh.
type Reason string

// Trigger reasons.
const (
	ReasonStartup Reason = "startup"
	ReasonTimer   Reason = "timer"
	ReasonManual  Reason = "manual"
	ReasonWatch   Reason = "watch"
)

// Trigger asks the worker to run one refresh cycle for a board.
type Trigger struct {
	ID     string
	Board  string
	Reason Reason
	At     time.Time
}

// NewTrigger stamps a trigger with a fresh id and the current time.
func NewTrigger(board string, reason Reason) Trigger {
	return Trigger{
		ID:     uuid.NewString(),
		Board:  board,
		Reason: reason,
		At:     time.Now(),
	}
}

// Queue provides non-blocking enqueue and channel-based dequeue semantics.
type Queue interface {
	// Enqueue adds a trigger to the queue. It never blocks. It returns
	// ErrPending when the board already has enough pending triggers, ErrFull
	// when the buffer is exhausted and ErrClosed after Close.
	Enqueue(ctx context.Context, t Trigger) error

	// Dequeue returns a channel that will receive triggers as they become available.
	// The channel will be closed when the queue is closed.
	Dequeue(ctx context.Context) <-chan Trigger

	// Len returns the current number of queued triggers.
	Len(ctx context.Context) int

	// Close gracefully shuts down the queue.
	// After closing, no new triggers can be enqueued and the dequeue channel will be closed.
	Close() error

	// IsClosed returns true if the queue has been closed.
	IsClosed() bool
}

// InMemoryQueue implements Queue using a buffered channel.
type InMemoryQueue struct {
	triggers chan Trigger
	capacity int
	perBoard int

	mu     sync.RWMutex
	closed bool

	pmu     sync.Mutex
	pending map[string]int
}

// NewInMemoryQueue creates a new in-memory queue with configuration options.
func NewInMemoryQueue(opts ...Option) *InMemoryQueue {
	q := &InMemoryQueue{
		capacity: defaultQueueCapacity,
		perBoard: defaultPerBoard,
		pending:  make(map[string]int),
	}

	for _, opt := range opts {
		opt(q)
	}

	q.triggers = make(chan Trigger, q.capacity)
	metrics.UpdateTriggerQueueLength(0)

	return q
}

// Enqueue adds a trigger to the queue.
func (q *InMemoryQueue) Enqueue(ctx context.Context, t Trigger) error {
	q.mu.RLock()
	defer q.mu.RUnlock()

	reason := string(t.Reason)
	if q.closed {
		metrics.RecordTriggerDropped(t.Board, "closed")
		return ErrClosed
	}
	if err := ctx.Err(); err != nil {
		metrics.RecordTriggerDropped(t.Board, "context_cancelled")
		return err
	}
	if !q.reserve(t.Board) {
		metrics.RecordTriggerDropped(t.Board, "pending")
		return ErrPending
	}

	select {
	case q.triggers <- t:
		metrics.RecordTriggerEnqueued(t.Board, reason)
		metrics.UpdateTriggerQueueLength(len(q.triggers))
		return nil
	default:
		q.release(t.Board)
		metrics.RecordTriggerDropped(t.Board, "full")
		metrics.RecordErrorByComponent("queue", "full")
		return ErrFull
	}
}

// Dequeue returns a channel that will receive triggers as they become available.
// A trigger stops counting against its board's pending limit as soon as it
// leaves the buffer, so a trigger raised during a running cycle queues one
// follow-up.
func (q *InMemoryQueue) Dequeue(ctx context.Context) <-chan Trigger {
	out := make(chan Trigger)
	go func() {
		defer close(out)
		for t := range q.triggers {
			q.release(t.Board)
			metrics.UpdateTriggerQueueLength(len(q.triggers))
			select {
			case out <- t:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

// Len returns the current number of queued triggers.
func (q *InMemoryQueue) Len(_ context.Context) int {
	size := len(q.triggers)
	metrics.UpdateTriggerQueueLength(size)
	return size
}

// Pending returns how many triggers are queued for board.
func (q *InMemoryQueue) Pending(board string) int {
	q.pmu.Lock()
	defer q.pmu.Unlock()
	return q.pending[board]
}

// Close gracefully shuts down the queue.
func (q *InMemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil
	}

	close(q.triggers)
	q.closed = true

	return nil
}

// IsClosed returns true if the queue has been closed.
func (q *InMemoryQueue) IsClosed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}

func (q *InMemoryQueue) reserve(board string) bool {
	q.pmu.Lock()
	defer q.pmu.Unlock()
	if q.pending[board] >= q.perBoard {
		return false
	}
	q.pending[board]++
	return true
}

func (q *InMemoryQueue) release(board string) {
	q.pmu.Lock()
	defer q.pmu.Unlock()
	if q.pending[board] <= 1 {
		delete(q.pending, board)
		return
	}
	q.pending[board]--
}
