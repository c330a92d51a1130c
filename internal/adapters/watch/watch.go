// Package watch raises refresh triggers when a local CSV source changes.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/okian/skillboard/pkg/logger"
	"github.com/okian/skillboard/pkg/metrics"
)

const (
	defaultDebounce = 500 * time.Millisecond
	tickInterval    = 100 * time.Millisecond
)

// Notify is called once per settled change with the board that owns the file.
type Notify func(ctx context.Context, board string)

// Watcher maps watched files to boards. It watches the parent directory of
// each file so editors that save by rename are still seen.
type Watcher struct {
	mu       sync.Mutex
	watcher  *fsnotify.Watcher
	boards   map[string]string // cleaned path -> board
	pending  map[string]time.Time
	debounce time.Duration
	notify   Notify
	logger   logger.Logger

	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// New creates a Watcher. files maps board name to local file path.
func New(files map[string]string, notify Notify, opts ...Option) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrWatch, err)
	}
	w := &Watcher{
		watcher:  fw,
		boards:   make(map[string]string, len(files)),
		pending:  make(map[string]time.Time),
		debounce: defaultDebounce,
		notify:   notify,
		logger:   logger.Get().Named("watch"),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}

	dirs := make(map[string]struct{})
	for board, path := range files {
		abs, err := filepath.Abs(path)
		if err != nil {
			_ = fw.Close()
			return nil, fmt.Errorf("%w: %s: %w", ErrWatch, path, err)
		}
		w.boards[abs] = board
		dirs[filepath.Dir(abs)] = struct{}{}
	}
	for dir := range dirs {
		if err := fw.Add(dir); err != nil {
			_ = fw.Close()
			return nil, fmt.Errorf("%w: %s: %w", ErrWatch, dir, err)
		}
	}
	return w, nil
}

// Start begins delivering notifications. It does not block.
func (w *Watcher) Start(ctx context.Context) {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return
	}
	w.running = true
	w.mu.Unlock()

	go w.run(ctx)
}

// Stop stops the loop, waits for it and releases the OS watcher.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	running := w.running
	w.running = false
	w.mu.Unlock()

	if running {
		close(w.stopCh)
		<-w.doneCh
	}
	return w.watcher.Close()
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)

	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handle(ev)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			metrics.RecordErrorByComponent("watch", "fsnotify")
			w.logger.Warn(ctx, "watch error", logger.Error(err))
		case <-ticker.C:
			w.flush(ctx)
		}
	}
}

func (w *Watcher) handle(ev fsnotify.Event) {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
		return
	}
	abs, err := filepath.Abs(ev.Name)
	if err != nil {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if board, ok := w.boards[abs]; ok {
		w.pending[board] = time.Now()
	}
}

// flush notifies boards whose last change is older than the debounce window.
func (w *Watcher) flush(ctx context.Context) {
	now := time.Now()
	var ready []string

	w.mu.Lock()
	for board, at := range w.pending {
		if now.Sub(at) >= w.debounce {
			ready = append(ready, board)
			delete(w.pending, board)
		}
	}
	w.mu.Unlock()

	for _, board := range ready {
		w.logger.Debug(ctx, "source changed", logger.String("board", board))
		w.notify(ctx, board)
	}
}
