// Package service wires the boards, the trigger queue, the refresh worker and
// the read side used by the HTTP feed and the export command.
package service

import (
	"context"
	"fmt"
	"runtime"
	"slices"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/okian/skillboard/internal/adapters/mq/queue"
	"github.com/okian/skillboard/internal/adapters/mq/worker"
	"github.com/okian/skillboard/internal/adapters/repository"
	"github.com/okian/skillboard/internal/adapters/snapshot"
	"github.com/okian/skillboard/internal/adapters/source"
	"github.com/okian/skillboard/internal/adapters/watch"
	"github.com/okian/skillboard/internal/config"
	"github.com/okian/skillboard/internal/domain/changes"
	"github.com/okian/skillboard/internal/domain/csvparse"
	"github.com/okian/skillboard/internal/domain/model"
	"github.com/okian/skillboard/internal/domain/names"
	"github.com/okian/skillboard/internal/domain/normalize"
	"github.com/okian/skillboard/internal/domain/ranking"
	"github.com/okian/skillboard/internal/domain/scoring"
	"github.com/okian/skillboard/pkg/logger"
	"github.com/okian/skillboard/pkg/metrics"
)

const (
	systemMetricsInterval = 10 * time.Second
	defaultStopTimeout    = 30 * time.Second
)

// Update signals that a board published a new state. Consumers read the
// state itself from the service.
type Update struct {
	Board   string
	Version uint64
}

// Service owns every board and the machinery that refreshes them.
type Service struct {
	mu sync.RWMutex

	cfg       *config.Config
	scorer    *scoring.Scorer
	confirmed names.Set

	participants *Board[model.Participant]
	volunteers   *Board[model.Volunteer]

	participantSource source.Fetcher
	volunteerSource   source.Fetcher
	store             snapshot.Store
	ownsStore         bool

	queue   *queue.InMemoryQueue
	worker  *worker.InMemoryWorker
	watcher *watch.Watcher

	umu     sync.Mutex
	latest  map[string]Update
	updates chan struct{}

	now     func() time.Time
	started bool
	stopped bool
	stopCh  chan struct{}
	wg      sync.WaitGroup

	logger logger.Logger
}

// New builds a Service from configuration. Nothing runs until Start.
func New(cfg *config.Config, opts ...Option) (*Service, error) {
	if cfg == nil {
		cfg = config.New()
	}
	s := &Service{
		cfg:    cfg,
		now:    time.Now,
		stopCh: make(chan struct{}),
		logger: logger.Get().Named("service"),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.scorer = scoring.New(
		scoring.WithTotalCourses(cfg.TotalCourses),
		scoring.WithTierThresholds(cfg.TierThresholds),
		scoring.WithStudentMultiplier(cfg.StudentMultiplier),
	)
	s.confirmed = names.NewSet(cfg.ConfirmedNames...)

	if s.store == nil {
		st, err := snapshot.Open(cfg.SnapshotBackend, cfg.SnapshotPath)
		if err != nil {
			return nil, fmt.Errorf("open snapshot store: %w", err)
		}
		s.store, s.ownsStore = st, true
	}
	if s.participantSource == nil {
		s.participantSource = source.New(cfg.LeaderboardDataSource, source.WithTimeout(cfg.FetchTimeout()))
	}
	if s.volunteerSource == nil && cfg.VolunteerDataSource != "" {
		s.volunteerSource = source.NewCachedFetcher(
			source.New(cfg.VolunteerDataSource, source.WithTimeout(cfg.FetchTimeout())),
			cfg.FetchCacheTTL(),
		)
	}

	norm := normalize.New(normalize.WithScorer(s.scorer))
	ranker := ranking.New(
		ranking.WithOverrides(names.NewRankOverrides(cfg.RankOverrides())),
		ranking.WithCoreTeamThreshold(cfg.CoreTeamThreshold),
	)
	parser := csvparse.New()

	s.participants = newBoard(s, BoardParticipants, s.participantSource, parser, model.Participant.Key,
		pipeline[model.Participant]{
			build: func(rows []csvparse.Row, at time.Time) ([]model.Participant, normalize.Report) {
				items, rep := norm.Participants(rows, at)
				return ranker.Participants(items), rep
			},
			detect: changes.Participants,
		})

	if s.volunteerSource != nil {
		s.volunteers = newBoard(s, BoardVolunteers, s.volunteerSource, parser, model.Volunteer.Key,
			pipeline[model.Volunteer]{
				build: func(rows []csvparse.Row, _ time.Time) ([]model.Volunteer, normalize.Report) {
					items, rep := norm.Volunteers(rows)
					return ranker.Volunteers(items), rep
				},
				detect: changes.Volunteers,
			})
	}

	boards := len(s.Boards())
	s.latest = make(map[string]Update, boards)
	s.updates = make(chan struct{}, 1)
	s.queue = queue.NewInMemoryQueue(
		queue.WithCapacity(cfg.TriggerQueueSize*boards),
		queue.WithPerBoard(cfg.TriggerQueueSize),
	)
	return s, nil
}

func newBoard[T any](s *Service, name string, f source.Fetcher, p *csvparse.Parser, key func(T) string, steps pipeline[T]) *Board[T] {
	return &Board[T]{
		name:    name,
		fetcher: f,
		parser:  p,
		steps:   steps,
		store:   repository.NewBoardStore(name, key),
		cache: snapshot.NewCache[[]T](s.store, name,
			snapshot.WithFreshness(s.cfg.CacheFreshness()),
			snapshot.WithNow(s.now),
		),
		now:     s.now,
		logger:  s.logger,
		publish: s.notify,
	}
}

// Boards lists the enabled boards.
func (s *Service) Boards() []string {
	out := []string{BoardParticipants}
	if s.volunteers != nil {
		out = append(out, BoardVolunteers)
	}
	return out
}

// HasBoard reports whether board is enabled.
func (s *Service) HasBoard(board string) bool {
	return slices.Contains(s.Boards(), board)
}

// Updates receives a value whenever a board published since the last call
// to TakeUpdates. Publishes are coalesced per board, so a slow consumer
// misses intermediate versions but never a board.
func (s *Service) Updates() <-chan struct{} {
	return s.updates
}

// TakeUpdates returns and clears the latest pending Update of every board
// that published, ordered by board name.
func (s *Service) TakeUpdates() []Update {
	s.umu.Lock()
	defer s.umu.Unlock()
	out := make([]Update, 0, len(s.latest))
	for _, u := range s.latest {
		out = append(out, u)
	}
	clear(s.latest)
	slices.SortFunc(out, func(a, b Update) int { return strings.Compare(a.Board, b.Board) })
	return out
}

func (s *Service) notify(board string, version uint64) {
	s.umu.Lock()
	if prev, ok := s.latest[board]; !ok || prev.Version < version {
		s.latest[board] = Update{Board: board, Version: version}
	}
	s.umu.Unlock()
	select {
	case s.updates <- struct{}{}:
	default:
	}
}

// Start launches the refresh worker, the pollers and the optional file
// watcher, then queues a startup refresh for every board.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.stopped {
		return ErrStopped
	}
	s.logger.Info(ctx, "starting skillboard service...", logger.Any("boards", s.Boards()))

	s.worker = worker.NewInMemoryWorker(s.queue, s,
		worker.WithName("refresh"),
		worker.WithLogger(s.logger.Named("worker")),
		worker.WithOnDone(s.afterCycle),
	)
	go s.worker.Run(ctx)

	for board, every := range s.intervals() {
		s.wg.Add(1)
		go s.poll(ctx, board, every)
	}

	if s.cfg.WatchFiles {
		if err := s.startWatcher(ctx); err != nil {
			s.logger.Warn(ctx, "file watching disabled", logger.Error(err))
		}
	}

	s.wg.Add(1)
	go s.sampleSystem(ctx)

	s.started = true
	for _, board := range s.Boards() {
		if err := s.queue.Enqueue(ctx, queue.NewTrigger(board, queue.ReasonStartup)); err != nil {
			s.logger.Warn(ctx, "startup trigger dropped", logger.String("board", board), logger.Error(err))
		}
	}

	s.logger.Info(ctx, "skillboard service started",
		logger.String("snapshotBackend", s.cfg.SnapshotBackend),
		logger.Int("triggerQueueSize", s.cfg.TriggerQueueSize),
	)
	return nil
}

// Stop shuts everything down. A running cycle is given until ctx expires.
func (s *Service) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return s.closeStore()
	}
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, defaultStopTimeout)
		defer cancel()
	}

	s.logger.Info(ctx, "stopping skillboard service...")
	close(s.stopCh)

	if s.watcher != nil {
		if err := s.watcher.Stop(); err != nil {
			s.logger.Warn(ctx, "watcher close failed", logger.Error(err))
		}
	}
	if n := s.queue.Len(ctx); n > 0 {
		s.logger.Info(ctx, "discarding queued triggers", logger.Int("triggers", n))
	}
	_ = s.queue.Close()
	err := s.worker.Shutdown(ctx)
	s.wg.Wait()

	s.started = false
	s.stopped = true
	if cerr := s.closeStore(); cerr != nil && err == nil {
		err = cerr
	}
	s.logger.Info(ctx, "skillboard service stopped")
	return err
}

func (s *Service) closeStore() error {
	if !s.ownsStore || s.store == nil {
		return nil
	}
	st := s.store
	s.store = nil
	return st.Close()
}

// Refresh runs one cycle for board synchronously.
func (s *Service) Refresh(ctx context.Context, board string) error {
	switch {
	case board == BoardParticipants:
		_, err := s.participants.Refresh(ctx)
		return err
	case board == BoardVolunteers && s.volunteers != nil:
		_, err := s.volunteers.Refresh(ctx)
		return err
	default:
		return fmt.Errorf("%w: %q", ErrUnknownBoard, board)
	}
}

// RefreshAll refreshes every board concurrently and returns the first error.
func (s *Service) RefreshAll(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, board := range s.Boards() {
		g.Go(func() error { return s.Refresh(ctx, board) })
	}
	return g.Wait()
}

// Trigger queues an asynchronous refresh for board. A manual trigger also
// drops any cached fetch body so the refresh reads the source again.
func (s *Service) Trigger(ctx context.Context, board string, reason queue.Reason) error {
	if !s.HasBoard(board) {
		return fmt.Errorf("%w: %q", ErrUnknownBoard, board)
	}
	s.mu.RLock()
	started := s.started
	s.mu.RUnlock()
	if !started {
		if s.queue.IsClosed() {
			return ErrStopped
		}
		return ErrNotStarted
	}
	if reason == queue.ReasonManual {
		s.invalidate(board)
	}
	return s.queue.Enqueue(ctx, queue.NewTrigger(board, reason))
}

func (s *Service) invalidate(board string) {
	f := s.participantSource
	if board == BoardVolunteers {
		f = s.volunteerSource
	}
	if c, ok := f.(interface{ Invalidate() }); ok {
		c.Invalidate()
	}
}

func (s *Service) afterCycle(t queue.Trigger, err error) {
	if err != nil && isBusy(err) {
		s.logger.Debug(context.Background(), "cycle skipped, board busy", logger.String("board", t.Board))
	}
}

func (s *Service) intervals() map[string]time.Duration {
	out := make(map[string]time.Duration, 2)
	if d := s.cfg.RefreshInterval(); d > 0 {
		out[BoardParticipants] = d
	}
	if d := s.cfg.VolunteerRefreshInterval(); d > 0 && s.volunteers != nil {
		out[BoardVolunteers] = d
	}
	return out
}

// poll enqueues a timer trigger every interval. Ticks that find a trigger
// already pending are dropped by the queue.
func (s *Service) poll(ctx context.Context, board string, every time.Duration) {
	defer s.wg.Done()
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.stopCh:
			return
		case <-ticker.C:
			if err := s.queue.Enqueue(ctx, queue.NewTrigger(board, queue.ReasonTimer)); err != nil {
				s.logger.Debug(ctx, "timer trigger dropped", logger.String("board", board), logger.Error(err))
			}
		}
	}
}

func (s *Service) startWatcher(ctx context.Context) error {
	files := make(map[string]string, 2)
	for board, f := range map[string]source.Fetcher{
		BoardParticipants: s.participantSource,
		BoardVolunteers:   s.volunteerSource,
	} {
		if f != nil && !source.IsRemote(f.Location()) {
			files[board] = f.Location()
		}
	}
	if len(files) == 0 {
		return nil
	}
	w, err := watch.New(files, func(ctx context.Context, board string) {
		if err := s.queue.Enqueue(ctx, queue.NewTrigger(board, queue.ReasonWatch)); err != nil {
			s.logger.Debug(ctx, "watch trigger dropped", logger.String("board", board), logger.Error(err))
		}
	}, watch.WithLogger(s.logger.Named("watch")))
	if err != nil {
		return err
	}
	w.Start(ctx)
	s.watcher = w
	return nil
}

// sampleSystem publishes process memory and goroutine gauges.
func (s *Service) sampleSystem(ctx context.Context) {
	defer s.wg.Done()
	ticker := time.NewTicker(systemMetricsInterval)
	defer ticker.Stop()

	update := func() {
		var m runtime.MemStats
		runtime.ReadMemStats(&m)
		metrics.UpdateSystemMemoryUsage(m.Alloc)
		metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())
	}
	update()
	for {
		select {
		case <-ctx.Done():
			return
		case <-s.stopCh:
			return
		case <-ticker.C:
			update()
		}
	}
}
