package service

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	eventqueue "github.com/okian/leaderview/internal/adapters/mq/queue"
	"github.com/okian/leaderview/internal/adapters/mq/worker"
	"github.com/okian/leaderview/internal/domain/dedupe"
	"github.com/okian/leaderview/internal/domain/types"
	"github.com/okian/leaderview/internal/view"
	"github.com/okian/leaderview/pkg/logger"
	"github.com/okian/leaderview/pkg/metrics"
)

const workerShutdownTimeout = 5 * time.Second

// Fetcher loads the data the view asks for.
type Fetcher interface {
	FetchConfig(ctx context.Context) (types.MilestoneConfig, error)
	FetchLeaderboard(ctx context.Context, milestoneID string) ([]types.Entry, error)
}

// Session is the view of one viewer. Messages are applied one at a time by
// the session worker; fetches run on their own goroutines and post their
// results back into the queue.
type Session struct {
	id        string
	createdAt time.Time

	queue   *eventqueue.InMemoryQueue
	worker  *worker.InMemoryWorker
	deduper dedupe.Deduper
	fetcher Fetcher
	logger  logger.Logger

	ctx    context.Context
	cancel context.CancelFunc

	mu    sync.RWMutex
	state view.State

	subMu  sync.Mutex
	subs   map[chan uint64]struct{}
	closed atomic.Bool

	closeOnce sync.Once
	inflight  atomic.Int64
}

type sessionConfig struct {
	id         string
	viewOpts   view.Options
	queueSize  int
	dedupeSize int
	fetcher    Fetcher
	logger     logger.Logger
}

func newSession(cfg sessionConfig) *Session {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Session{
		id:        cfg.id,
		createdAt: time.Now(),
		queue:     eventqueue.NewInMemoryQueue(eventqueue.WithCapacity(cfg.queueSize)),
		deduper:   dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(cfg.dedupeSize)),
		fetcher:   cfg.fetcher,
		logger:    cfg.logger.With(logger.String("session", cfg.id)),
		ctx:       ctx,
		cancel:    cancel,
		state:     view.New(cfg.viewOpts),
		subs:      make(map[chan uint64]struct{}),
	}
	s.worker = worker.NewInMemoryWorker(s.queue, s,
		worker.WithName("session-worker"),
		worker.WithLogger(s.logger),
	)
	go s.worker.Run(ctx)
	return s
}

// ID returns the session id.
func (s *Session) ID() string { return s.id }

// CreatedAt returns when the session was opened.
func (s *Session) CreatedAt() time.Time { return s.createdAt }

// Snapshot returns the current render model.
func (s *Session) Snapshot() view.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Snapshot()
}

// State returns the current view state.
func (s *Session) State() view.State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Dispatch queues msg. When actionID is set and was seen before, the
// message is dropped and duplicate is true.
func (s *Session) Dispatch(ctx context.Context, actionID string, msg view.Msg) (duplicate bool, err error) {
	if s.closed.Load() {
		return false, ErrSessionClosed
	}
	if actionID != "" && s.deduper.SeenAndRecord(ctx, actionID) {
		metrics.RecordDuplicateAction()
		s.logger.Debug(ctx, "duplicate action ignored", logger.String("action_id", actionID))
		return true, nil
	}
	if !s.queue.Enqueue(ctx, msg) {
		if actionID != "" {
			s.deduper.Unrecord(ctx, actionID)
		}
		if s.closed.Load() {
			return false, ErrSessionClosed
		}
		return false, ErrQueueFull
	}
	return false, nil
}

// Apply converts and dispatches a client action.
func (s *Session) Apply(ctx context.Context, a Action) (duplicate bool, err error) {
	msg, err := a.Msg()
	if err != nil {
		return false, err
	}
	return s.Dispatch(ctx, a.ID, msg)
}

// barrier is queued by Flush; the worker closes done when it reaches it.
type barrier struct{ done chan struct{} }

func (barrier) Kind() string { return "barrier" }

// Flush waits until every message queued before the call has been applied.
func (s *Session) Flush(ctx context.Context) error {
	if s.closed.Load() {
		return ErrSessionClosed
	}
	b := barrier{done: make(chan struct{})}
	if !s.queue.Enqueue(ctx, b) {
		if s.closed.Load() {
			return ErrSessionClosed
		}
		return ErrQueueFull
	}
	select {
	case <-b.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Settle flushes pending actions and then waits, until ctx is done, for
// fetches the view is waiting on. It returns the latest snapshot either way.
func (s *Session) Settle(ctx context.Context) view.Snapshot {
	if err := s.Flush(ctx); err != nil {
		return s.Snapshot()
	}
	snap := s.Snapshot()
	for snap.ConfigLoading || snap.LeaderboardLoading {
		next, err := s.WaitVersion(ctx, snap.Version)
		if err != nil {
			return s.Snapshot()
		}
		snap = next
	}
	return snap
}

// Handle applies one message. It runs on the session worker only.
func (s *Session) Handle(ctx context.Context, msg worker.Event) error {
	if b, ok := msg.(barrier); ok {
		close(b.done)
		return nil
	}

	s.mu.Lock()
	prev := s.state
	next, effects := view.Update(prev, msg)
	s.state = next
	s.mu.Unlock()

	if loaded, ok := msg.(view.LeaderboardLoaded); ok && prev.Stale(loaded) {
		metrics.RecordStaleResponseDropped()
		s.logger.Debug(ctx, "dropped stale leaderboard response",
			logger.String("milestone", loaded.Milestone),
			logger.Uint64("seq", loaded.Seq),
		)
	}
	if next.Version() != prev.Version() {
		s.publish(next.Version())
	}
	for _, eff := range effects {
		s.run(eff)
	}
	return nil
}

func (s *Session) run(eff view.Effect) {
	s.inflight.Add(1)
	switch e := eff.(type) {
	case view.FetchConfig:
		go func() {
			defer s.inflight.Add(-1)
			cfg, err := s.fetcher.FetchConfig(s.ctx)
			if err != nil {
				metrics.RecordErrorByComponent("session", "fetch_config")
				s.logger.Error(s.ctx, "failed to load milestone config",
					logger.String("op", "fetch_config"),
					logger.Error(err),
				)
			}
			s.post(view.ConfigLoaded{Config: cfg, Err: err})
		}()
	case view.FetchLeaderboard:
		go func() {
			defer s.inflight.Add(-1)
			rows, err := s.fetcher.FetchLeaderboard(s.ctx, e.Milestone)
			if err != nil {
				metrics.RecordErrorByComponent("session", "fetch_leaderboard")
				s.logger.Error(s.ctx, "failed to load leaderboard",
					logger.String("op", "fetch_leaderboard"),
					logger.String("milestone", e.Milestone),
					logger.Error(err),
				)
			}
			s.post(view.LeaderboardLoaded{Milestone: e.Milestone, Seq: e.Seq, Rows: rows, Err: err})
		}()
	default:
		s.inflight.Add(-1)
	}
}

// post delivers a fetch result, waiting for room in the queue. It only
// gives up when the session closes.
func (s *Session) post(msg view.Msg) {
	if s.closed.Load() {
		return
	}
	if !s.queue.EnqueueWait(s.ctx, msg) {
		s.logger.Debug(s.ctx, "fetch result discarded after close", logger.String("kind", msg.Kind()))
	}
}

// Subscribe returns a channel receiving the latest state version after
// every change. Only the newest version is kept for slow readers. The
// channel is closed when the session closes or cancel is called.
func (s *Session) Subscribe() (<-chan uint64, func()) {
	ch := make(chan uint64, 1)

	s.subMu.Lock()
	if s.closed.Load() {
		s.subMu.Unlock()
		close(ch)
		return ch, func() {}
	}
	s.subs[ch] = struct{}{}
	s.subMu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.subMu.Lock()
			defer s.subMu.Unlock()
			if _, ok := s.subs[ch]; ok {
				delete(s.subs, ch)
				close(ch)
			}
		})
	}
}

func (s *Session) publish(version uint64) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	for ch := range s.subs {
		select {
		case <-ch:
		default:
		}
		ch <- version
	}
}

// WaitVersion blocks until the state version is greater than after or ctx is done,
// and returns the snapshot at that point.
func (s *Session) WaitVersion(ctx context.Context, after uint64) (view.Snapshot, error) {
	updates, cancel := s.Subscribe()
	defer cancel()

	for {
		snap := s.Snapshot()
		if snap.Version > after {
			return snap, nil
		}
		select {
		case <-ctx.Done():
			return snap, ctx.Err()
		case _, ok := <-updates:
			if !ok {
				return s.Snapshot(), ErrSessionClosed
			}
		}
	}
}

// InFlight returns the number of fetches that have not reported back yet.
func (s *Session) InFlight() int64 { return s.inflight.Load() }

// QueueLen returns the number of pending messages.
func (s *Session) QueueLen() int { return s.queue.Len() }

// Closed reports whether Close has been called.
func (s *Session) Closed() bool { return s.closed.Load() }

// Close stops the worker and releases subscribers. It does not block on
// fetches in flight; their results are discarded.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		s.subMu.Lock()
		s.closed.Store(true)
		for ch := range s.subs {
			delete(s.subs, ch)
			close(ch)
		}
		s.subMu.Unlock()

		_ = s.queue.Close()
		s.cancel()
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), workerShutdownTimeout)
			defer cancel()
			_ = s.worker.Shutdown(ctx)
		}()
	})
}
