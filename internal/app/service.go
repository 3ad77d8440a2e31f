// Package service owns the viewer sessions and implements the dependencies
// required by the HTTP front-ends.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/okian/leaderview/internal/adapters/repository"
	"github.com/okian/leaderview/internal/view"
	"github.com/okian/leaderview/pkg/logger"
	"github.com/okian/leaderview/pkg/metrics"
)

// Service manages the live sessions.
type Service struct {
	mu sync.RWMutex

	sessions repository.Store
	fetcher  Fetcher

	// Configuration
	frontendURL string
	fenceStale  bool
	queueSize   int
	dedupeSize  int
	maxSessions int
	sessionTTL  time.Duration

	// State
	started   bool
	startedAt time.Time

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithFetcher sets the upstream used by every session.
func WithFetcher(f Fetcher) Option {
	return func(s *Service) {
		if f != nil {
			s.fetcher = f
		}
	}
}

// WithFrontendURL sets the base of shareable results links.
func WithFrontendURL(u string) Option {
	return func(s *Service) {
		if u != "" {
			s.frontendURL = u
		}
	}
}

// WithFenceStale enables or disables dropping superseded leaderboard responses.
func WithFenceStale(enabled bool) Option {
	return func(s *Service) {
		s.fenceStale = enabled
	}
}

// WithQueueSize sets the capacity of each session queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize sets how many action ids each session remembers.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithMaxSessions bounds the number of live sessions.
func WithMaxSessions(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxSessions = n
		}
	}
}

// WithSessionTTL sets how long an idle session is kept.
func WithSessionTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.sessionTTL = ttl
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		frontendURL: "http://localhost:3000",
		fenceStale:  true,
		queueSize:   256,
		dedupeSize:  1024,
		maxSessions: 10000,
		sessionTTL:  30 * time.Minute,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start initializes the session store.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.fetcher == nil {
		return ErrNoFetcher
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}

	s.sessions = repository.NewLRUStore(
		repository.WithCapacity(s.maxSessions),
		repository.WithTTL(s.sessionTTL),
	)
	s.started = true
	s.startedAt = time.Now()

	s.logger.Info(ctx, "leaderboard view service started",
		logger.String("frontend", s.frontendURL),
		logger.Bool("fenceStale", s.fenceStale),
		logger.Int("queueSize", s.queueSize),
		logger.Int("maxSessions", s.maxSessions),
		logger.Duration("sessionTTL", s.sessionTTL),
	)
	return nil
}

// Stop closes every session.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	s.sessions.Purge(context.Background())
	s.started = false
	s.logger.Info(context.Background(), "leaderboard view service stopped")
}

// CreateSession opens a new session and mounts its view, which starts the
// milestone document fetch.
func (s *Service) CreateSession(ctx context.Context) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.started {
		return nil, ErrNotStarted
	}

	sess := newSession(sessionConfig{
		id:         uuid.NewString(),
		viewOpts:   view.Options{FrontendURL: s.frontendURL, FenceStale: s.fenceStale},
		queueSize:  s.queueSize,
		dedupeSize: s.dedupeSize,
		fetcher:    s.fetcher,
		logger:     s.logger,
	})
	if err := s.sessions.Put(ctx, sess); err != nil {
		sess.Close()
		return nil, fmt.Errorf("storing session: %w", err)
	}
	if _, err := sess.Dispatch(ctx, "", view.Mount{}); err != nil {
		s.sessions.Remove(ctx, sess.ID())
		return nil, fmt.Errorf("mounting session: %w", err)
	}

	metrics.RecordSessionCreated()
	s.logger.Debug(ctx, "session created", logger.String("session", sess.ID()))
	return sess, nil
}

// Session returns a live session by id.
func (s *Service) Session(ctx context.Context, id string) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.started {
		return nil, ErrNotStarted
	}
	found, err := s.sessions.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) || errors.Is(err, repository.ErrInvalidID) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	sess, ok := found.(*Session)
	if !ok {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

// CloseSession closes and forgets a session.
func (s *Service) CloseSession(ctx context.Context, id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.started {
		return false
	}
	return s.sessions.Remove(ctx, id)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":     s.started,
		"queueSize":   s.queueSize,
		"dedupeSize":  s.dedupeSize,
		"maxSessions": s.maxSessions,
		"fenceStale":  s.fenceStale,
	}

	if s.started {
		ctx := context.Background()
		queued, inflight := 0, int64(0)
		all := s.sessions.All(ctx)
		for _, entry := range all {
			if sess, ok := entry.(*Session); ok {
				queued += sess.QueueLen()
				inflight += sess.InFlight()
			}
		}

		stats["sessions"] = len(all)
		stats["queuedMessages"] = queued
		stats["inflightFetches"] = inflight
		stats["uptimeSeconds"] = int64(time.Since(s.startedAt).Seconds())

		metrics.UpdateQueueSize(queued)
		metrics.UpdateSessionsActive(len(all))
	}

	return stats
}
