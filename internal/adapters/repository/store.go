// Package repository keeps live viewer sessions in a bounded, expiring LRU.
package repository

import (
	"context"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/okian/leaderview/pkg/metrics"
)

const (
	defaultCapacity = 10000
	defaultTTL      = 30 * time.Minute
)

// Session is what the store holds. Close must be idempotent; the store
// calls it when the entry is evicted, expires or is removed.
type Session interface {
	ID() string
	Close()
	Closed() bool
}

// Store provides lookup of sessions by id.
type Store interface {
	// Put adds or replaces a session.
	Put(ctx context.Context, s Session) error
	// Get returns the session and extends its lifetime.
	// Returns ErrNotFound if it is unknown or expired.
	Get(ctx context.Context, id string) (Session, error)
	// Remove closes and forgets a session.
	Remove(ctx context.Context, id string) bool
	// Count returns the number of live sessions.
	Count(ctx context.Context) int
	// All returns the live sessions, oldest first.
	All(ctx context.Context) []Session
	// Purge closes every session.
	Purge(ctx context.Context)
}

// LRUStore implements Store on an expirable LRU. Reads count as use, so
// an active viewer keeps its session.
type LRUStore struct {
	mu       sync.Mutex
	cache    *expirable.LRU[string, Session]
	capacity int
	ttl      time.Duration
}

// NewLRUStore creates a session store with configuration options.
func NewLRUStore(opts ...Option) *LRUStore {
	s := &LRUStore{capacity: defaultCapacity, ttl: defaultTTL}
	for _, opt := range opts {
		opt(s)
	}
	s.cache = expirable.NewLRU[string, Session](s.capacity, onEvict, s.ttl)
	metrics.UpdateSessionsActive(0)
	return s
}

// onEvict runs under the cache lock and must not call back into the store.
func onEvict(_ string, sess Session) {
	sess.Close()
	metrics.RecordSessionEvicted()
}

// Put adds or replaces a session.
func (s *LRUStore) Put(ctx context.Context, sess Session) error {
	if sess == nil || sess.ID() == "" {
		return ErrInvalidID
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if old, ok := s.cache.Peek(sess.ID()); ok && old != sess {
		old.Close()
	}
	s.cache.Add(sess.ID(), sess)
	metrics.UpdateSessionsActive(s.cache.Len())
	return nil
}

// Get returns the session with id and refreshes its expiry.
func (s *LRUStore) Get(ctx context.Context, id string) (Session, error) {
	if id == "" {
		return nil, ErrInvalidID
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.cache.Get(id)
	if !ok || sess.Closed() {
		return nil, ErrNotFound
	}
	s.cache.Add(id, sess)
	return sess, nil
}

// Remove closes and forgets the session with id.
func (s *LRUStore) Remove(ctx context.Context, id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := s.cache.Remove(id)
	metrics.UpdateSessionsActive(s.cache.Len())
	return removed
}

// Count returns the number of live sessions.
func (s *LRUStore) Count(ctx context.Context) int {
	n := s.cache.Len()
	metrics.UpdateSessionsActive(n)
	return n
}

// All returns the live sessions, oldest first.
func (s *LRUStore) All(ctx context.Context) []Session {
	return s.cache.Values()
}

// Purge closes every session.
func (s *LRUStore) Purge(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cache.Purge()
	metrics.UpdateSessionsActive(0)
}
