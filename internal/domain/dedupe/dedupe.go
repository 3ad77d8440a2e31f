// Package dedupe tracks client action ids so that a retried action is applied once.
package dedupe

import (
	"context"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

const defaultMaxSize = 1024

// Deduper records seen action IDs to ensure at-most-once application.
type Deduper interface {
	// SeenAndRecord atomically checks if id was seen and records it if not.
	// Returns true if id was already seen, false if it was newly recorded.
	SeenAndRecord(ctx context.Context, id string) bool

	// Unrecord forgets id so it can be retried, e.g. after the action
	// could not be queued.
	Unrecord(ctx context.Context, id string)

	Size() int64
}

// inMemoryDeduper keeps the most recent maxSize ids; the least recently
// recorded id is evicted first.
type inMemoryDeduper struct {
	mu      sync.Mutex
	seen    *lru.Cache[string, struct{}]
	maxSize int
}

// NewInMemoryDeduper creates a bounded in-memory deduper.
func NewInMemoryDeduper(opts ...Option) Deduper {
	d := &inMemoryDeduper{maxSize: defaultMaxSize}
	for _, opt := range opts {
		opt(d)
	}
	if d.maxSize <= 0 {
		d.maxSize = defaultMaxSize
	}
	// lru.New only fails for a non-positive size.
	d.seen, _ = lru.New[string, struct{}](d.maxSize)
	return d
}

// SeenAndRecord checks and records id in one step.
func (d *inMemoryDeduper) SeenAndRecord(ctx context.Context, id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.seen.Contains(id) {
		return true
	}
	d.seen.Add(id, struct{}{})
	return false
}

// Unrecord removes id from the seen set.
func (d *inMemoryDeduper) Unrecord(ctx context.Context, id string) {
	d.seen.Remove(id)
}

// Size returns the number of ids currently remembered.
func (d *inMemoryDeduper) Size() int64 {
	return int64(d.seen.Len())
}
