package repository

import "time"

// Option applies a configuration option to the LRUStore.
type Option func(*LRUStore)

// WithCapacity bounds the number of live sessions; the least recently used one is evicted first.
func WithCapacity(n int) Option {
	return func(s *LRUStore) {
		if n > 0 {
			s.capacity = n
		}
	}
}

// WithTTL sets how long an unused session lives.
func WithTTL(ttl time.Duration) Option {
	return func(s *LRUStore) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}
