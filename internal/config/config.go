// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() initializer to build a Config with defaults.
// - Loading functions accept context.Context as the first parameter.
// - Validation failures wrap ErrInvalidConfig.
package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log handler: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// BackendURL is the base of the leaderboard API (GET /leaderboard?milestone=).
	BackendURL string `koanf:"backend_url"`

	// FrontendURL is the base used to build shareable results links.
	FrontendURL string `koanf:"frontend_url"`

	// MilestonesURL locates the milestone configuration document.
	MilestonesURL string `koanf:"milestones_url"`

	// UpstreamTimeoutMS bounds upstream fetches; 0 disables the timeout.
	UpstreamTimeoutMS int `koanf:"upstream_timeout_ms"`

	// EventQueueSize bounds each session's message queue.
	EventQueueSize int `koanf:"queue_size"`

	// DedupeSize bounds the per-session set of applied action ids.
	DedupeSize int `koanf:"dedupe_size"`

	// SessionTTLSeconds expires idle sessions.
	SessionTTLSeconds int `koanf:"session_ttl_seconds"`

	// MaxSessions caps the number of live sessions (LRU eviction beyond).
	MaxSessions int `koanf:"max_sessions"`

	// FenceStaleResponses drops leaderboard responses superseded by a newer request.
	FenceStaleResponses bool `koanf:"fence_stale_responses"`

	// QRSize is the PNG edge length in pixels.
	QRSize int `koanf:"qr_size"`

	// QRCacheSize bounds the rendered QR cache.
	QRCacheSize int `koanf:"qr_cache_size"`
}

// New creates a Config populated with local-development defaults.
func New() *Config {
	return &Config{
		LogLevel:            "info",
		LogFormat:           "text",
		Addr:                ":9080",
		BackendURL:          "http://localhost:8000",
		FrontendURL:         "http://localhost:3000",
		MilestonesURL:       "http://localhost:8000/milestones.json",
		UpstreamTimeoutMS:   0,
		EventQueueSize:      256,
		DedupeSize:          1024,
		SessionTTLSeconds:   1800,
		MaxSessions:         10_000,
		FenceStaleResponses: true,
		QRSize:              256,
		QRCacheSize:         512,
	}
}

// UpstreamTimeout returns the fetch timeout as a duration.
func (c *Config) UpstreamTimeout() time.Duration {
	return time.Duration(c.UpstreamTimeoutMS) * time.Millisecond
}

// SessionTTL returns the idle session lifetime.
func (c *Config) SessionTTL() time.Duration {
	return time.Duration(c.SessionTTLSeconds) * time.Second
}

// Validate checks invariants the rest of the service relies on.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Addr) == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	for name, raw := range map[string]string{
		"backend_url":    c.BackendURL,
		"frontend_url":   c.FrontendURL,
		"milestones_url": c.MilestonesURL,
	} {
		u, err := url.Parse(raw)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("%w: %s must be an absolute URL, got %q", ErrInvalidConfig, name, raw)
		}
	}
	if c.UpstreamTimeoutMS < 0 {
		return fmt.Errorf("%w: upstream_timeout_ms must not be negative", ErrInvalidConfig)
	}
	if c.EventQueueSize < 1 {
		return fmt.Errorf("%w: queue_size must be positive", ErrInvalidConfig)
	}
	if c.MaxSessions < 1 {
		return fmt.Errorf("%w: max_sessions must be positive", ErrInvalidConfig)
	}
	if c.QRSize < 64 {
		return fmt.Errorf("%w: qr_size must be at least 64", ErrInvalidConfig)
	}
	return nil
}
