// Package remote fetches the milestone document and leaderboard rows over HTTP.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/okian/leaderview/internal/domain/milestone"
	"github.com/okian/leaderview/internal/domain/types"
	"github.com/okian/leaderview/pkg/metrics"
)

const (
	// RequestIDHeader carries the per-request id sent upstream.
	RequestIDHeader = "X-Request-ID"

	// LeaderboardPath is the backend route serving rows for one milestone.
	LeaderboardPath = "/leaderboard"

	sourceMilestones  = "milestones"
	sourceLeaderboard = "leaderboard"

	maxBodyBytes = 8 << 20
)

// Client talks to the milestone document host and the leaderboard backend.
type Client struct {
	httpClient    *http.Client
	backendURL    string
	milestonesURL string
}

// New creates a Client. With no options requests have no timeout.
func New(backendURL, milestonesURL string, opts ...Option) *Client {
	c := &Client{
		httpClient:    &http.Client{},
		backendURL:    strings.TrimRight(backendURL, "/"),
		milestonesURL: milestonesURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchConfig downloads and validates the milestone document.
func (c *Client) FetchConfig(ctx context.Context) (types.MilestoneConfig, error) {
	body, err := c.get(ctx, sourceMilestones, c.milestonesURL)
	if err != nil {
		return types.MilestoneConfig{}, err
	}
	cfg, err := milestone.Parse(body)
	if err != nil {
		metrics.RecordUpstreamRequest(sourceMilestones, "decode_error")
		return types.MilestoneConfig{}, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	metrics.RecordUpstreamRequest(sourceMilestones, "ok")
	return cfg, nil
}

// FetchLeaderboard returns the rows of milestoneID. A body that is valid JSON
// but not an array yields no rows and no error.
func (c *Client) FetchLeaderboard(ctx context.Context, milestoneID string) ([]types.Entry, error) {
	endpoint := c.backendURL + LeaderboardPath + "?milestone=" + url.QueryEscape(milestoneID)
	body, err := c.get(ctx, sourceLeaderboard, endpoint)
	if err != nil {
		return nil, err
	}

	var raw json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		metrics.RecordUpstreamRequest(sourceLeaderboard, "decode_error")
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '[' {
		metrics.RecordUpstreamRequest(sourceLeaderboard, "not_array")
		return []types.Entry{}, nil
	}

	rows := []types.Entry{}
	if err := json.Unmarshal(raw, &rows); err != nil {
		metrics.RecordUpstreamRequest(sourceLeaderboard, "decode_error")
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	metrics.RecordUpstreamRequest(sourceLeaderboard, "ok")
	return rows, nil
}

func (c *Client) get(ctx context.Context, source, endpoint string) ([]byte, error) {
	start := time.Now()
	defer func() {
		metrics.RecordUpstreamLatency(source, float64(time.Since(start).Milliseconds()))
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		metrics.RecordUpstreamRequest(source, "request_error")
		return nil, fmt.Errorf("%w: %w", ErrRequest, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, uuid.NewString())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.RecordUpstreamRequest(source, "request_error")
		return nil, fmt.Errorf("%w: %w", ErrRequest, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		metrics.RecordUpstreamRequest(source, "request_error")
		return nil, fmt.Errorf("%w: reading body: %w", ErrRequest, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		metrics.RecordUpstreamRequest(source, "status_error")
		return nil, fmt.Errorf("%w: %s returned %d", ErrStatus, source, resp.StatusCode)
	}
	return body, nil
}
