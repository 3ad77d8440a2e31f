package api

import (
	"encoding/json"
	"net/http"
)

// StatsProvider reports live session counters: sessions, queuedMessages,
// inflightFetches and uptimeSeconds, next to the configured queueSize,
// dedupeSize, maxSessions and fenceStale.
type StatsProvider interface {
	GetStats() map[string]interface{}
}

// StatsHandler serves the session counters the dashboard polls.
type StatsHandler struct {
	sessions StatsProvider
}

// NewStatsHandler creates a stats handler over the session service.
func NewStatsHandler(sessions StatsProvider) *StatsHandler {
	return &StatsHandler{sessions: sessions}
}

// HandleStats writes the current session counters as JSON. The numbers are
// a point-in-time read, so responses are never cached.
func (h *StatsHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_ = json.NewEncoder(w).Encode(h.sessions.GetStats())
}
