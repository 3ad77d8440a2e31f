package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	service "github.com/okian/leaderview/internal/app"
)

const (
	maxActionBytes = 4 << 10
	maxWait        = 30 * time.Second
)

// SessionsHandler serves the session endpoints.
type SessionsHandler struct {
	deps Dependencies
}

// NewSessionsHandler creates a new sessions handler.
func NewSessionsHandler(deps Dependencies) *SessionsHandler {
	return &SessionsHandler{deps: deps}
}

// HandleCreate handles POST /api/sessions. The new session starts loading
// immediately; the response carries its first snapshot.
func (h *SessionsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	sess, err := h.deps.CreateSession(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	w.Header().Set("Location", "/api/sessions/"+sess.ID())
	writeJSON(w, http.StatusCreated, sessionResponse{ID: sess.ID(), View: sess.Snapshot()})
}

// HandleGet handles GET /api/sessions/{id}.
//
// With ?after=<version> the request waits until the view is newer than
// that version; wait_ms bounds the wait (default and maximum 30s).
func (h *SessionsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	sess, err := h.deps.Session(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	q := r.URL.Query()
	if q.Get("after") == "" {
		writeJSON(w, http.StatusOK, sessionResponse{ID: sess.ID(), View: sess.Snapshot()})
		return
	}

	after, err := strconv.ParseUint(q.Get("after"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: after must be a version number", ErrBadRequest))
		return
	}
	wait := maxWait
	if raw := q.Get("wait_ms"); raw != "" {
		ms, err := strconv.Atoi(raw)
		if err != nil || ms < 0 {
			writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: wait_ms must be a non-negative integer", ErrBadRequest))
			return
		}
		if d := time.Duration(ms) * time.Millisecond; d < wait {
			wait = d
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), wait)
	defer cancel()
	snap, err := sess.WaitVersion(ctx, after)
	if err != nil && !errors.Is(err, context.DeadlineExceeded) {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse{ID: sess.ID(), View: snap})
}

// HandleDelete handles DELETE /api/sessions/{id}.
func (h *SessionsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if !h.deps.CloseSession(r.Context(), r.PathValue("id")) {
		writeError(w, http.StatusNotFound, "not_found", service.ErrSessionNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleAction handles POST /api/sessions/{id}/actions.
// A new action is answered with 202, a repeated action_id with 200.
func (h *SessionsHandler) HandleAction(w http.ResponseWriter, r *http.Request) {
	sess, err := h.deps.Session(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	var action service.Action
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxActionBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&action); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: %w", ErrBadRequest, err))
		return
	}

	duplicate, err := sess.Apply(r.Context(), action)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if duplicate {
		writeJSON(w, http.StatusOK, ackResponse{Status: "duplicate", Duplicate: true})
		return
	}
	writeJSON(w, http.StatusAccepted, ackResponse{Status: "accepted"})
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrSessionNotFound), errors.Is(err, service.ErrSessionClosed):
		writeError(w, http.StatusNotFound, "not_found", err)
	case errors.Is(err, service.ErrUnknownAction), errors.Is(err, service.ErrInvalidAction):
		writeError(w, http.StatusBadRequest, "invalid_action", err)
	case errors.Is(err, service.ErrQueueFull):
		writeError(w, http.StatusTooManyRequests, "backpressure", fmt.Errorf("%w: %w", ErrBackpressure, err))
	case errors.Is(err, service.ErrNotStarted):
		writeError(w, http.StatusServiceUnavailable, "unavailable", err)
	default:
		writeError(w, http.StatusInternalServerError, "internal", err)
	}
}
