// Package site serves the server-rendered leaderboard page.
//
// Each browser gets a session identified by a cookie. Form posts apply an
// action and redirect back to the board; a websocket tells the page when a
// fetch has finished so it can reload.
package site

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/okian/leaderview/internal/adapters/http/api"
	service "github.com/okian/leaderview/internal/app"
	"github.com/okian/leaderview/internal/view"
	"github.com/okian/leaderview/pkg/logger"
)

const (
	// CookieName carries the session id.
	CookieName = "leaderview_session"

	defaultSettleTimeout = 2 * time.Second
)

// Dependencies required by the site handlers.
type Dependencies interface {
	CreateSession(ctx context.Context) (*service.Session, error)
	Session(ctx context.Context, id string) (*service.Session, error)
}

// QREncoder renders share targets as PNG images.
type QREncoder interface {
	PNG(target string) ([]byte, error)
}

// Handler serves the board page and its actions.
type Handler struct {
	deps          Dependencies
	qr            QREncoder
	settleTimeout time.Duration
	logger        logger.Logger
}

// Option applies a configuration option to the Handler.
type Option func(*Handler)

// WithSettleTimeout bounds how long a page render waits for pending fetches.
func WithSettleTimeout(d time.Duration) Option {
	return func(h *Handler) {
		if d > 0 {
			h.settleTimeout = d
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(l logger.Logger) Option {
	return func(h *Handler) {
		if l != nil {
			h.logger = l
		}
	}
}

// NewHandler creates the site handler.
func NewHandler(deps Dependencies, qr QREncoder, opts ...Option) *Handler {
	h := &Handler{deps: deps, qr: qr, settleTimeout: defaultSettleTimeout}
	for _, opt := range opts {
		opt(h)
	}
	if h.logger == nil {
		h.logger = logger.Get().Named("site")
	}
	return h
}

// Register attaches the site routes to mux.
func (h *Handler) Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}
	mux.HandleFunc("GET /{$}", api.MetricsMiddleware(h.HandleBoard, "board"))
	mux.HandleFunc("POST /actions", api.MetricsMiddleware(h.HandleAction, "actions"))
	mux.HandleFunc("GET /share/qr.png", api.MetricsMiddleware(h.HandleQR, "share_qr"))
	mux.HandleFunc("GET /ws", api.MetricsMiddleware(h.HandleWS, "ws"))
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(StaticFS())))
}

type boardPage struct {
	SessionID string
	View      view.Snapshot
}

// HandleBoard handles GET /. A first visit opens a session.
func (h *Handler) HandleBoard(w http.ResponseWriter, r *http.Request) {
	sess, err := h.session(w, r, true)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.settleTimeout)
	defer cancel()
	snap := sess.Settle(ctx)

	var buf bytes.Buffer
	if err := boardTemplate.Execute(&buf, boardPage{SessionID: sess.ID(), View: snap}); err != nil {
		h.logger.Error(r.Context(), "failed to render board", logger.Error(err))
		http.Error(w, ErrRender.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = buf.WriteTo(w)
}

// HandleAction handles POST /actions and redirects back to the board.
func (h *Handler) HandleAction(w http.ResponseWriter, r *http.Request) {
	sess, err := h.session(w, r, false)
	if err != nil {
		if errors.Is(err, service.ErrSessionNotFound) {
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}
		h.fail(w, r, err)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	action := service.Action{
		ID:        r.PostForm.Get("action_id"),
		Type:      r.PostForm.Get("type"),
		Milestone: r.PostForm.Get("milestone"),
		TxID:      r.PostForm.Get("tx_id"),
	}
	if _, err := sess.Apply(r.Context(), action); err != nil {
		h.fail(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.settleTimeout)
	defer cancel()
	sess.Settle(ctx)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// HandleQR handles GET /share/qr.png for the open share dialog.
func (h *Handler) HandleQR(w http.ResponseWriter, r *http.Request) {
	sess, err := h.session(w, r, false)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	dialog := sess.Snapshot().Dialog
	if !dialog.Open || dialog.Target == "" {
		http.Error(w, ErrNoShare.Error(), http.StatusNotFound)
		return
	}
	png, err := h.qr.PNG(dialog.Target)
	if err != nil {
		h.logger.Error(r.Context(), "failed to render qr code", logger.String("target", dialog.Target), logger.Error(err))
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(png)
}

// session returns the cookie's session, opening a new one when create is set.
func (h *Handler) session(w http.ResponseWriter, r *http.Request, create bool) (*service.Session, error) {
	if c, err := r.Cookie(CookieName); err == nil && c.Value != "" {
		sess, err := h.deps.Session(r.Context(), c.Value)
		if err == nil {
			return sess, nil
		}
		if !errors.Is(err, service.ErrSessionNotFound) {
			return nil, err
		}
	}
	if !create {
		return nil, service.ErrSessionNotFound
	}

	sess, err := h.deps.CreateSession(r.Context())
	if err != nil {
		return nil, err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    sess.ID(),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return sess, nil
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrSessionNotFound), errors.Is(err, service.ErrSessionClosed):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, service.ErrUnknownAction), errors.Is(err, service.ErrInvalidAction):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, service.ErrQueueFull):
		http.Error(w, err.Error(), http.StatusTooManyRequests)
	case errors.Is(err, service.ErrNotStarted):
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
	default:
		h.logger.Error(r.Context(), "request failed", logger.String("path", r.URL.Path), logger.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}
