package devbackend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/okian/leaderview/internal/domain/types"
	"github.com/okian/leaderview/pkg/logger"
)

const shutdownTimeout = 5 * time.Second

// Server answers milestone and leaderboard requests. Rows are generated on
// the first request for a milestone and kept for the life of the server.
type Server struct {
	cfg    Config
	logger logger.Logger

	mu   sync.Mutex
	rows map[string][]types.Entry
}

// NewServer validates cfg and creates a Server.
func NewServer(cfg Config) (*Server, error) {
	if cfg.Rows < 0 {
		return nil, fmt.Errorf("%w: rows must not be negative", ErrInvalidConfig)
	}
	if cfg.ShareRatio < 0 || cfg.ShareRatio > 1 {
		return nil, fmt.Errorf("%w: share ratio must be within 0..1", ErrInvalidConfig)
	}
	if cfg.MaxLatency < 0 {
		return nil, fmt.Errorf("%w: latency must not be negative", ErrInvalidConfig)
	}
	return &Server{
		cfg:    cfg,
		logger: logger.Get().Named("devbackend"),
		rows:   make(map[string][]types.Entry),
	}, nil
}

// Handler returns the backend routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /milestones.json", s.handleMilestones)
	mux.HandleFunc("GET /leaderboard", s.handleLeaderboard)
	return mux
}

// Run serves until ctx is done.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info(ctx, "dev backend listening",
			logger.String("addr", s.cfg.Addr),
			logger.Int("milestones", len(s.cfg.Milestones)),
			logger.Int("rows", s.cfg.Rows),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("%w: %w", ErrServe, err)
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("%w: %w", ErrServe, err)
	}
	return nil
}

func (s *Server) handleMilestones(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, types.MilestoneConfig{Milestones: s.cfg.Milestones})
}

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("milestone")
	if id == "" {
		http.Error(w, "milestone is required", http.StatusBadRequest)
		return
	}

	if s.cfg.MaxLatency > 0 {
		delay := time.Duration(getRandomFloat() * float64(s.cfg.MaxLatency))
		select {
		case <-time.After(delay):
		case <-r.Context().Done():
			return
		}
	}

	if slices.Contains(s.cfg.NonArray, id) {
		writeJSON(w, map[string]string{"detail": "leaderboard unavailable"})
		return
	}

	rows := s.leaderboard(id)
	s.logger.Debug(r.Context(), "served leaderboard", logger.String("milestone", id), logger.Int("rows", len(rows)))
	writeJSON(w, rows)
}

func (s *Server) leaderboard(id string) []types.Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	rows, ok := s.rows[id]
	if !ok {
		rows = generateRows(s.cfg.Rows, s.cfg.ShareRatio)
		s.rows[id] = rows
	}
	return rows
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
