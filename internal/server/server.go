// Package server serves the DynamicSector dashboard: uploads, per-session
// storage and rendering over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"github.com/dynamicsector/dynamicsector/internal/config"
	"github.com/dynamicsector/dynamicsector/internal/logger"
	"github.com/dynamicsector/dynamicsector/internal/storage"
)

// Server is the HTTP dashboard.
type Server struct {
	cfg     *config.Config
	db      *storage.DB
	Version string

	// Concurrent renders of the same session, mode and uploads share one result.
	renders singleflight.Group

	limitersMu sync.Mutex
	limiters   map[string]*rate.Limiter

	now func() time.Time
}

// NewServer creates a Server with the given config and session database.
func NewServer(cfg *config.Config, db *storage.DB) *Server {
	return &Server{
		cfg:      cfg,
		db:       db,
		limiters: make(map[string]*rate.Limiter),
		now:      time.Now,
	}
}

// Handler returns the HTTP handler with every route registered.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /api/status", s.handleStatus)
	mux.HandleFunc("GET /api/session", s.handleGetSession)
	mux.HandleFunc("DELETE /api/session", s.handleDeleteSession)
	mux.HandleFunc("POST /api/upload/{kind}", s.handleUpload)
	mux.HandleFunc("GET /api/render", s.handleRender)
	return corsMiddleware(mux)
}

// Run serves until ctx is cancelled, purging idle sessions in the background.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Server(s.cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	go s.purgeLoop(ctx)

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("serving on %s: %w", s.cfg.Addr, err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Server", "Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// purgeInterval checks for idle sessions a few times per TTL.
func (s *Server) purgeInterval() time.Duration {
	iv := s.cfg.SessionTTL / 4
	if iv < time.Minute {
		iv = time.Minute
	}
	return iv
}

func (s *Server) purgeLoop(ctx context.Context) {
	ticker := time.NewTicker(s.purgeInterval())
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.purgeIdle()
		}
	}
}

// purgeIdle removes sessions idle longer than the TTL and resets limiters.
func (s *Server) purgeIdle() {
	n, err := s.db.PurgeIdle(s.now().Add(-s.cfg.SessionTTL))
	if err != nil {
		logger.Error("Sessions", fmt.Sprintf("purge failed: %v", err))
		return
	}
	if n > 0 {
		logger.Info("Sessions", fmt.Sprintf("Purged %d idle sessions", n))
	}
	s.limitersMu.Lock()
	s.limiters = make(map[string]*rate.Limiter)
	s.limitersMu.Unlock()
}

// allowUpload applies the per-session upload rate limit.
func (s *Server) allowUpload(sessionID string) bool {
	s.limitersMu.Lock()
	defer s.limitersMu.Unlock()
	l, ok := s.limiters[sessionID]
	if !ok {
		l = rate.NewLimiter(rate.Limit(s.cfg.UploadRate), s.cfg.UploadBurst)
		s.limiters[sessionID] = l
	}
	return l.Allow()
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(204)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[API] encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
