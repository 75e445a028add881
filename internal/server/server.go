package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/olehluchkiv/epwizard/internal/metrics"
	"github.com/olehluchkiv/epwizard/internal/wizard"
	"github.com/puzpuzpuz/xsync/v3"
)

// entry guards one session. Requests for the same session are serialized;
// different sessions proceed in parallel.
type entry struct {
	mu      sync.Mutex
	session *wizard.Session
}

// Server hosts wizard sessions behind a JSON API.
type Server struct {
	ctrl     *wizard.Controller
	metrics  *metrics.Collector
	project  string
	sessions *xsync.MapOf[string, *entry]
	logger   *slog.Logger
}

// New creates a Server. project is used for sessions created without one.
// m may be nil.
func New(ctrl *wizard.Controller, m *metrics.Collector, project string, logger *slog.Logger) *Server {
	return &Server{
		ctrl:     ctrl,
		metrics:  m,
		project:  project,
		sessions: xsync.NewMapOf[string, *entry](),
		logger:   logger.With("component", "server"),
	}
}

// Sessions returns the number of open sessions.
func (s *Server) Sessions() int { return s.sessions.Size() }

// Handler returns the HTTP handler serving the API and /metrics.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	s.route(mux, "POST /api/sessions", s.handleCreate)
	s.route(mux, "GET /api/sessions/{id}", s.withSession(s.handleGet))
	s.route(mux, "DELETE /api/sessions/{id}", s.handleDelete)
	s.route(mux, "POST /api/sessions/{id}/events", s.withSession(s.handleEvent))
	s.route(mux, "POST /api/sessions/{id}/next", s.withSession(s.handleNext))
	s.route(mux, "POST /api/sessions/{id}/values", s.withSession(s.handleValues))
	s.route(mux, "POST /api/sessions/{id}/advance", s.withSession(s.handleAdvance))
	s.route(mux, "POST /api/sessions/{id}/back", s.withSession(s.handleBack))
	s.route(mux, "POST /api/sessions/{id}/commit", s.withSession(s.handleCommit))
	s.route(mux, "GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "sessions": s.sessions.Size()})
	})
	mux.Handle("GET /metrics", s.metrics.Handler())
	return mux
}

// route registers h under pattern and records request metrics labelled by
// the pattern rather than the concrete path.
func (s *Server) route(mux *http.ServeMux, pattern string, h http.HandlerFunc) {
	mux.HandleFunc(pattern, func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		s.logger.Debug("request received", "method", r.Method, "path", r.URL.Path)
		h(rec, r)
		s.metrics.RecordHTTPRequest(r.Method, pattern, rec.status, time.Since(start))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

type sessionHandler func(w http.ResponseWriter, r *http.Request, sess *wizard.Session)

// withSession looks up the session named by the {id} path value and runs h
// while holding its lock.
func (s *Server) withSession(h sessionHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		e, ok := s.sessions.Load(r.PathValue("id"))
		if !ok {
			writeError(w, http.StatusNotFound, errSessionNotFound)
			return
		}
		e.mu.Lock()
		defer e.mu.Unlock()
		h(w, r, e.session)
		if e.session.State == wizard.Committed {
			s.drop(e.session.ID, "committed")
		}
	}
}

// drop removes a session from the table. It reports false when the session
// was already gone.
func (s *Server) drop(id, reason string) bool {
	if _, ok := s.sessions.LoadAndDelete(id); !ok {
		return false
	}
	s.metrics.SessionClosed()
	s.logger.Info("session closed", "session", id, "reason", reason)
	return true
}

var errSessionNotFound = errors.New("session not found")

// Serve listens on port until ctx is cancelled, then shuts the server down.
func Serve(ctx context.Context, handler http.Handler, port int, logger *slog.Logger) error {
	addr := fmt.Sprintf(":%d", port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("starting HTTP server", "addr", fmt.Sprintf("http://localhost:%d", port))

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("HTTP server error: %w", err)
		}
		close(errCh)
	}()

	// Block until the context is cancelled or the server fails.
	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		logger.Info("shutting down HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("HTTP server shutdown error: %w", err)
		}
		return nil
	}
}
