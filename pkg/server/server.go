// Package server exposes the layout pipeline and exploration store over HTTP.
//
// # Routes
//
//	GET    /healthz
//	POST   /v1/layout                         one-shot layout of a graph
//	GET    /v1/explorations                   list, most recent first
//	POST   /v1/explorations                   create and lay out
//	GET    /v1/explorations/{id}
//	DELETE /v1/explorations/{id}
//	POST   /v1/explorations/{id}/layout       merge a graph and lay out incrementally
//	POST   /v1/explorations/{id}/drag         record a dragged node position
//	GET    /v1/explorations/{id}/render.svg   draw the stored positions
//
// Bodies are JSON in the graph wire format. Errors are returned as
// {"code": "...", "message": "..."} with 400 for invalid input, 404 for
// missing explorations or nodes, and 500 otherwise.
//
// Read-modify-write calls on one exploration are serialised with a per-id
// lock, so concurrent drags and incremental layouts never lose an update.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/chainlens/chainlens/pkg/pipeline"
)

// MaxBodyBytes caps request bodies.
const MaxBodyBytes = 16 << 20

// Server serves the HTTP API.
type Server struct {
	runner *pipeline.Runner
	logger *log.Logger
	locks  *keyedMutex
}

// New creates a server backed by runner.
func New(runner *pipeline.Runner, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{runner: runner, logger: logger, locks: newKeyedMutex()}
}

// Handler returns the router with all routes and middleware registered.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.observe)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.health)

	r.Route("/v1", func(r chi.Router) {
		r.Post("/layout", s.layout)

		r.Route("/explorations", func(r chi.Router) {
			r.Get("/", s.listExplorations)
			r.Post("/", s.createExploration)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.getExploration)
				r.Delete("/", s.deleteExploration)
				r.Post("/layout", s.exploreLayout)
				r.Post("/drag", s.drag)
				r.Get("/render.svg", s.renderSVG)
			})
		})
	})
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	s.logger.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
