// Package server serves the dashboard page, its JSON/PNG endpoints and the
// websocket that drives metric selection.
package server

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/spektr-org/sleeplens/dashboard"
)

// ============================================================================
// SERVER — Router, page, websocket hub
// ============================================================================

const shutdownTimeout = 10 * time.Second

// Server is the HTTP front of one dashboard controller.
type Server struct {
	ctrl   *dashboard.Controller
	logger *zerolog.Logger
	router *mux.Router
	page   *template.Template
	hub    *Hub
	cache  *optionsCache
	debug  bool
}

// Option configures a Server.
type Option func(*Server)

// WithDebug enables verbose request logging.
func WithDebug(debug bool) Option {
	return func(s *Server) {
		s.debug = debug
	}
}

// New builds a server and starts its websocket hub. Call Close to stop it.
func New(ctrl *dashboard.Controller, logger *zerolog.Logger, opts ...Option) (*Server, error) {
	page, err := parsePage()
	if err != nil {
		return nil, err
	}

	s := &Server{
		ctrl:   ctrl,
		logger: logger,
		page:   page,
		hub:    newHub(logger),
		cache:  newOptionsCache(),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.router = s.routes()
	go s.hub.run()
	return s, nil
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// Close disconnects every websocket session and stops the hub.
func (s *Server) Close() {
	s.hub.stop()
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", addr).Msg("🚀 dashboard listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		s.Close()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info().Msg("🛑 shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	s.Close()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
