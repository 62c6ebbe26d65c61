package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/vsinha/shiptrack/pkg/application/services/tracking"
	"github.com/vsinha/shiptrack/pkg/config"
	"github.com/vsinha/shiptrack/pkg/infrastructure/export"
)

// Server represents the HTTP server
type Server struct {
	config     config.Config
	router     chi.Router
	httpServer *http.Server
	service    *tracking.Service
}

// NewServer creates a new HTTP server
func NewServer(cfg config.Config, service *tracking.Service) *Server {
	server := &Server{
		config:  cfg,
		service: service,
	}

	server.router = server.setupRouter()
	server.httpServer = &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      server.router,
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout + cfg.Export.Timeout,
	}

	return server
}

// setupRouter configures the HTTP router
func (s *Server) setupRouter() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(RequestLogger)
	r.Use(middleware.Recoverer)

	format, err := export.ParseFormat(s.config.Export.Format)
	if err != nil {
		log.Warn().Err(err).Msg("Unknown export format, falling back to xlsx")
		format = export.FormatXLSX
	}
	handler := NewHandler(s.service, format, s.config.Export.Timeout)

	r.Route("/api", func(r chi.Router) {
		r.Use(AccessRole)
		handler.RegisterRoutes(r)
	})

	return r
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start starts the HTTP server
func (s *Server) Start() error {
	log.Info().Str("address", s.config.Server.Address).Msg("Starting HTTP server")

	if err := s.httpServer.ListenAndServe(); err != nil {
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return errors.Wrap(err, "HTTP server error")
	}

	return nil
}

// Shutdown gracefully stops the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	log.Info().Msg("Shutting down HTTP server")

	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "HTTP server shutdown error")
	}

	log.Info().Msg("HTTP server shut down successfully")
	return nil
}
