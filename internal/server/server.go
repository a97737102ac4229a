package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/svce/alumniconnect/internal/bootstrap"
	"github.com/svce/alumniconnect/internal/config"
)

// Server owns the HTTP listener and the stores behind it
type Server struct {
	config *config.Config
	stores *bootstrap.Stores
	logger zerolog.Logger
	http   *http.Server
}

// NewServer loads configuration, opens the stores, seeds default data and builds the router.
func NewServer() (*Server, error) {
	cfg, lgr, err := bootstrap.LoadConfigAndSetupLogger()
	if err != nil {
		return nil, fmt.Errorf("failed to load config or setup logger: %w", err)
	}

	stores, err := bootstrap.SetupStores(cfg, lgr)
	if err != nil {
		return nil, fmt.Errorf("failed to setup stores: %w", err)
	}

	deps := bootstrap.BuildDependencies(cfg, stores.Repos, lgr)
	bootstrap.SeedDefaultData(cfg, deps)

	return &Server{
		config: cfg,
		stores: stores,
		logger: lgr,
		http: &http.Server{
			Addr:              ":" + cfg.Server.Port,
			Handler:           bootstrap.SetupRouter(cfg, deps, lgr),
			ReadTimeout:       cfg.Server.ReadTimeout,
			ReadHeaderTimeout: 5 * time.Second,
			WriteTimeout:      cfg.Server.WriteTimeout,
			IdleTimeout:       120 * time.Second,
		},
	}, nil
}

// Run serves until SIGINT or SIGTERM, then shuts down gracefully.
func (s *Server) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", s.http.Addr).Str("driver", s.config.Database.Driver).Msg("HTTP server listening")
		serverErrors <- s.http.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		s.stores.Close()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("error starting server: %w", err)
	case <-ctx.Done():
		s.logger.Info().Msg("Received shutdown signal")
	}

	return s.Shutdown(context.Background())
}

// Shutdown drains in-flight requests within the configured timeout, then closes the stores.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.config.Server.ShutdownTimeout)
	defer cancel()

	s.logger.Info().Dur("timeout", s.config.Server.ShutdownTimeout).Msg("Shutting down HTTP server...")
	err := s.http.Shutdown(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("HTTP server shutdown error")
	}

	s.stores.Close()
	s.logger.Info().Msg("Server shutdown process complete.")

	if err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}
