// Package server assembles the HTTP server: routes, middleware chain, and
// lifecycle management.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"healthmate-hq/healthgate/pkg/config"
	"healthmate-hq/healthgate/pkg/gateway"
	"healthmate-hq/healthgate/pkg/gateway/middleware"
	"healthmate-hq/healthgate/pkg/ratelimit"
	"healthmate-hq/healthgate/pkg/telemetry/metrics"
)

// Options holds the dependencies the server wires together.
type Options struct {
	// Config is the validated gateway configuration.
	Config *config.Config

	// Completer forwards conversations to the upstream API.
	Completer gateway.Completer

	// Limiter enforces per-client admission control. nil disables it.
	Limiter *ratelimit.FixedWindow

	// Metrics exposes Prometheus metrics. nil disables the endpoint.
	Metrics *metrics.Metrics

	// Logger is the structured logger. Defaults to slog.Default().
	Logger *slog.Logger
}

// Server is the healthgate HTTP server.
type Server struct {
	cfg     *config.Config
	logger  *slog.Logger
	handler http.Handler
	httpSrv *http.Server
}

// New assembles the server from its dependencies.
func New(opts Options) (*Server, error) {
	if opts.Config == nil {
		return nil, fmt.Errorf("config is required")
	}
	if opts.Completer == nil {
		return nil, fmt.Errorf("completer is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	mux := http.NewServeMux()

	var assist http.Handler = gateway.NewAssistHandler(opts.Completer, opts.Metrics, logger)
	if opts.Limiter != nil {
		assist = middleware.RateLimit(opts.Limiter, opts.Metrics, logger)(assist)
	}
	mux.Handle("/v1/assist", assist)
	mux.Handle("/health", gateway.HealthHandler())

	if opts.Metrics != nil && opts.Config.Telemetry.Metrics.Enabled {
		mux.Handle(opts.Config.Telemetry.Metrics.Path, opts.Metrics.Handler())
	}

	// Outermost first: recovery wraps everything so even logging panics
	// are caught; CORS sits innermost so its headers reach every route.
	var handler http.Handler = mux
	handler = middleware.CORS(middleware.CORSConfig{
		AllowedOrigins: opts.Config.Server.CORS.AllowedOrigins,
		AllowedHeaders: opts.Config.Server.CORS.AllowedHeaders,
		MaxAge:         opts.Config.Server.CORS.MaxAge,
	})(handler)
	handler = middleware.RequestID(handler)
	handler = middleware.Logging(logger)(handler)
	handler = middleware.Recovery(logger)(handler)

	return &Server{
		cfg:     opts.Config,
		logger:  logger,
		handler: handler,
		httpSrv: &http.Server{
			Addr:           opts.Config.Server.ListenAddress,
			Handler:        handler,
			ReadTimeout:    opts.Config.Server.ReadTimeout,
			WriteTimeout:   opts.Config.Server.WriteTimeout,
			IdleTimeout:    opts.Config.Server.IdleTimeout,
			MaxHeaderBytes: opts.Config.Server.MaxHeaderBytes,
		},
	}, nil
}

// Handler returns the fully assembled handler chain, for tests.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start runs the server until the context is canceled or a termination
// signal arrives, then shuts down gracefully within the configured timeout.
func (s *Server) Start(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", "address", s.httpSrv.Addr)
		if err := s.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down", "timeout", s.cfg.Server.ShutdownTimeout)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := s.httpSrv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	return <-errCh
}
