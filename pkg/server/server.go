package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/aljab017/ill-router/internal/config"
	"github.com/aljab017/ill-router/pkg/db"
	"github.com/aljab017/ill-router/pkg/metrics"
)

const shutdownTimeout = 10 * time.Second

// Server exposes route planning over HTTP
type Server struct {
	Router chi.Router

	source   db.LocationSource
	cfg      *config.Config
	logger   *zap.Logger
	recorder metrics.Recorder
	gatherer prometheus.Gatherer
	sessions *sessionStore
}

// Options holds the dependencies of a Server
type Options struct {
	Source   db.LocationSource
	Config   *config.Config
	Logger   *zap.Logger
	Recorder metrics.Recorder
	// Gatherer serves /metrics; defaults to prometheus.DefaultGatherer
	Gatherer prometheus.Gatherer
	// MaxSessions bounds the routes kept for reshuffles; defaults to defaultMaxSessions
	MaxSessions int
}

// New creates a chi router with all routes configured
func New(opts Options) *Server {
	if opts.Recorder == nil {
		opts.Recorder = metrics.NewNop()
	}
	if opts.Gatherer == nil {
		opts.Gatherer = prometheus.DefaultGatherer
	}

	r := chi.NewRouter()

	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Recoverer)

	s := &Server{
		Router:   r,
		source:   opts.Source,
		cfg:      opts.Config,
		logger:   opts.Logger.Named("server"),
		recorder: opts.Recorder,
		gatherer: opts.Gatherer,
		sessions: newSessionStore(opts.MaxSessions),
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	r := s.Router

	r.Get("/healthz", s.handleHealth)
	r.Get("/locations", s.handleListLocations)

	r.Route("/routes", func(r chi.Router) {
		r.Post("/", s.handlePlanRoute)
		r.Get("/{routeID}", s.handleGetRoute)
		r.Post("/{routeID}/reshuffle", s.handleReshuffle)
		r.Post("/{routeID}/locations", s.handleAddLocation)
	})

	r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down gracefully
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled, then shuts down gracefully
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	httpServer := &http.Server{
		Handler:           s.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		errChan <- httpServer.Serve(ln)
	}()

	s.logger.Info("Listening", zap.String("addr", ln.Addr().String()))

	select {
	case err := <-errChan:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}

	if err := <-errChan; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server error: %w", err)
	}

	s.logger.Info("Server stopped")
	return nil
}
