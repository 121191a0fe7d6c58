// Package server exposes the valuation engine over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sells-group/bizval/internal/config"
	"github.com/sells-group/bizval/internal/multiplier"
	"github.com/sells-group/bizval/internal/resilience"
	"github.com/sells-group/bizval/internal/store"
	"github.com/sells-group/bizval/internal/valuation"
)

// maxBodyBytes caps a submission body.
const maxBodyBytes = 1 << 20

// Server serves the valuation API.
type Server struct {
	cfg      config.ServerConfig
	engine   *valuation.Engine
	resolver *multiplier.Resolver
	store    store.Store
	limiter  *rate.Limiter
	circuits map[string]*resilience.CircuitBreaker
}

// New creates a Server. A zero rate disables request limiting.
func New(cfg config.ServerConfig, engine *valuation.Engine, resolver *multiplier.Resolver, st store.Store) *Server {
	s := &Server{cfg: cfg, engine: engine, resolver: resolver, store: st}
	if cfg.RatePerSec > 0 {
		burst := cfg.Burst
		if burst < 1 {
			burst = 1
		}
		s.limiter = rate.NewLimiter(rate.Limit(cfg.RatePerSec), burst)
	}
	return s
}

// WatchCircuit adds cb to the circuits reported by /health.
func (s *Server) WatchCircuit(name string, cb *resilience.CircuitBreaker) {
	if s.circuits == nil {
		s.circuits = make(map[string]*resilience.CircuitBreaker)
	}
	s.circuits[name] = cb
}

// Handler builds the HTTP routes.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)

	origins := s.cfg.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"Location"},
		MaxAge:         300,
	}))

	r.Get("/health", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		if s.limiter != nil {
			r.Use(rateLimit(s.limiter))
		}
		r.Post("/valuations", s.handleCreateValuation)
		r.Get("/valuations", s.handleListValuations)
		r.Get("/valuations/{id}", s.handleGetValuation)
		r.Get("/industries/{name}", s.handleGetIndustry)
	})

	return r
}

// Run serves on the configured port until ctx is cancelled, then shuts
// down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.cfg.Port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		zap.L().Info("server: listening", zap.Int("port", s.cfg.Port))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return eris.Wrap(err, "server: listen")
	case <-ctx.Done():
	}

	zap.L().Info("server: shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return eris.Wrap(err, "server: shutdown")
	}
	return nil
}
