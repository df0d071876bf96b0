// Package server exposes the staging engine and ledger pass-through queries
// over HTTP. Handlers hold no business logic beyond request decoding and
// error mapping; constraint checks live in the staging package.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"golang.org/x/time/rate"

	"solforge/internal/observability"
	"solforge/internal/solana"
	"solforge/internal/staging"
)

// Config holds server configuration.
type Config struct {
	Addr        string
	RPCEndpoint string // used only to report the network name in /api/health
	// AllowedOrigin restricts CORS; empty allows any origin.
	AllowedOrigin string
	// RateLimit and RateBurst bound per-IP request rates. Zero values
	// default to 100 requests per 15 minutes with a burst of 10.
	RateLimit rate.Limit
	RateBurst int
}

// Server is the HTTP service boundary.
type Server struct {
	router  *chi.Mux
	stager  *staging.Stager
	rpc     solana.RPCClient
	logger  *slog.Logger
	network string
	srv     *http.Server
}

// New creates a Server wired to the given stager and RPC client.
func New(cfg Config, stager *staging.Stager, rpc solana.RPCClient, logger *slog.Logger) *Server {
	s := &Server{
		router:  chi.NewRouter(),
		stager:  stager,
		rpc:     rpc,
		logger:  logger,
		network: networkName(cfg.RPCEndpoint),
	}

	limit := cfg.RateLimit
	if limit == 0 {
		limit = rate.Every(15 * time.Minute / 100)
	}
	burst := cfg.RateBurst
	if burst == 0 {
		burst = 10
	}

	s.setupRoutes(cfg, NewRateLimiter(limit, burst))

	s.srv = &http.Server{
		Addr:         cfg.Addr,
		Handler:      s.router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	return s
}

// Handler returns the root HTTP handler, for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// setupRoutes configures middleware and all HTTP routes.
func (s *Server) setupRoutes(cfg Config, limiter *RateLimiter) {
	s.router.Use(middleware.Recoverer)
	s.router.Use(s.requestLogger)

	origins := []string{"*"}
	if cfg.AllowedOrigin != "" {
		origins = []string{cfg.AllowedOrigin}
	}
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type"},
		AllowCredentials: cfg.AllowedOrigin != "",
	}))

	s.router.Route("/api", func(r chi.Router) {
		r.Use(limiter.Middleware)

		r.Get("/health", s.handleHealth)
		r.Get("/stats", s.handleStats)

		r.Post("/token/create", s.handleTokenCreate)
		r.Post("/token/airdrop", s.handleAirdrop)
		r.Get("/token/{mint}", s.handleTokenInfo)
		r.Get("/token/{mint}/balance/{wallet}", s.handleTokenBalance)
		r.Get("/token/{mint}/holders", s.handleTokenHolders)
		r.Get("/wallet/{wallet}/tokens", s.handleWalletTokens)

		r.Post("/vesting/create", s.handleVestingCreate)
		r.Get("/vesting/{wallet}", s.handleVestingList)

		r.Post("/liquidity/create", s.handleLiquidityCreate)

		r.Post("/subscription/create", s.handleSubscriptionCreate)
		r.Get("/plans/{plan}", s.handlePlan)
	})

	s.router.Handle("/metrics", observability.Handler())

	s.router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "Endpoint not found"})
	})
}

// Run starts the HTTP server and blocks until ctx is cancelled, then shuts
// down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		s.logger.Info("http server listening", "addr", s.srv.Addr, "network", s.network)
		if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}
	return nil
}

// requestLogger logs each request and records HTTP metrics.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		elapsed := time.Since(start)
		route := chi.RouteContext(r.Context()).RoutePattern()
		status := fmt.Sprintf("%dxx", ww.Status()/100)
		observability.RecordHTTPRequest(route, r.Method, status, elapsed.Seconds())

		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", elapsed,
		)
	})
}

// networkName reports the ledger network a given RPC endpoint targets.
func networkName(endpoint string) string {
	if strings.Contains(endpoint, "devnet") {
		return "devnet"
	}
	return "mainnet"
}
