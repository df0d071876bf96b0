// Package main runs the SolForge staging API: token creation, airdrop and
// liquidity staging, and the vesting schedule registry, plus pass-through
// chain queries.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"

	"solforge/internal/server"
	"solforge/internal/solana"
	"solforge/internal/staging"
	"solforge/internal/storage"
	"solforge/internal/storage/memory"
	"solforge/internal/storage/migrations"
	pgstore "solforge/internal/storage/postgres"
)

func main() {
	// Load .env file if exists
	_ = godotenv.Load()

	// Parse flags (env vars as defaults)
	listenAddr := flag.String("listen-addr", envOr("LISTEN_ADDR", ":3001"), "HTTP listen address")
	rpcEndpoint := flag.String("rpc-endpoint", envOr("SOLANA_RPC", "https://api.devnet.solana.com"), "Solana RPC HTTP endpoint")
	postgresDSN := flag.String("postgres-dsn", os.Getenv("POSTGRES_DSN"), "PostgreSQL connection string")
	useMemory := flag.Bool("use-memory", false, "Use in-memory schedule registry instead of PostgreSQL")
	frontendURL := flag.String("frontend-url", os.Getenv("FRONTEND_URL"), "Allowed CORS origin (empty allows any)")
	verbose := flag.Bool("verbose", false, "Enable debug logging")

	flag.Parse()

	logger := newLogger(*verbose)

	if !*useMemory && *postgresDSN == "" {
		logger.Error("--postgres-dsn is required (use --use-memory for an in-memory registry)")
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Schedule registry
	schedules, cleanup, err := createScheduleStore(ctx, *postgresDSN, *useMemory)
	if err != nil {
		logger.Error("create schedule store", "err", err)
		os.Exit(1)
	}
	defer cleanup()

	// Ledger RPC client and identity generator
	rpc := solana.NewHTTPClient(*rpcEndpoint, solana.WithTimeout(10*time.Second))

	stager := staging.New(staging.Options{
		Oracle:    rpc,
		Keys:      solana.NewRandomKeyGenerator(),
		Schedules: schedules,
		Logger:    logger,
	})

	srv := server.New(server.Config{
		Addr:          *listenAddr,
		RPCEndpoint:   *rpcEndpoint,
		AllowedOrigin: *frontendURL,
	}, stager, rpc, logger)

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	done := make(chan struct{})
	go func() {
		sig := <-sigCh
		logger.Info("received signal, initiating graceful shutdown", "signal", sig.String())
		cancel()

		// Second signal or timeout forces exit
		select {
		case sig := <-sigCh:
			logger.Error("received second signal, forcing immediate shutdown", "signal", sig.String())
			os.Exit(1)
		case <-time.After(30 * time.Second):
			logger.Error("graceful shutdown timed out after 30s, forcing exit")
			os.Exit(1)
		case <-done:
		}
	}()

	err = srv.Run(ctx)
	close(done)

	if err != nil && err != context.Canceled {
		logger.Error("server error", "err", err)
		os.Exit(1)
	}

	logger.Info("shutdown complete")
}

// newLogger builds the service logger.
func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(tint.NewHandler(os.Stdout, &tint.Options{Level: level}))
}

// createScheduleStore selects the registry backend.
func createScheduleStore(ctx context.Context, postgresDSN string, useMemory bool) (storage.ScheduleStore, func(), error) {
	if useMemory {
		return memory.NewScheduleStore(), func() {}, nil
	}

	pool, err := pgstore.NewPool(ctx, postgresDSN)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to postgres: %w", err)
	}

	if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("run migrations: %w", err)
	}

	return pgstore.NewScheduleStore(pool), func() { pool.Close() }, nil
}

// envOr returns the environment value for key, or fallback if unset.
func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
