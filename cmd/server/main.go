package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	grpcapi "assetdesk-backend/internal/api/grpc"
	httpapi "assetdesk-backend/internal/api/http"
	"assetdesk-backend/internal/app"
	"assetdesk-backend/internal/config"
	"assetdesk-backend/internal/logger"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting AssetDesk backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress(), "health_address", cfg.GetHealthAddress())
	logger.Info("Database configuration", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database, "user", cfg.Database.User)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		logger.Error("Server stopped with error", "error", err)
		os.Exit(1)
	}
	logger.Info("Server stopped. Goodbye!")
}

func run(ctx context.Context, cfg *config.Config) error {
	a, err := app.Open(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	verifier, err := app.NewVerifier(ctx, cfg)
	if err != nil {
		return err
	}

	deps := httpapi.Dependencies{
		Verifier: verifier,
		Accounts: a.Accounts,
		Assets:   a.Assets,
		Requests: a.Requests,
		Payments: a.Payments,
		DB:       a.DB,
	}
	if a.MockProcessor != nil {
		deps.MockPayer = a.MockProcessor
	}

	srv := &http.Server{
		Addr:              cfg.GetServerAddress(),
		Handler:           httpapi.NewRouter(deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	var health *grpcapi.HealthServer
	if addr := cfg.GetHealthAddress(); addr != "" {
		if health, err = grpcapi.NewHealthServer(addr); err != nil {
			return err
		}
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("HTTP server listening", "address", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if health != nil {
		g.Go(func() error {
			health.Watch(gctx, a.DB, 15*time.Second)
			return nil
		})
		g.Go(func() error {
			return health.Serve(gctx)
		})
	}

	return g.Wait()
}
