package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/stemcrate/StemCrate_Go/internal/catalog"
	"github.com/stemcrate/StemCrate_Go/internal/config"
	"github.com/stemcrate/StemCrate_Go/internal/database"
	"github.com/stemcrate/StemCrate_Go/internal/database/memory"
	"github.com/stemcrate/StemCrate_Go/internal/database/postgres"
	"github.com/stemcrate/StemCrate_Go/internal/economy"
	"github.com/stemcrate/StemCrate_Go/internal/handler"
	"github.com/stemcrate/StemCrate_Go/internal/identity"
	"github.com/stemcrate/StemCrate_Go/internal/opening"
	"github.com/stemcrate/StemCrate_Go/internal/repository"
	"github.com/stemcrate/StemCrate_Go/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	initLogger(cfg)
	handler.InitValidator()

	catalogStore, err := catalog.NewStore(cfg.CatalogPath)
	if err != nil {
		slog.Error("Failed to load catalog", "path", cfg.CatalogPath, "error", err)
		os.Exit(1)
	}

	var (
		store  repository.Inventory
		health handler.HealthChecker
	)
	if cfg.Storage == config.StoragePostgres {
		if err := database.RunMigrations(cfg.GetDBConnString()); err != nil {
			slog.Error("Failed to run migrations", "error", err)
			os.Exit(1)
		}
		pool, err := database.NewPool(cfg.GetDBConnString(), 10, 5*time.Minute, 30*time.Minute)
		if err != nil {
			slog.Error("Failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer pool.Close()
		store = postgres.NewInventoryRepository(pool)
		health = pool
	} else {
		slog.Warn("Using in-memory storage; owner state will not survive restarts")
		store = memory.New()
	}

	policy, err := economy.PolicyFromConfig(cfg)
	if err != nil {
		slog.Error("Failed to configure economy policy", "error", err)
		os.Exit(1)
	}
	slog.Info("Economy policy selected", "policy", policy.Name())

	openingService, err := opening.NewService(catalogStore, store, policy)
	if err != nil {
		slog.Error("Failed to create opening service", "error", err)
		os.Exit(1)
	}

	srv := server.NewServer(server.Options{
		Port:                cfg.Port,
		APIKey:              cfg.APIKey,
		Version:             cfg.Version,
		DevEndpointsEnabled: cfg.DevEndpointsEnabled,
		Health:              health,
	}, openingService, store, catalogStore, identity.NewResolver())

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Server starting", "port", cfg.Port)
		errCh <- srv.Start()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "error", err)
			os.Exit(1)
		}
	case sig := <-stop:
		slog.Info("Shutting down", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			slog.Error("Graceful shutdown failed", "error", err)
			os.Exit(1)
		}
	}
}
