package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gravadigital/amigo-secreto-api/internal/auth"
	"github.com/gravadigital/amigo-secreto-api/internal/config"
	"github.com/gravadigital/amigo-secreto-api/internal/logger"
	"github.com/gravadigital/amigo-secreto-api/internal/report"
	"github.com/gravadigital/amigo-secreto-api/internal/server"
	"github.com/gravadigital/amigo-secreto-api/internal/services"
	"github.com/gravadigital/amigo-secreto-api/internal/storage"
	"github.com/gravadigital/amigo-secreto-api/internal/storage/memory"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Get().Fatal("Invalid configuration", "error", err)
	}

	logger.Initialize(cfg.Log.Level)
	log := logger.Service("main")

	storageType, err := storage.ValidateStorageType(cfg.Storage.Driver)
	if err != nil {
		log.Fatal("Invalid storage driver", "error", err)
	}

	container, err := storage.NewFactory(storageType).CreateContainer(cfg)
	if err != nil {
		log.Fatal("Failed to initialize storage", "driver", storageType, "error", err)
	}
	defer func() {
		if err := container.Close(); err != nil {
			log.Error("Failed to close storage", "error", err)
		}
	}()

	reports, err := newReportStore(cfg)
	if err != nil {
		log.Fatal("Failed to initialize report storage", "error", err)
	}

	tokens := auth.NewTokenManager(cfg.Auth.Secret, cfg.Auth.TokenTTL)
	svc := services.NewGroupService(container.Groups(), tokens, reports, services.DrawOptions(cfg.Draw), cfg.Server.PublicURL)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Storage.IdleTTL > 0 {
		go memory.RunJanitor(ctx, container.Janitor(), cfg.Storage.IdleTTL, janitorInterval(cfg.Storage.IdleTTL))
	}

	srv := server.New(cfg, svc, tokens, container)
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		if err != nil {
			log.Error("Server stopped", "error", err)
		}
	case <-ctx.Done():
		log.Info("Shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Stop(shutdownCtx); err != nil {
		log.Error("Graceful shutdown failed", "error", err)
	}
	log.Info("Server exited")
}

// newReportStore returns nil when export is disabled
func newReportStore(cfg *config.Config) (report.Store, error) {
	if !cfg.Reports.Enabled {
		return nil, nil
	}

	store, err := report.NewMinioStore(cfg.Reports)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := store.EnsureBucket(ctx); err != nil {
		return nil, err
	}
	return store, nil
}

// janitorInterval sweeps ten times per TTL, at most once a minute
func janitorInterval(ttl time.Duration) time.Duration {
	return max(ttl/10, time.Minute)
}
