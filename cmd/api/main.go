package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/adimehta/aiportal/internal/app"
	"github.com/adimehta/aiportal/internal/auth"
	"github.com/adimehta/aiportal/internal/config"
	"github.com/adimehta/aiportal/internal/provider"
	"github.com/adimehta/aiportal/internal/storage"
	"github.com/adimehta/aiportal/internal/tokenizer"
	"github.com/adimehta/aiportal/internal/transport/http/handler"
	"github.com/adimehta/aiportal/internal/transport/http/middleware"
)

// sweepOldLogs deletes request logs older than the retention window.
func sweepOldLogs(store storage.Storage, retentionDays int, logger *slog.Logger) {
	if retentionDays <= 0 {
		return
	}

	cutoff := time.Now().AddDate(0, 0, -retentionDays).Format("2006-01-02")
	deleted, err := store.DeleteRequestLogs(cutoff)
	if err != nil {
		logger.Warn("request log sweep failed", "error", err)
		return
	}
	if deleted > 0 {
		logger.Info("swept old request logs", "deleted", deleted, "older_than", cutoff)
	}
}

func main() {
	cfg := config.Load()
	logger := setupLogger(cfg.LogLevel)

	if err := config.EnsureConfigFile(); err != nil {
		logger.Warn("could not write default config file", "error", err)
	}

	gate, err := auth.NewGate(cfg.AccessKey)
	if err != nil {
		logger.Error("failed to initialize access gate", "error", err)
		os.Exit(1)
	}

	grantCache, err := middleware.NewGrantCache()
	if err != nil {
		logger.Error("failed to initialize grant cache", "error", err)
		os.Exit(1)
	}
	defer grantCache.Close()

	// Request logging is best-effort: the API works without it.
	var store storage.Storage
	if err := config.EnsureDataDir(); err != nil {
		logger.Warn("request logging disabled", "error", err)
	} else if sqlStore, err := storage.NewSQLiteStorage(config.DBPath()); err != nil {
		logger.Warn("request logging disabled", "error", err)
	} else {
		store = sqlStore
		defer sqlStore.Close()
		sweepOldLogs(store, cfg.LogRetentionDays, logger)
	}

	repo := handler.NewRepo(
		gate,
		provider.NewOpenAI(cfg.OpenAIKey),
		store,
		tokenizer.New(),
		cfg,
	)

	router := app.NewRouter(repo, &app.RouterOptions{
		EnableFrontend: cfg.EnableFrontend,
		Logger:         logger,
		Gate:           gate,
		GrantCache:     grantCache,
	})

	printStartupBanner(cfg)
	srv := app.NewServer(cfg, router, logger)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	case <-stop:
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("shutdown error", "error", err)
		}
	}
}
