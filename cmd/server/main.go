package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mcoot/unogame/internal/api"
	"github.com/mcoot/unogame/internal/config"
	"github.com/mcoot/unogame/internal/events"
	"github.com/mcoot/unogame/internal/factory"
)

const hubCleanupInterval = time.Minute

func main() {
	// UNO_CONFIG points at an optional YAML file; env vars override it
	cfg, err := config.Load(os.Getenv("UNO_CONFIG"))
	if err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}
	level, _ := cfg.Log.SlogLevel()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	app, err := factory.New(factory.FromConfig(cfg, logger))
	if err != nil {
		logger.Error("failed to create application", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() {
		if err := app.Close(); err != nil {
			logger.Error("close error", slog.String("error", err.Error()))
		}
	}()

	router := api.NewRouter(api.RouterConfig{
		Logger:         logger,
		GameController: app.GameController,
		BotService:     app.BotService,
		HubManager:     app.HubManager,
	})

	server := api.NewServer(router, cfg.Server, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go cleanupHubs(ctx, app.HubManager, logger)

	logger.Info("server configured",
		slog.String("addr", server.Addr()),
		slog.String("storage", cfg.Storage.Type),
		slog.String("archive", cfg.Archive.Path),
	)
	if err := server.Run(ctx); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("server stopped")
}

// cleanupHubs drops event hubs nobody is listening to
func cleanupHubs(ctx context.Context, hubs *events.HubManager, logger *slog.Logger) {
	ticker := time.NewTicker(hubCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := hubs.CleanupEmptyHubs(); n > 0 {
				logger.Debug("removed idle event hubs", slog.Int("count", n))
			}
		}
	}
}
