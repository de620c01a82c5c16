package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aniview/anime-gateway/internal/animeflv"
	"github.com/aniview/anime-gateway/internal/catalog"
	"github.com/aniview/anime-gateway/internal/config"
	"github.com/aniview/anime-gateway/internal/database"
	apihttp "github.com/aniview/anime-gateway/internal/http"
	"github.com/aniview/anime-gateway/internal/repository"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel})
	logger := slog.New(handler)
	slog.SetDefault(logger)

	db, err := database.Open(cfg.SQLitePath)
	if err != nil {
		slog.Error("failed to open sqlite", "path", cfg.SQLitePath, "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := database.ApplyMigrations(db, cfg.MigrationsPath); err != nil {
		slog.Error("failed to apply migrations", "error", err)
		os.Exit(1)
	}

	relays, err := animeflv.LoadRelays(cfg.RelaysPath)
	if err != nil {
		slog.Error("failed to load relay strategies", "path", cfg.RelaysPath, "error", err)
		os.Exit(1)
	}

	source := animeflv.NewClient(animeflv.ClientOptions{
		BaseURL: cfg.SourceBaseURL,
		Relays:  relays,
		Timeout: time.Duration(cfg.FetchTimeoutMS) * time.Millisecond,
		Logger:  logger,
	})

	service := catalog.NewService(repository.NewCacheRepository(db), source, logger)

	app := apihttp.NewServer(cfg, db, service)

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			slog.Error("server stopped", "error", err)
		}
	}()

	slog.Info("api started", "port", cfg.Port, "env", cfg.Environment, "source", cfg.SourceBaseURL)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	slog.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		slog.Error("shutdown error", "error", err)
	}
	service.Flush()
}
