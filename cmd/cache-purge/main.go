package main

import (
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/aniview/anime-gateway/internal/config"
	"github.com/aniview/anime-gateway/internal/database"
	"github.com/aniview/anime-gateway/internal/repository"
)

func main() {
	var apply bool
	var maxAgeDays int
	flag.BoolVar(&apply, "apply", false, "Apply the purge. Without this flag, the command is a dry-run preview.")
	flag.IntVar(&maxAgeDays, "max-age-days", 14, "Delete cache entries older than this many days.")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	logger := slog.New(handler)
	slog.SetDefault(logger)

	if maxAgeDays <= 0 {
		slog.Error("max-age-days must be positive", "max_age_days", maxAgeDays)
		os.Exit(1)
	}

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

	repo := repository.NewCacheRepository(db)
	cutoff := time.Now().AddDate(0, 0, -maxAgeDays)

	total, err := repo.Count()
	if err != nil {
		slog.Error("failed to count cache entries", "error", err)
		os.Exit(1)
	}

	stale, err := repo.CountOlderThan(cutoff)
	if err != nil {
		slog.Error("failed to count stale cache entries", "error", err)
		os.Exit(1)
	}

	if stale == 0 {
		slog.Info("no stale cache entries found; nothing to purge", "total_entries", total)
		return
	}

	if !apply {
		slog.Info(
			"dry-run complete",
			"total_entries", total,
			"stale_entries", stale,
			"cutoff", cutoff.UTC().Format(time.RFC3339),
		)
		return
	}

	deleted, err := repo.PurgeOlderThan(cutoff)
	if err != nil {
		slog.Error("failed to purge stale cache entries", "error", err)
		os.Exit(1)
	}

	slog.Info(
		"purge completed",
		"deleted_entries", deleted,
		"remaining_entries", total-deleted,
		"cutoff", cutoff.UTC().Format(time.RFC3339),
	)
}
