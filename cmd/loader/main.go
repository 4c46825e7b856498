package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gridironlabs/nfl-stats/internal/app"
	"github.com/gridironlabs/nfl-stats/internal/config"
	"github.com/gridironlabs/nfl-stats/internal/infrastructure/repository/sqlite"
	"github.com/gridironlabs/nfl-stats/internal/platform/logging"
	"github.com/gridironlabs/nfl-stats/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := logging.NewJSON(cfg.LogLevel)
	logging.SetDefault(logger)
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := sqlite.Open(ctx, cfg.DBPath)
	if err != nil {
		logger.Error("open store", "db_path", cfg.DBPath, "error", err)
		os.Exit(1)
	}
	defer func() { _ = db.Close() }()

	service := usecase.NewIngestionService(
		app.NewProviderClient(cfg, logger),
		sqlite.NewLoaderRepository(db),
		usecase.IngestionConfig{
			Seasons:    cfg.Seasons,
			MaxWorkers: cfg.LoaderMaxWorkers,
		},
		logger,
	)

	result, err := service.Run(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "ingestion failed", "seasons", cfg.Seasons, "error", err)
		os.Exit(1)
	}

	logger.InfoContext(ctx, "ingestion complete",
		"seasons", result.Seasons,
		"workers", result.WorkerCount,
		"players_loaded", result.PlayersLoaded,
		"duplicate_players", result.DuplicatePlayers,
		"stat_rows_loaded", result.StatRowsLoaded,
		"stat_rows_skipped", result.StatRowsSkipped,
		"duration_ms", result.DurationMs,
	)
}
