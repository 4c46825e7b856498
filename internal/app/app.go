package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gridironlabs/nfl-stats/external/nflverse"
	"github.com/gridironlabs/nfl-stats/internal/config"
	"github.com/gridironlabs/nfl-stats/internal/domain/refdata"
	"github.com/gridironlabs/nfl-stats/internal/domain/weeklystats"
	"github.com/gridironlabs/nfl-stats/internal/infrastructure/repository/sqlite"
	"github.com/gridironlabs/nfl-stats/internal/interfaces/httpapi"
	"github.com/gridironlabs/nfl-stats/internal/platform/cache"
	"github.com/gridironlabs/nfl-stats/internal/platform/logging"
	"github.com/gridironlabs/nfl-stats/internal/platform/resilience"
	"github.com/gridironlabs/nfl-stats/internal/usecase"
)

// NewHTTPServer wires the query API on top of a previously loaded store.
// The returned closer releases the store handle after shutdown.
func NewHTTPServer(ctx context.Context, cfg config.Config, logger *slog.Logger) (*http.Server, func() error, error) {
	if logger == nil {
		logger = slog.Default()
	}

	db, err := sqlite.Open(ctx, cfg.DBPath)
	if err != nil {
		return nil, nil, fmt.Errorf("open store: %w", err)
	}

	caps, err := sqlite.IntrospectCapabilities(ctx, db)
	if err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("introspect store: %w", err)
	}
	if !caps.WeeklyStats.Exists {
		logger.Warn("weekly_stats table is missing, run the loader first", "db_path", cfg.DBPath)
	}

	reference := loadReferenceSnapshot(ctx, cfg, logger)

	playerRepo := sqlite.NewPlayerRepository(db, caps.Players)
	statsRepo := sqlite.NewWeeklyStatsRepository(db, caps)

	var store *cache.Store
	if cfg.CacheEnabled {
		store = cache.NewStore(cfg.CacheTTL)
	}

	handler := httpapi.NewHandler(
		usecase.NewPlayerService(playerRepo, statsRepo, reference),
		usecase.NewTeamService(statsRepo, reference, store, cfg.CurrentSeason),
		usecase.NewLeaderboardService(statsRepo, store, cfg.CurrentSeason),
		httpapi.ServiceMeta{
			Service:       cfg.ServiceName,
			Version:       cfg.ServiceVersion,
			Seasons:       cfg.Seasons,
			DefaultSeason: cfg.CurrentSeason,
			Schema:        schemaCapabilities(caps),
		},
		logger,
	)
	router := httpapi.NewRouter(handler, logger, cfg.CORSAllowedOrigins)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	if server.Addr == "" {
		_ = db.Close()
		return nil, nil, fmt.Errorf("http server addr cannot be empty")
	}

	return server, db.Close, nil
}

// NewProviderClient builds the nflverse client from config.
func NewProviderClient(cfg config.Config, logger *logging.Logger) *nflverse.Client {
	return nflverse.NewClient(nflverse.ClientConfig{
		BaseURL:    cfg.NFLverseBaseURL,
		TeamsURL:   cfg.NFLverseTeamsURL,
		Timeout:    cfg.NFLverseTimeout,
		MaxRetries: cfg.NFLverseMaxRetries,
		Logger:     logger,
		Breaker: resilience.BreakerConfig{
			Enabled:          cfg.NFLverseCircuitEnabled,
			FailureThreshold: cfg.NFLverseCircuitFailureCount,
			OpenTimeout:      cfg.NFLverseCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.NFLverseCircuitHalfOpenMaxReq,
		},
	})
}

// loadReferenceSnapshot fetches team branding and headshots on a best-effort
// basis. The API serves plain store rows when the provider is unreachable.
func loadReferenceSnapshot(ctx context.Context, cfg config.Config, logger *slog.Logger) *refdata.Snapshot {
	if !cfg.RefdataEnabled {
		return refdata.NewSnapshot(nil, nil)
	}
	return fetchReferenceSnapshot(ctx, NewProviderClient(cfg, logging.Default()), cfg.Seasons, logger)
}

func fetchReferenceSnapshot(ctx context.Context, provider usecase.ReferenceProvider, seasons []int, logger *slog.Logger) *refdata.Snapshot {
	teams, err := provider.TeamMetadata(ctx)
	if err != nil {
		logger.Warn("team metadata unavailable, responses carry no branding", "error", err)
	}

	headshots, err := provider.PlayerHeadshots(ctx, seasons)
	if err != nil {
		logger.Warn("player headshots unavailable", "error", err)
	}

	return refdata.NewSnapshot(teams, headshots)
}

func schemaCapabilities(caps sqlite.Capabilities) httpapi.SchemaCapabilities {
	statCols := make([]string, 0, len(weeklystats.StatColumns))
	for _, col := range weeklystats.StatColumns {
		if caps.WeeklyStats.Has(col) {
			statCols = append(statCols, col)
		}
	}

	return httpapi.SchemaCapabilities{
		PlayersTable:      caps.Players.Exists,
		WeeklyStatsTable:  caps.WeeklyStats.Exists,
		PlayersTeamColumn: caps.Players.TeamColumn,
		WeeklyTeamColumn:  caps.WeeklyStats.TeamColumn,
		StatColumns:       statCols,
	}
}
