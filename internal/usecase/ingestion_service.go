package usecase

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/gridironlabs/nfl-stats/internal/domain/weeklystats"
	"github.com/gridironlabs/nfl-stats/internal/platform/logging"
)

// Roster and stat files drifted column names across nflverse releases, so
// the loader resolves each logical column from a candidate list, most
// preferred first.
var (
	playerIDCandidates   = []string{"player_id", "gsis_id"}
	playerNameCandidates = []string{"player_name", "full_name", "display_name"}
	teamNameCandidates   = []string{"recent_team", "team", "current_team"}
)

// rowContentColumns decide whether a weekly row carries anything worth
// loading. Rows empty across all of these are dropped.
var rowContentColumns = []string{
	weeklystats.ColPassingYards,
	weeklystats.ColRushingYards,
	weeklystats.ColReceivingYards,
	weeklystats.ColFantasyPointsPPR,
}

const (
	minSupportedSeason      = 1999
	defaultIngestionWorkers = 2
	maxIngestionWorkers     = 4
)

type IngestionConfig struct {
	Seasons    []int
	MaxWorkers int
}

// IngestionService rebuilds the stats store from provider datasets. Each run
// replaces both tables wholesale, so reruns converge on the same store.
type IngestionService struct {
	provider StatsProvider
	store    LoaderStore
	cfg      IngestionConfig
	logger   *logging.Logger
}

func NewIngestionService(provider StatsProvider, store LoaderStore, cfg IngestionConfig, logger *logging.Logger) *IngestionService {
	if logger == nil {
		logger = logging.Default()
	}
	return &IngestionService{
		provider: provider,
		store:    store,
		cfg:      cfg,
		logger:   logger,
	}
}

type RunResult struct {
	Seasons          []int `json:"seasons"`
	WorkerCount      int   `json:"worker_count"`
	PlayersLoaded    int   `json:"players_loaded"`
	DuplicatePlayers int   `json:"duplicate_players_dropped"`
	StatRowsLoaded   int   `json:"stat_rows_loaded"`
	StatRowsSkipped  int   `json:"stat_rows_skipped"`
	DurationMs       int64 `json:"duration_ms"`
}

type seasonPayload struct {
	season  int
	rosters Dataset
	weekly  Dataset
}

// Run fetches every configured season, reconciles provider columns to the
// canonical store shape, and replaces the store contents.
func (s *IngestionService) Run(ctx context.Context) (RunResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.IngestionService.Run")
	defer span.End()

	start := time.Now()

	if s.provider == nil || s.store == nil {
		return RunResult{}, fmt.Errorf("%w: ingestion is not fully configured", ErrDependencyUnavailable)
	}
	if err := validateSeasons(s.cfg.Seasons); err != nil {
		return RunResult{}, err
	}

	workerCount := normalizeIngestionWorkerCount(s.cfg.MaxWorkers, len(s.cfg.Seasons))
	payloads, err := s.fetchSeasons(ctx, workerCount)
	if err != nil {
		return RunResult{}, err
	}

	playerBatches := make([]playerBatch, 0, len(payloads))
	weeklyBatches := make([]weeklyBatch, 0, len(payloads))
	for _, payload := range payloads {
		pb, err := buildPlayerBatch(payload.season, payload.rosters)
		if err != nil {
			return RunResult{}, err
		}
		playerBatches = append(playerBatches, pb)

		wb, err := buildWeeklyBatch(payload.season, payload.weekly)
		if err != nil {
			return RunResult{}, err
		}
		weeklyBatches = append(weeklyBatches, wb)
	}

	playerColumns, playerRows, duplicates := mergePlayerBatches(playerBatches)
	weeklyColumns, weeklyRows, skipped := mergeWeeklyBatches(weeklyBatches)

	playersLoaded, err := s.store.ReplacePlayers(ctx, playerColumns, playerRows)
	if err != nil {
		return RunResult{}, fmt.Errorf("replace players: %w", err)
	}
	s.logger.InfoContext(ctx, "players table replaced",
		"rows", playersLoaded,
		"duplicates_dropped", duplicates,
		"columns", strings.Join(playerColumns, ","),
	)

	statRowsLoaded, err := s.store.ReplaceWeeklyStats(ctx, weeklyColumns, weeklyRows)
	if err != nil {
		return RunResult{}, fmt.Errorf("replace weekly stats: %w", err)
	}
	s.logger.InfoContext(ctx, "weekly stats table replaced",
		"rows", statRowsLoaded,
		"rows_skipped", skipped,
		"columns", strings.Join(weeklyColumns, ","),
	)

	if err := s.store.CreateIndexes(ctx); err != nil {
		return RunResult{}, fmt.Errorf("create indexes: %w", err)
	}

	return RunResult{
		Seasons:          append([]int(nil), s.cfg.Seasons...),
		WorkerCount:      workerCount,
		PlayersLoaded:    playersLoaded,
		DuplicatePlayers: duplicates,
		StatRowsLoaded:   statRowsLoaded,
		StatRowsSkipped:  skipped,
		DurationMs:       time.Since(start).Milliseconds(),
	}, nil
}

// fetchSeasons pulls both datasets per season on a bounded pool, keeping
// results in the configured season order regardless of completion order.
func (s *IngestionService) fetchSeasons(ctx context.Context, workerCount int) ([]seasonPayload, error) {
	payloads := make([]seasonPayload, len(s.cfg.Seasons))
	errs := make([]error, len(s.cfg.Seasons))

	pool, err := ants.NewPool(workerCount)
	if err != nil {
		return nil, fmt.Errorf("create fetch pool: %w", err)
	}
	defer pool.Release()

	var workers sync.WaitGroup
	for i, season := range s.cfg.Seasons {
		i, season := i, season
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()

			rosters, err := s.provider.SeasonalRosters(ctx, season)
			if err != nil {
				errs[i] = fmt.Errorf("fetch rosters season=%d: %w", season, err)
				return
			}
			weekly, err := s.provider.WeeklyStats(ctx, season)
			if err != nil {
				errs[i] = fmt.Errorf("fetch weekly stats season=%d: %w", season, err)
				return
			}
			payloads[i] = seasonPayload{season: season, rosters: rosters, weekly: weekly}
			s.logger.InfoContext(ctx, "season fetched",
				"season", season,
				"roster_rows", len(rosters.Rows),
				"stat_rows", len(weekly.Rows),
			)
		}); err != nil {
			workers.Done()
			return nil, fmt.Errorf("submit season fetch: %w", err)
		}
	}
	workers.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDependencyUnavailable, err)
		}
	}
	return payloads, nil
}

type playerBatch struct {
	season      int
	hasPosition bool
	hasTeam     bool
	// rows are [id, name, position, team]
	rows [][4]string
}

func buildPlayerBatch(season int, ds Dataset) (playerBatch, error) {
	idIdx, ok := resolveColumn(ds.Columns, playerIDCandidates)
	if !ok {
		return playerBatch{}, fmt.Errorf("%w: rosters for season %d carry no player id column", ErrDependencyUnavailable, season)
	}
	nameIdx, hasName := resolveColumn(ds.Columns, playerNameCandidates)
	teamIdx, hasTeam := resolveColumn(ds.Columns, teamNameCandidates)
	posIdx := ds.ColumnIndex("position")

	batch := playerBatch{
		season:      season,
		hasPosition: posIdx >= 0,
		hasTeam:     hasTeam,
		rows:        make([][4]string, 0, len(ds.Rows)),
	}
	for _, row := range ds.Rows {
		id := strings.TrimSpace(ds.cell(row, idIdx))
		if id == "" {
			continue
		}

		name := id
		if hasName {
			if v := strings.TrimSpace(ds.cell(row, nameIdx)); v != "" {
				name = v
			}
		}

		var position, team string
		if posIdx >= 0 {
			position = strings.TrimSpace(ds.cell(row, posIdx))
		}
		if hasTeam {
			team = strings.TrimSpace(ds.cell(row, teamIdx))
		}
		batch.rows = append(batch.rows, [4]string{id, name, position, team})
	}
	return batch, nil
}

// mergePlayerBatches concatenates seasons in configured order and keeps the
// first row seen per player id.
func mergePlayerBatches(batches []playerBatch) ([]string, [][]string, int) {
	var hasPosition, hasTeam bool
	total := 0
	for _, batch := range batches {
		hasPosition = hasPosition || batch.hasPosition
		hasTeam = hasTeam || batch.hasTeam
		total += len(batch.rows)
	}

	columns := []string{"player_id", "player_name"}
	if hasPosition {
		columns = append(columns, "position")
	}
	if hasTeam {
		columns = append(columns, "team")
	}

	seen := make(map[string]struct{}, total)
	rows := make([][]string, 0, total)
	duplicates := 0
	for _, batch := range batches {
		for _, row := range batch.rows {
			if _, exists := seen[row[0]]; exists {
				duplicates++
				continue
			}
			seen[row[0]] = struct{}{}

			out := []string{row[0], row[1]}
			if hasPosition {
				out = append(out, row[2])
			}
			if hasTeam {
				out = append(out, row[3])
			}
			rows = append(rows, out)
		}
	}
	return columns, rows, duplicates
}

type weeklyBatch struct {
	season   int
	hasTeam  bool
	statCols map[string]bool
	rows     []weeklyRow
	skipped  int
}

type weeklyRow struct {
	playerID string
	season   string
	week     string
	team     string
	stats    map[string]string
}

func buildWeeklyBatch(season int, ds Dataset) (weeklyBatch, error) {
	idIdx, ok := resolveColumn(ds.Columns, playerIDCandidates)
	if !ok {
		return weeklyBatch{}, fmt.Errorf("%w: weekly stats for season %d carry no player id column", ErrDependencyUnavailable, season)
	}
	weekIdx := ds.ColumnIndex("week")
	if weekIdx < 0 {
		return weeklyBatch{}, fmt.Errorf("%w: weekly stats for season %d carry no week column", ErrDependencyUnavailable, season)
	}
	seasonIdx := ds.ColumnIndex("season")
	teamIdx, hasTeam := resolveColumn(ds.Columns, teamNameCandidates)

	statIdx := make(map[string]int, len(weeklystats.StatColumns))
	statCols := make(map[string]bool, len(weeklystats.StatColumns))
	for _, col := range weeklystats.StatColumns {
		if idx := ds.ColumnIndex(col); idx >= 0 {
			statIdx[col] = idx
			statCols[col] = true
		}
	}

	contentCols := make([]string, 0, len(rowContentColumns))
	for _, col := range rowContentColumns {
		if statCols[col] {
			contentCols = append(contentCols, col)
		}
	}

	batch := weeklyBatch{
		season:   season,
		hasTeam:  hasTeam,
		statCols: statCols,
		rows:     make([]weeklyRow, 0, len(ds.Rows)),
	}
	fallbackSeason := strconv.Itoa(season)

	for _, row := range ds.Rows {
		id := strings.TrimSpace(ds.cell(row, idIdx))
		week := strings.TrimSpace(ds.cell(row, weekIdx))
		if id == "" || week == "" {
			batch.skipped++
			continue
		}

		stats := make(map[string]string, len(statIdx))
		hasContent := len(contentCols) == 0
		for col, idx := range statIdx {
			stats[col] = strings.TrimSpace(ds.cell(row, idx))
		}
		for _, col := range contentCols {
			if stats[col] != "" {
				hasContent = true
				break
			}
		}
		if !hasContent {
			batch.skipped++
			continue
		}

		seasonValue := fallbackSeason
		if seasonIdx >= 0 {
			if v := strings.TrimSpace(ds.cell(row, seasonIdx)); v != "" {
				seasonValue = v
			}
		}

		item := weeklyRow{
			playerID: id,
			season:   seasonValue,
			week:     week,
			stats:    stats,
		}
		if hasTeam {
			item.team = strings.TrimSpace(ds.cell(row, teamIdx))
		}
		batch.rows = append(batch.rows, item)
	}
	return batch, nil
}

func mergeWeeklyBatches(batches []weeklyBatch) ([]string, [][]string, int) {
	var hasTeam bool
	statPresent := make(map[string]bool, len(weeklystats.StatColumns))
	total, skipped := 0, 0
	for _, batch := range batches {
		hasTeam = hasTeam || batch.hasTeam
		for col := range batch.statCols {
			statPresent[col] = true
		}
		total += len(batch.rows)
		skipped += batch.skipped
	}

	columns := []string{"player_id", "season", "week"}
	if hasTeam {
		columns = append(columns, "team")
	}
	orderedStats := make([]string, 0, len(statPresent))
	for _, col := range weeklystats.StatColumns {
		if statPresent[col] {
			orderedStats = append(orderedStats, col)
		}
	}
	columns = append(columns, orderedStats...)

	rows := make([][]string, 0, total)
	for _, batch := range batches {
		for _, row := range batch.rows {
			out := make([]string, 0, len(columns))
			out = append(out, row.playerID, row.season, row.week)
			if hasTeam {
				out = append(out, row.team)
			}
			for _, col := range orderedStats {
				out = append(out, row.stats[col])
			}
			rows = append(rows, out)
		}
	}
	return columns, rows, skipped
}

func resolveColumn(columns []string, candidates []string) (int, bool) {
	for _, candidate := range candidates {
		for i, col := range columns {
			if col == candidate {
				return i, true
			}
		}
	}
	return -1, false
}

func validateSeasons(seasons []int) error {
	if len(seasons) == 0 {
		return fmt.Errorf("%w: at least one season is required", ErrInvalidInput)
	}
	maxSeason := time.Now().Year() + 1
	for _, season := range seasons {
		if season < minSupportedSeason || season > maxSeason {
			return fmt.Errorf("%w: season %d is out of range", ErrInvalidInput, season)
		}
	}
	return nil
}

func normalizeIngestionWorkerCount(value, seasonCount int) int {
	if value <= 0 {
		value = defaultIngestionWorkers
	}
	if value > maxIngestionWorkers {
		value = maxIngestionWorkers
	}
	if value > seasonCount {
		value = seasonCount
	}
	if value < 1 {
		value = 1
	}
	return value
}
