package sqlite

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/jmoiron/sqlx"

	qb "github.com/gridironlabs/nfl-stats/internal/platform/querybuilder"
)

const maxInsertParams = 500

// Column affinities for the canonical loader output. Columns outside these
// maps are rejected so request data can never reach a DDL statement.
var (
	playersColumnTypes = map[string]string{
		"player_id":   "TEXT",
		"player_name": "TEXT",
		"position":    "TEXT",
		"team":        "TEXT",
	}
	weeklyStatsColumnTypes = map[string]string{
		"player_id":          "TEXT",
		"season":             "INTEGER",
		"week":               "INTEGER",
		"team":               "TEXT",
		"passing_yards":      "REAL",
		"rushing_yards":      "REAL",
		"receiving_yards":    "REAL",
		"passing_tds":        "REAL",
		"rushing_tds":        "REAL",
		"receiving_tds":      "REAL",
		"fantasy_points_ppr": "REAL",
	}
)

// LoaderRepository owns the loader's write path. Each Replace call drops and
// recreates its table inside one transaction so a crashed run never leaves a
// half-written store behind.
type LoaderRepository struct {
	db *sqlx.DB
}

func NewLoaderRepository(db *sqlx.DB) *LoaderRepository {
	return &LoaderRepository{db: db}
}

func (r *LoaderRepository) ReplacePlayers(ctx context.Context, columns []string, rows [][]string) (int, error) {
	return r.replaceTable(ctx, playersTable, playersColumnTypes, columns, rows)
}

func (r *LoaderRepository) ReplaceWeeklyStats(ctx context.Context, columns []string, rows [][]string) (int, error) {
	return r.replaceTable(ctx, weeklyStatsTable, weeklyStatsColumnTypes, columns, rows)
}

func (r *LoaderRepository) replaceTable(ctx context.Context, table string, columnTypes map[string]string, columns []string, rows [][]string) (int, error) {
	if len(columns) == 0 {
		return 0, fmt.Errorf("replace %s: no columns given", table)
	}
	defs := make([]string, 0, len(columns))
	for _, col := range columns {
		colType, ok := columnTypes[col]
		if !ok {
			return 0, fmt.Errorf("replace %s: column %q is not allowed", table, col)
		}
		defs = append(defs, col+" "+colType)
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin replace %s: %w", table, err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DROP TABLE IF EXISTS "+table); err != nil {
		return 0, fmt.Errorf("drop %s: %w", table, err)
	}
	createStmt := "CREATE TABLE " + table + " (" + strings.Join(defs, ", ") + ")"
	if _, err := tx.ExecContext(ctx, createStmt); err != nil {
		return 0, fmt.Errorf("create %s: %w", table, err)
	}

	rowsPerChunk := maxInsertParams / len(columns)
	if rowsPerChunk < 1 {
		rowsPerChunk = 1
	}
	for start := 0; start < len(rows); start += rowsPerChunk {
		end := start + rowsPerChunk
		if end > len(rows) {
			end = len(rows)
		}

		builder := qb.InsertInto(table).Columns(columns...)
		for _, row := range rows[start:end] {
			builder = builder.Values(convertRow(columns, columnTypes, row)...)
		}
		query, args, err := builder.ToSQL()
		if err != nil {
			return 0, fmt.Errorf("build insert %s: %w", table, err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return 0, fmt.Errorf("insert %s rows: %w", table, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit replace %s: %w", table, err)
	}
	return len(rows), nil
}

// convertRow maps CSV cells to bind values. Empty cells and unparseable
// numerics become NULL rather than aborting the load.
func convertRow(columns []string, columnTypes map[string]string, row []string) []any {
	out := make([]any, len(columns))
	for i, col := range columns {
		if i >= len(row) {
			continue
		}
		cell := strings.TrimSpace(row[i])
		if cell == "" {
			continue
		}
		switch columnTypes[col] {
		case "INTEGER":
			f, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				continue
			}
			out[i] = int64(f)
		case "REAL":
			f, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				continue
			}
			out[i] = f
		default:
			out[i] = cell
		}
	}
	return out
}

// CreateIndexes adds the query service's covering indexes, skipping any
// whose columns the loaded tables ended up without.
func (r *LoaderRepository) CreateIndexes(ctx context.Context) error {
	caps, err := IntrospectCapabilities(ctx, r.db)
	if err != nil {
		return err
	}

	type indexDef struct {
		stmt string
		ok   bool
	}
	indexes := []indexDef{
		{
			stmt: "CREATE INDEX IF NOT EXISTS idx_players_id ON players (player_id)",
			ok:   caps.Players.Has("player_id"),
		},
		{
			stmt: "CREATE INDEX IF NOT EXISTS idx_players_name ON players (player_name)",
			ok:   caps.Players.Has("player_name"),
		},
		{
			stmt: "CREATE INDEX IF NOT EXISTS idx_players_team_pos ON players (team, position)",
			ok:   caps.Players.Has("team") && caps.Players.Has("position"),
		},
		{
			stmt: "CREATE INDEX IF NOT EXISTS idx_weekly_player ON weekly_stats (player_id)",
			ok:   caps.WeeklyStats.Has("player_id"),
		},
		{
			stmt: "CREATE INDEX IF NOT EXISTS idx_weekly_season_week ON weekly_stats (season, week)",
			ok:   caps.WeeklyStats.Has("season") && caps.WeeklyStats.Has("week"),
		},
	}

	for _, idx := range indexes {
		if !idx.ok {
			continue
		}
		if _, err := r.db.ExecContext(ctx, idx.stmt); err != nil {
			return fmt.Errorf("create index: %w", err)
		}
	}
	return nil
}
