package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"

	"github.com/jmoiron/sqlx"

	"github.com/gridironlabs/nfl-stats/internal/domain/weeklystats"
	qb "github.com/gridironlabs/nfl-stats/internal/platform/querybuilder"
)

type WeeklyStatsRepository struct {
	db          *sqlx.DB
	caps        TableCapabilities
	playersCaps TableCapabilities
}

func NewWeeklyStatsRepository(db *sqlx.DB, caps Capabilities) *WeeklyStatsRepository {
	return &WeeklyStatsRepository{db: db, caps: caps.WeeklyStats, playersCaps: caps.Players}
}

type statLineRow struct {
	PlayerID         string          `db:"player_id"`
	Season           int             `db:"season"`
	Week             int             `db:"week"`
	Team             sql.NullString  `db:"team"`
	PassingYards     sql.NullFloat64 `db:"passing_yards"`
	RushingYards     sql.NullFloat64 `db:"rushing_yards"`
	ReceivingYards   sql.NullFloat64 `db:"receiving_yards"`
	PassingTDs       sql.NullFloat64 `db:"passing_tds"`
	RushingTDs       sql.NullFloat64 `db:"rushing_tds"`
	ReceivingTDs     sql.NullFloat64 `db:"receiving_tds"`
	FantasyPointsPPR sql.NullFloat64 `db:"fantasy_points_ppr"`
}

// presentStatColumns returns the wishlist columns this store actually has,
// in canonical order.
func (r *WeeklyStatsRepository) presentStatColumns() []string {
	cols := make([]string, 0, len(weeklystats.StatColumns))
	for _, col := range weeklystats.StatColumns {
		if r.caps.Has(col) {
			cols = append(cols, col)
		}
	}
	return cols
}

func (r *WeeklyStatsRepository) lineSelectColumns() []string {
	cols := []string{"player_id", "season", "week"}
	if r.caps.TeamColumn != "" {
		cols = append(cols, r.caps.TeamColumn+" AS team")
	} else {
		cols = append(cols, "NULL AS team")
	}
	for _, col := range weeklystats.StatColumns {
		if r.caps.Has(col) {
			cols = append(cols, col)
		} else {
			cols = append(cols, "NULL AS "+col)
		}
	}
	return cols
}

func (r *WeeklyStatsRepository) ListRecentByPlayer(ctx context.Context, playerID string, limit int) ([]weeklystats.StatLine, error) {
	if !r.caps.Exists {
		return []weeklystats.StatLine{}, nil
	}

	builder := qb.Select(r.lineSelectColumns()...).From(weeklyStatsTable).
		Where(qb.Eq("player_id", playerID)).
		OrderBy("season DESC", "week DESC")
	if limit > 0 {
		builder = builder.Limit(limit)
	}

	query, args, err := builder.ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build recent games query: %w", err)
	}

	var rows []statLineRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select recent games for %s: %w", playerID, err)
	}

	out := make([]weeklystats.StatLine, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *WeeklyStatsRepository) TeamSeason(ctx context.Context, team string, season int) (weeklystats.TeamSeasonStats, bool, error) {
	if !r.caps.Exists || r.caps.TeamColumn == "" {
		return weeklystats.TeamSeasonStats{}, false, weeklystats.ErrTeamColumnMissing
	}

	statCols := r.presentStatColumns()

	totals, games, err := r.teamSeasonTotals(ctx, team, season, statCols)
	if err != nil {
		return weeklystats.TeamSeasonStats{}, false, err
	}
	if games == 0 {
		return weeklystats.TeamSeasonStats{}, false, nil
	}

	stats := weeklystats.TeamSeasonStats{
		Team:   team,
		Season: season,
		Games:  games,
		Totals: totals,
	}

	if r.playersCaps.Has("position") {
		stats.ByPosition, err = r.teamSeasonByPosition(ctx, team, season, statCols)
		if err != nil {
			return weeklystats.TeamSeasonStats{}, false, err
		}
	}

	stats.ByPlayer, err = r.teamSeasonByPlayer(ctx, team, season, statCols)
	if err != nil {
		return weeklystats.TeamSeasonStats{}, false, err
	}

	return stats, true, nil
}

func (r *WeeklyStatsRepository) teamSeasonTotals(ctx context.Context, team string, season int, statCols []string) (weeklystats.StatTotals, int, error) {
	cols := []string{"COUNT(*) AS games"}
	for _, col := range statCols {
		cols = append(cols, "SUM("+col+") AS "+col)
	}

	query, args, err := qb.Select(cols...).From(weeklyStatsTable).
		Where(qb.Eq(r.caps.TeamColumn, team), qb.Eq("season", season)).
		ToSQL()
	if err != nil {
		return nil, 0, fmt.Errorf("build team totals query: %w", err)
	}

	row := r.db.QueryRowxContext(ctx, query, args...)
	scanned := make(map[string]any)
	if err := row.MapScan(scanned); err != nil {
		return nil, 0, fmt.Errorf("scan team totals: %w", err)
	}

	games := int(toFloat(scanned["games"]))
	totals := make(weeklystats.StatTotals, len(statCols))
	for _, col := range statCols {
		if scanned[col] == nil {
			continue
		}
		totals[col] = toFloat(scanned[col])
	}
	return totals, games, nil
}

func (r *WeeklyStatsRepository) teamSeasonByPosition(ctx context.Context, team string, season int, statCols []string) ([]weeklystats.PositionTotals, error) {
	cols := []string{
		"COALESCE(p.position, 'UNK') AS position",
		"COUNT(DISTINCT w.player_id) AS players",
	}
	for _, col := range statCols {
		cols = append(cols, "SUM(w."+col+") AS "+col)
	}

	query, args, err := qb.Select(cols...).
		From(weeklyStatsTable + " w LEFT JOIN " + playersTable + " p ON p.player_id = w.player_id").
		Where(qb.Eq("w."+r.caps.TeamColumn, team), qb.Eq("w.season", season)).
		GroupBy("COALESCE(p.position, 'UNK')").
		OrderBy("position").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build team position totals query: %w", err)
	}

	rows, err := r.db.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select team position totals: %w", err)
	}
	defer rows.Close()

	var out []weeklystats.PositionTotals
	for rows.Next() {
		scanned := make(map[string]any)
		if err := rows.MapScan(scanned); err != nil {
			return nil, fmt.Errorf("scan team position totals: %w", err)
		}
		out = append(out, weeklystats.PositionTotals{
			Position: toString(scanned["position"]),
			Players:  int(toFloat(scanned["players"])),
			Totals:   pickTotals(scanned, statCols),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate team position totals: %w", err)
	}
	return out, nil
}

func (r *WeeklyStatsRepository) teamSeasonByPlayer(ctx context.Context, team string, season int, statCols []string) ([]weeklystats.PlayerTotals, error) {
	nameExpr := "w.player_id AS player_name"
	if r.playersCaps.Has("player_name") {
		nameExpr = "COALESCE(p.player_name, w.player_id) AS player_name"
	}
	cols := []string{"w.player_id AS player_id", nameExpr}
	for _, col := range statCols {
		cols = append(cols, "SUM(w."+col+") AS "+col)
	}

	orderBy := "player_name"
	if r.caps.Has(weeklystats.ColFantasyPointsPPR) {
		orderBy = "SUM(w." + weeklystats.ColFantasyPointsPPR + ") DESC"
	}

	from := weeklyStatsTable + " w LEFT JOIN " + playersTable + " p ON p.player_id = w.player_id"
	if !r.playersCaps.Exists {
		from = weeklyStatsTable + " w"
	}

	query, args, err := qb.Select(cols...).From(from).
		Where(qb.Eq("w."+r.caps.TeamColumn, team), qb.Eq("w.season", season)).
		GroupBy("w.player_id").
		OrderBy(orderBy).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build team player totals query: %w", err)
	}

	rows, err := r.db.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select team player totals: %w", err)
	}
	defer rows.Close()

	var out []weeklystats.PlayerTotals
	for rows.Next() {
		scanned := make(map[string]any)
		if err := rows.MapScan(scanned); err != nil {
			return nil, fmt.Errorf("scan team player totals: %w", err)
		}
		out = append(out, weeklystats.PlayerTotals{
			PlayerID: toString(scanned["player_id"]),
			Name:     toString(scanned["player_name"]),
			Totals:   pickTotals(scanned, statCols),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate team player totals: %w", err)
	}
	return out, nil
}

func (r *WeeklyStatsRepository) SeasonLeaders(ctx context.Context, season int, position string, limit int) ([]weeklystats.Leader, error) {
	if !r.caps.Exists || !r.caps.Has(weeklystats.ColFantasyPointsPPR) {
		return nil, weeklystats.ErrFantasyPointsMissing
	}

	joinPlayers := r.playersCaps.Exists
	nameExpr := "w.player_id AS player_name"
	positionExpr := "NULL AS position"
	from := weeklyStatsTable + " w"
	if joinPlayers {
		from += " LEFT JOIN " + playersTable + " p ON p.player_id = w.player_id"
		if r.playersCaps.Has("player_name") {
			nameExpr = "COALESCE(p.player_name, w.player_id) AS player_name"
		}
		if r.playersCaps.Has("position") {
			positionExpr = "p.position AS position"
		}
	}

	builder := qb.Select(
		"w.player_id AS player_id",
		nameExpr,
		positionExpr,
		"COUNT(*) AS games",
		"SUM(w."+weeklystats.ColFantasyPointsPPR+") AS total_points",
	).From(from).
		Where(qb.Eq("w.season", season))
	if position != "" && joinPlayers && r.playersCaps.Has("position") {
		builder = builder.Where(qb.Eq("p.position", position))
	}
	builder = builder.GroupBy("w.player_id").OrderBy("total_points DESC")
	if limit > 0 {
		builder = builder.Limit(limit)
	}

	query, args, err := builder.ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build season leaders query: %w", err)
	}

	type leaderRow struct {
		PlayerID    string          `db:"player_id"`
		Name        sql.NullString  `db:"player_name"`
		Position    sql.NullString  `db:"position"`
		Games       int             `db:"games"`
		TotalPoints sql.NullFloat64 `db:"total_points"`
	}

	var rows []leaderRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select season leaders: %w", err)
	}

	out := make([]weeklystats.Leader, 0, len(rows))
	for _, row := range rows {
		leader := weeklystats.Leader{
			PlayerID:           row.PlayerID,
			Name:               row.Name.String,
			Games:              row.Games,
			TotalFantasyPoints: row.TotalPoints.Float64,
		}
		if row.Position.Valid {
			pos := row.Position.String
			leader.Position = &pos
		}
		if row.Games > 0 {
			leader.AvgFantasyPoints = row.TotalPoints.Float64 / float64(row.Games)
		}
		out = append(out, leader)
	}
	return out, nil
}

func (row statLineRow) toDomain() weeklystats.StatLine {
	line := weeklystats.StatLine{
		PlayerID: row.PlayerID,
		Season:   row.Season,
		Week:     row.Week,
	}
	if row.Team.Valid {
		team := row.Team.String
		line.Team = &team
	}
	line.PassingYards = nullFloatPtr(row.PassingYards)
	line.RushingYards = nullFloatPtr(row.RushingYards)
	line.ReceivingYards = nullFloatPtr(row.ReceivingYards)
	line.PassingTDs = nullFloatPtr(row.PassingTDs)
	line.RushingTDs = nullFloatPtr(row.RushingTDs)
	line.ReceivingTDs = nullFloatPtr(row.ReceivingTDs)
	line.FantasyPointsPPR = nullFloatPtr(row.FantasyPointsPPR)
	return line
}

func nullFloatPtr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

func pickTotals(scanned map[string]any, statCols []string) weeklystats.StatTotals {
	totals := make(weeklystats.StatTotals, len(statCols))
	for _, col := range statCols {
		if scanned[col] == nil {
			continue
		}
		totals[col] = toFloat(scanned[col])
	}
	return totals
}

// toFloat normalizes driver-dependent numeric scan types. SQLite reports
// SUM over INTEGER affinity as int64 and over REAL as float64.
func toFloat(v any) float64 {
	switch val := v.(type) {
	case float64:
		return val
	case int64:
		return float64(val)
	case []byte:
		f, _ := strconv.ParseFloat(string(val), 64)
		return f
	case string:
		f, _ := strconv.ParseFloat(val, 64)
		return f
	default:
		return 0
	}
}

func toString(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case []byte:
		return string(val)
	default:
		return fmt.Sprintf("%v", val)
	}
}
