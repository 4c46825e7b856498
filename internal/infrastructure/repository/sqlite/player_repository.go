package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/gridironlabs/nfl-stats/internal/domain/player"
	qb "github.com/gridironlabs/nfl-stats/internal/platform/querybuilder"
)

type PlayerRepository struct {
	db   *sqlx.DB
	caps TableCapabilities
}

func NewPlayerRepository(db *sqlx.DB, caps TableCapabilities) *PlayerRepository {
	return &PlayerRepository{db: db, caps: caps}
}

type playerRow struct {
	PlayerID string         `db:"player_id"`
	Name     sql.NullString `db:"player_name"`
	Position sql.NullString `db:"position"`
	Team     sql.NullString `db:"team"`
}

// selectColumns aliases columns the store is missing to NULL so the same
// row model scans against any loaded store shape.
func (r *PlayerRepository) selectColumns() []string {
	cols := []string{"player_id"}
	if r.caps.Has("player_name") {
		cols = append(cols, "player_name")
	} else {
		cols = append(cols, "player_id AS player_name")
	}
	if r.caps.Has("position") {
		cols = append(cols, "position")
	} else {
		cols = append(cols, "NULL AS position")
	}
	if r.caps.TeamColumn != "" {
		cols = append(cols, r.caps.TeamColumn+" AS team")
	} else {
		cols = append(cols, "NULL AS team")
	}
	return cols
}

// Search lists roster entries matching the filter. Filters on columns the
// store never had are dropped rather than matching nothing.
func (r *PlayerRepository) Search(ctx context.Context, filter player.SearchFilter) ([]player.Player, error) {
	if !r.caps.Exists {
		return []player.Player{}, nil
	}

	builder := qb.Select(r.selectColumns()...).From(playersTable)
	if filter.NameQuery != "" && r.caps.Has("player_name") {
		builder = builder.Where(qb.Like("player_name", "%"+filter.NameQuery+"%"))
	}
	if filter.Team != "" && r.caps.TeamColumn != "" {
		builder = builder.Where(qb.Eq(r.caps.TeamColumn, filter.Team))
	}
	if filter.Position != "" && r.caps.Has("position") {
		builder = builder.Where(qb.Eq("position", filter.Position))
	}
	if r.caps.Has("player_name") {
		builder = builder.OrderBy("player_name")
	} else {
		builder = builder.OrderBy("player_id")
	}
	if filter.Limit > 0 {
		builder = builder.Limit(filter.Limit)
	}

	query, args, err := builder.ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build search players query: %w", err)
	}

	var rows []playerRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("search players: %w", err)
	}

	out := make([]player.Player, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *PlayerRepository) GetByID(ctx context.Context, playerID string) (player.Player, bool, error) {
	if !r.caps.Exists {
		return player.Player{}, false, nil
	}

	query, args, err := qb.Select(r.selectColumns()...).From(playersTable).
		Where(qb.Eq("player_id", playerID)).
		Limit(1).
		ToSQL()
	if err != nil {
		return player.Player{}, false, fmt.Errorf("build get player query: %w", err)
	}

	var row playerRow
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return player.Player{}, false, nil
		}
		return player.Player{}, false, fmt.Errorf("get player %s: %w", playerID, err)
	}

	return row.toDomain(), true, nil
}

func (row playerRow) toDomain() player.Player {
	return player.Player{
		ID:       row.PlayerID,
		Name:     row.Name.String,
		Position: row.Position.String,
		Team:     row.Team.String,
	}
}
