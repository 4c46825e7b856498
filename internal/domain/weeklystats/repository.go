package weeklystats

import "context"

// Repository describes weekly stat reads needed by use cases.
type Repository interface {
	// ListRecentByPlayer returns up to limit rows ordered by season then
	// week, both descending.
	ListRecentByPlayer(ctx context.Context, playerID string, limit int) ([]StatLine, error)
	// TeamSeason aggregates one team's season. found is false when the team
	// has no rows for that season. Returns ErrTeamColumnMissing when the
	// store cannot be scoped by team at all.
	TeamSeason(ctx context.Context, team string, season int) (stats TeamSeasonStats, found bool, err error)
	// SeasonLeaders ranks players by summed fantasy points for a season,
	// optionally filtered by position. Returns ErrFantasyPointsMissing when
	// the store has no fantasy points column.
	SeasonLeaders(ctx context.Context, season int, position string, limit int) ([]Leader, error)
}
