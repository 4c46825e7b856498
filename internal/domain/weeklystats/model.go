package weeklystats

import "errors"

// Canonical weekly stat column names as written by the loader. The query
// side only ever projects columns from this list; never request input.
const (
	ColPlayerID         = "player_id"
	ColSeason           = "season"
	ColWeek             = "week"
	ColTeam             = "team"
	ColPassingYards     = "passing_yards"
	ColRushingYards     = "rushing_yards"
	ColReceivingYards   = "receiving_yards"
	ColPassingTDs       = "passing_tds"
	ColRushingTDs       = "rushing_tds"
	ColReceivingTDs     = "receiving_tds"
	ColFantasyPointsPPR = "fantasy_points_ppr"
)

// StatColumns is the fixed wishlist of numeric stat columns, in output order.
var StatColumns = []string{
	ColPassingYards,
	ColRushingYards,
	ColReceivingYards,
	ColPassingTDs,
	ColRushingTDs,
	ColReceivingTDs,
	ColFantasyPointsPPR,
}

var (
	// ErrTeamColumnMissing reports a store with no team-identifying column,
	// which makes team-scoped aggregates impossible.
	ErrTeamColumnMissing = errors.New("weekly stats store has no team column")
	// ErrFantasyPointsMissing reports a store without fantasy_points_ppr,
	// which makes leader rankings impossible.
	ErrFantasyPointsMissing = errors.New("weekly stats store has no fantasy points column")
)

// StatLine is one (player, season, week) observation. Nil stat fields mean
// the column is absent from the store or the row held NULL.
type StatLine struct {
	PlayerID         string
	Season           int
	Week             int
	Team             *string
	PassingYards     *float64
	RushingYards     *float64
	ReceivingYards   *float64
	PassingTDs       *float64
	RushingTDs       *float64
	ReceivingTDs     *float64
	FantasyPointsPPR *float64
}

// StatTotals maps canonical stat column name to its sum. Only columns
// present in the store appear as keys.
type StatTotals map[string]float64

// TeamSeasonStats aggregates one team's rows for one season.
type TeamSeasonStats struct {
	Team       string
	Season     int
	Games      int
	Totals     StatTotals
	ByPosition []PositionTotals
	ByPlayer   []PlayerTotals
}

// PositionTotals groups a team's season stats by roster position.
type PositionTotals struct {
	Position string
	Players  int
	Totals   StatTotals
}

// PlayerTotals groups a team's season stats by player, ordered by
// descending fantasy points.
type PlayerTotals struct {
	PlayerID string
	Name     string
	Totals   StatTotals
}

// Leader is one row of a season fantasy-points ranking.
type Leader struct {
	PlayerID           string
	Name               string
	Position           *string
	Games              int
	TotalFantasyPoints float64
	AvgFantasyPoints   float64
}
