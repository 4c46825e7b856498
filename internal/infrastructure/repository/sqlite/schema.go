package sqlite

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

const (
	playersTable     = "players"
	weeklyStatsTable = "weekly_stats"
)

// teamColumnCandidates are accepted team-identifying column names, most
// preferred first. Stores written by older loader revisions kept the
// provider's recent_team name instead of the canonical one.
var teamColumnCandidates = []string{"recent_team", "team"}

// TableCapabilities records what one table can answer. The query side is
// read only, so this is settled once at startup.
type TableCapabilities struct {
	Exists     bool
	Columns    map[string]bool
	TeamColumn string
}

// Has reports whether the table exists and carries the named column.
func (t TableCapabilities) Has(column string) bool {
	return t.Exists && t.Columns[column]
}

// Capabilities describes the loaded store's shape.
type Capabilities struct {
	Players     TableCapabilities
	WeeklyStats TableCapabilities
}

// IntrospectCapabilities inspects the store's actual tables so queries can
// adapt to whatever an earlier loader run produced.
func IntrospectCapabilities(ctx context.Context, db *sqlx.DB) (Capabilities, error) {
	players, err := introspectTable(ctx, db, playersTable)
	if err != nil {
		return Capabilities{}, err
	}

	weekly, err := introspectTable(ctx, db, weeklyStatsTable)
	if err != nil {
		return Capabilities{}, err
	}

	return Capabilities{Players: players, WeeklyStats: weekly}, nil
}

func introspectTable(ctx context.Context, db *sqlx.DB, table string) (TableCapabilities, error) {
	var names []string
	if err := db.SelectContext(ctx, &names, "SELECT name FROM pragma_table_info(?)", table); err != nil {
		return TableCapabilities{}, fmt.Errorf("introspect table %s: %w", table, err)
	}
	if len(names) == 0 {
		return TableCapabilities{}, nil
	}

	caps := TableCapabilities{Exists: true, Columns: make(map[string]bool, len(names))}
	for _, name := range names {
		caps.Columns[name] = true
	}
	for _, candidate := range teamColumnCandidates {
		if caps.Columns[candidate] {
			caps.TeamColumn = candidate
			break
		}
	}

	return caps, nil
}
