package sqlite

import (
	"context"
	"testing"

	"github.com/jmoiron/sqlx"
)

func newTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	db, err := sqlx.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open in-memory sqlite: %v", err)
	}
	// one connection, otherwise each pooled conn gets its own empty database
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	return db
}

func seedStore(t *testing.T, db *sqlx.DB) {
	t.Helper()
	ctx := context.Background()
	loader := NewLoaderRepository(db)

	_, err := loader.ReplacePlayers(ctx,
		[]string{"player_id", "player_name", "position", "team"},
		[][]string{
			{"00-001", "Patrick Mahomes", "QB", "KC"},
			{"00-002", "Travis Kelce", "TE", "KC"},
			{"00-003", "Josh Allen", "QB", "BUF"},
			{"00-004", "Stefon Diggs", "WR", "HOU"},
		})
	if err != nil {
		t.Fatalf("seed players: %v", err)
	}

	_, err = loader.ReplaceWeeklyStats(ctx,
		[]string{"player_id", "season", "week", "team", "passing_yards", "rushing_yards", "receiving_yards", "passing_tds", "rushing_tds", "receiving_tds", "fantasy_points_ppr"},
		[][]string{
			{"00-001", "2024", "1", "KC", "291", "12", "", "2", "0", "0", "24.14"},
			{"00-001", "2024", "2", "KC", "310", "5", "", "1", "1", "0", "26.9"},
			{"00-002", "2024", "1", "KC", "", "", "69", "0", "0", "1", "18.9"},
			{"00-002", "2024", "2", "KC", "", "", "54", "0", "0", "0", "10.4"},
			{"00-003", "2024", "1", "BUF", "232", "39", "", "2", "1", "0", "28.18"},
			{"00-003", "2023", "17", "BUF", "359", "20", "", "3", "0", "0", "31.36"},
		})
	if err != nil {
		t.Fatalf("seed weekly stats: %v", err)
	}

	if err := loader.CreateIndexes(ctx); err != nil {
		t.Fatalf("create indexes: %v", err)
	}
}

func mustCapabilities(t *testing.T, db *sqlx.DB) Capabilities {
	t.Helper()
	caps, err := IntrospectCapabilities(context.Background(), db)
	if err != nil {
		t.Fatalf("introspect capabilities: %v", err)
	}
	return caps
}
