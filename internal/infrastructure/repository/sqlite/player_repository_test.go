package sqlite

import (
	"context"
	"testing"

	"github.com/gridironlabs/nfl-stats/internal/domain/player"
)

func TestPlayerRepositorySearchByName(t *testing.T) {
	db := newTestDB(t)
	seedStore(t, db)
	repo := NewPlayerRepository(db, mustCapabilities(t, db).Players)

	got, err := repo.Search(context.Background(), player.SearchFilter{NameQuery: "maho"})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(got) != 1 || got[0].ID != "00-001" {
		t.Fatalf("unexpected result: %+v", got)
	}
	if got[0].Name != "Patrick Mahomes" || got[0].Team != "KC" {
		t.Fatalf("unexpected player fields: %+v", got[0])
	}
}

func TestPlayerRepositorySearchFiltersCombine(t *testing.T) {
	db := newTestDB(t)
	seedStore(t, db)
	repo := NewPlayerRepository(db, mustCapabilities(t, db).Players)

	got, err := repo.Search(context.Background(), player.SearchFilter{Team: "KC", Position: "QB"})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(got) != 1 || got[0].ID != "00-001" {
		t.Fatalf("unexpected result: %+v", got)
	}
}

func TestPlayerRepositorySearchOrdersByNameAndLimits(t *testing.T) {
	db := newTestDB(t)
	seedStore(t, db)
	repo := NewPlayerRepository(db, mustCapabilities(t, db).Players)

	got, err := repo.Search(context.Background(), player.SearchFilter{Limit: 2})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 players, got %d", len(got))
	}
	if got[0].Name != "Josh Allen" || got[1].Name != "Patrick Mahomes" {
		t.Fatalf("unexpected order: %+v", got)
	}
}

func TestPlayerRepositoryDropsFilterOnMissingColumn(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	loader := NewLoaderRepository(db)
	if _, err := loader.ReplacePlayers(ctx,
		[]string{"player_id", "player_name"},
		[][]string{{"00-001", "Patrick Mahomes"}, {"00-003", "Josh Allen"}},
	); err != nil {
		t.Fatalf("seed players: %v", err)
	}

	repo := NewPlayerRepository(db, mustCapabilities(t, db).Players)
	got, err := repo.Search(ctx, player.SearchFilter{Team: "KC"})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("team filter should be dropped without a team column, got %+v", got)
	}
	if got[0].Team != "" || got[0].Position != "" {
		t.Fatalf("missing columns should scan as empty, got %+v", got[0])
	}
}

func TestPlayerRepositoryGetByID(t *testing.T) {
	db := newTestDB(t)
	seedStore(t, db)
	repo := NewPlayerRepository(db, mustCapabilities(t, db).Players)
	ctx := context.Background()

	got, found, err := repo.GetByID(ctx, "00-002")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !found || got.Name != "Travis Kelce" {
		t.Fatalf("unexpected result: found=%v player=%+v", found, got)
	}

	_, found, err = repo.GetByID(ctx, "99-999")
	if err != nil {
		t.Fatalf("get missing: %v", err)
	}
	if found {
		t.Fatal("expected not found")
	}
}
