package usecase

import (
	"context"
	"sync/atomic"

	"github.com/gridironlabs/nfl-stats/internal/domain/player"
	"github.com/gridironlabs/nfl-stats/internal/domain/weeklystats"
)

type fakeProvider struct {
	rosters map[int]Dataset
	weekly  map[int]Dataset
	err     error
}

func (f *fakeProvider) SeasonalRosters(_ context.Context, season int) (Dataset, error) {
	if f.err != nil {
		return Dataset{}, f.err
	}
	return f.rosters[season], nil
}

func (f *fakeProvider) WeeklyStats(_ context.Context, season int) (Dataset, error) {
	if f.err != nil {
		return Dataset{}, f.err
	}
	return f.weekly[season], nil
}

type fakeLoaderStore struct {
	playerColumns []string
	playerRows    [][]string
	weeklyColumns []string
	weeklyRows    [][]string
	indexed       bool
}

func (f *fakeLoaderStore) ReplacePlayers(_ context.Context, columns []string, rows [][]string) (int, error) {
	f.playerColumns = columns
	f.playerRows = rows
	return len(rows), nil
}

func (f *fakeLoaderStore) ReplaceWeeklyStats(_ context.Context, columns []string, rows [][]string) (int, error) {
	f.weeklyColumns = columns
	f.weeklyRows = rows
	return len(rows), nil
}

func (f *fakeLoaderStore) CreateIndexes(context.Context) error {
	f.indexed = true
	return nil
}

type fakePlayerRepo struct {
	players    map[string]player.Player
	lastFilter player.SearchFilter
}

func (f *fakePlayerRepo) Search(_ context.Context, filter player.SearchFilter) ([]player.Player, error) {
	f.lastFilter = filter
	out := make([]player.Player, 0, len(f.players))
	for _, item := range f.players {
		out = append(out, item)
	}
	return out, nil
}

func (f *fakePlayerRepo) GetByID(_ context.Context, playerID string) (player.Player, bool, error) {
	item, ok := f.players[playerID]
	return item, ok, nil
}

type fakeStatsRepo struct {
	lines      []weeklystats.StatLine
	lastLimit  int
	teamStats  weeklystats.TeamSeasonStats
	teamFound  bool
	teamErr    error
	leaders    []weeklystats.Leader
	leadersErr error
	calls      atomic.Int64
}

func (f *fakeStatsRepo) ListRecentByPlayer(_ context.Context, _ string, limit int) ([]weeklystats.StatLine, error) {
	f.lastLimit = limit
	if limit > 0 && limit < len(f.lines) {
		return f.lines[:limit], nil
	}
	return f.lines, nil
}

func (f *fakeStatsRepo) TeamSeason(context.Context, string, int) (weeklystats.TeamSeasonStats, bool, error) {
	f.calls.Add(1)
	if f.teamErr != nil {
		return weeklystats.TeamSeasonStats{}, false, f.teamErr
	}
	return f.teamStats, f.teamFound, nil
}

func (f *fakeStatsRepo) SeasonLeaders(context.Context, int, string, int) ([]weeklystats.Leader, error) {
	f.calls.Add(1)
	if f.leadersErr != nil {
		return nil, f.leadersErr
	}
	return f.leaders, nil
}
