package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gridironlabs/nfl-stats/internal/platform/logging"
)

func TestIngestionRunMergesSeasonsAndDedupesPlayers(t *testing.T) {
	provider := &fakeProvider{
		rosters: map[int]Dataset{
			2023: {
				Columns: []string{"player_id", "player_name", "position", "recent_team"},
				Rows: [][]string{
					{"00-001", "Patrick Mahomes", "QB", "KC"},
					{"00-002", "Travis Kelce", "TE", "KC"},
				},
			},
			2024: {
				Columns: []string{"player_id", "player_name", "position", "recent_team"},
				Rows: [][]string{
					{"00-001", "Patrick Mahomes", "QB", "KC"},
					{"00-003", "Josh Allen", "QB", "BUF"},
				},
			},
		},
		weekly: map[int]Dataset{
			2023: {
				Columns: []string{"player_id", "season", "week", "recent_team", "passing_yards", "fantasy_points_ppr"},
				Rows: [][]string{
					{"00-001", "2023", "1", "KC", "305", "24.7"},
				},
			},
			2024: {
				Columns: []string{"player_id", "season", "week", "recent_team", "passing_yards", "fantasy_points_ppr"},
				Rows: [][]string{
					{"00-001", "2024", "1", "KC", "291", "24.14"},
					{"00-003", "2024", "1", "BUF", "232", "28.18"},
				},
			},
		},
	}
	store := &fakeLoaderStore{}

	svc := NewIngestionService(provider, store, IngestionConfig{Seasons: []int{2023, 2024}}, logging.NewNop())
	result, err := svc.Run(context.Background())
	require.NoError(t, err)

	require.Equal(t, 3, result.PlayersLoaded)
	require.Equal(t, 1, result.DuplicatePlayers)
	require.Equal(t, 3, result.StatRowsLoaded)
	require.True(t, store.indexed)

	require.Equal(t, []string{"player_id", "player_name", "position", "team"}, store.playerColumns)
	// first occurrence wins, in season order
	require.Equal(t, "00-001", store.playerRows[0][0])
	require.Equal(t, "00-002", store.playerRows[1][0])
	require.Equal(t, "00-003", store.playerRows[2][0])

	require.Equal(t, []string{"player_id", "season", "week", "team", "passing_yards", "fantasy_points_ppr"}, store.weeklyColumns)
	require.Equal(t, "2023", store.weeklyRows[0][1])
}

func TestIngestionRunFallsBackToAlternateColumns(t *testing.T) {
	provider := &fakeProvider{
		rosters: map[int]Dataset{
			2024: {
				Columns: []string{"gsis_id", "display_name"},
				Rows: [][]string{
					{"00-001", "Patrick Mahomes"},
					{"00-004", ""},
				},
			},
		},
		weekly: map[int]Dataset{
			2024: {
				Columns: []string{"gsis_id", "week", "rushing_yards"},
				Rows: [][]string{
					{"00-001", "1", "12"},
				},
			},
		},
	}
	store := &fakeLoaderStore{}

	svc := NewIngestionService(provider, store, IngestionConfig{Seasons: []int{2024}}, logging.NewNop())
	result, err := svc.Run(context.Background())
	require.NoError(t, err)

	// no team or position column anywhere, so neither is written
	require.Equal(t, []string{"player_id", "player_name"}, store.playerColumns)
	// empty display_name falls back to the id
	require.Equal(t, []string{"00-004", "00-004"}, store.playerRows[1])

	// season column missing from the source is filled from the requested season
	require.Equal(t, []string{"player_id", "season", "week", "rushing_yards"}, store.weeklyColumns)
	require.Equal(t, "2024", store.weeklyRows[0][1])
	require.Equal(t, 1, result.StatRowsLoaded)
}

func TestIngestionRunSkipsEmptyStatRows(t *testing.T) {
	provider := &fakeProvider{
		rosters: map[int]Dataset{
			2024: {
				Columns: []string{"player_id", "player_name"},
				Rows:    [][]string{{"00-001", "Patrick Mahomes"}},
			},
		},
		weekly: map[int]Dataset{
			2024: {
				Columns: []string{"player_id", "season", "week", "passing_yards", "rushing_yards", "receiving_yards", "fantasy_points_ppr", "passing_tds"},
				Rows: [][]string{
					{"00-001", "2024", "1", "291", "", "", "24.14", "2"},
					{"00-001", "2024", "2", "", "", "", "", "1"},
					{"", "2024", "3", "100", "", "", "10", ""},
				},
			},
		},
	}
	store := &fakeLoaderStore{}

	svc := NewIngestionService(provider, store, IngestionConfig{Seasons: []int{2024}}, logging.NewNop())
	result, err := svc.Run(context.Background())
	require.NoError(t, err)

	require.Equal(t, 1, result.StatRowsLoaded)
	require.Equal(t, 2, result.StatRowsSkipped)
}

func TestIngestionRunFailsWithoutPlayerIDColumn(t *testing.T) {
	provider := &fakeProvider{
		rosters: map[int]Dataset{
			2024: {
				Columns: []string{"full_name", "position"},
				Rows:    [][]string{{"Patrick Mahomes", "QB"}},
			},
		},
		weekly: map[int]Dataset{
			2024: {Columns: []string{"player_id", "week"}, Rows: nil},
		},
	}

	svc := NewIngestionService(provider, &fakeLoaderStore{}, IngestionConfig{Seasons: []int{2024}}, logging.NewNop())
	_, err := svc.Run(context.Background())
	require.ErrorIs(t, err, ErrDependencyUnavailable)
}

func TestIngestionRunPropagatesProviderFailure(t *testing.T) {
	provider := &fakeProvider{err: errors.New("upstream 503")}

	svc := NewIngestionService(provider, &fakeLoaderStore{}, IngestionConfig{Seasons: []int{2024}}, logging.NewNop())
	_, err := svc.Run(context.Background())
	require.ErrorIs(t, err, ErrDependencyUnavailable)
}

func TestIngestionRunValidatesSeasons(t *testing.T) {
	svc := NewIngestionService(&fakeProvider{}, &fakeLoaderStore{}, IngestionConfig{Seasons: nil}, logging.NewNop())
	_, err := svc.Run(context.Background())
	require.ErrorIs(t, err, ErrInvalidInput)

	svc = NewIngestionService(&fakeProvider{}, &fakeLoaderStore{}, IngestionConfig{Seasons: []int{1890}}, logging.NewNop())
	_, err = svc.Run(context.Background())
	require.ErrorIs(t, err, ErrInvalidInput)
}
