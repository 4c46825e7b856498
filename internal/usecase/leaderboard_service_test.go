package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/gridironlabs/nfl-stats/internal/domain/weeklystats"
	"github.com/gridironlabs/nfl-stats/internal/platform/cache"
)

func TestSeasonLeadersRoundsPoints(t *testing.T) {
	stats := &fakeStatsRepo{leaders: []weeklystats.Leader{
		{PlayerID: "00-001", Name: "Patrick Mahomes", Games: 2, TotalFantasyPoints: 51.040000000000006, AvgFantasyPoints: 25.520000000000003},
	}}
	svc := NewLeaderboardService(stats, nil, 2024)

	leaders, err := svc.SeasonLeaders(context.Background(), 2024, "", 10)
	require.NoError(t, err)
	require.Equal(t, 51.04, leaders[0].TotalFantasyPoints)
	require.Equal(t, 25.52, leaders[0].AvgFantasyPoints)
}

func TestSeasonLeadersMapsMissingFantasyColumn(t *testing.T) {
	svc := NewLeaderboardService(&fakeStatsRepo{leadersErr: weeklystats.ErrFantasyPointsMissing}, nil, 2024)

	_, err := svc.SeasonLeaders(context.Background(), 2024, "", 10)
	require.ErrorIs(t, err, ErrDependencyUnavailable)
}

func TestSeasonLeadersValidatesSeason(t *testing.T) {
	svc := NewLeaderboardService(&fakeStatsRepo{}, nil, 2024)

	_, err := svc.SeasonLeaders(context.Background(), 1800, "", 10)
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestSeasonLeadersUsesCache(t *testing.T) {
	stats := &fakeStatsRepo{leaders: []weeklystats.Leader{}}
	svc := NewLeaderboardService(stats, cache.NewStore(time.Minute), 2024)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := svc.SeasonLeaders(ctx, 2024, "QB", 10)
		require.NoError(t, err)
	}
	require.Equal(t, int64(1), stats.calls.Load())
}
