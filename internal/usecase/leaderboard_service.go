package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/gridironlabs/nfl-stats/internal/domain/weeklystats"
	"github.com/gridironlabs/nfl-stats/internal/platform/cache"
)

const (
	defaultLeadersLimit = 10
	maxLeadersLimit     = 100
)

type LeaderboardService struct {
	statsRepo     weeklystats.Repository
	cache         *cache.Store
	currentSeason int
}

func NewLeaderboardService(statsRepo weeklystats.Repository, store *cache.Store, currentSeason int) *LeaderboardService {
	return &LeaderboardService{
		statsRepo:     statsRepo,
		cache:         store,
		currentSeason: currentSeason,
	}
}

// SeasonLeaders ranks players by total fantasy points for the season.
func (s *LeaderboardService) SeasonLeaders(ctx context.Context, season int, position string, limit int) ([]weeklystats.Leader, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeaderboardService.SeasonLeaders")
	defer span.End()

	season, err := resolveSeason(season, s.currentSeason)
	if err != nil {
		return nil, err
	}
	position = strings.ToUpper(strings.TrimSpace(position))
	limit = clampLimit(limit, defaultLeadersLimit, maxLeadersLimit)

	loader := func(ctx context.Context) (any, error) {
		return s.loadLeaders(ctx, season, position, limit)
	}

	if s.cache == nil {
		value, err := loader(ctx)
		if err != nil {
			return nil, err
		}
		return value.([]weeklystats.Leader), nil
	}

	cacheKey := fmt.Sprintf("leaders:%d:%s:%d", season, position, limit)
	value, err := s.cache.GetOrLoad(ctx, cacheKey, loader)
	if err != nil {
		return nil, err
	}
	return value.([]weeklystats.Leader), nil
}

func (s *LeaderboardService) loadLeaders(ctx context.Context, season int, position string, limit int) ([]weeklystats.Leader, error) {
	leaders, err := s.statsRepo.SeasonLeaders(ctx, season, position, limit)
	if err != nil {
		if err == weeklystats.ErrFantasyPointsMissing {
			return nil, fmt.Errorf("%w: loaded store has no fantasy points column", ErrDependencyUnavailable)
		}
		return nil, fmt.Errorf("rank season leaders: %w", err)
	}

	for i := range leaders {
		leaders[i].TotalFantasyPoints = round2(leaders[i].TotalFantasyPoints)
		leaders[i].AvgFantasyPoints = round2(leaders[i].AvgFantasyPoints)
	}
	return leaders, nil
}
