package usecase

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"strings"
	"time"

	"github.com/gridironlabs/nfl-stats/internal/domain/refdata"
	"github.com/gridironlabs/nfl-stats/internal/domain/weeklystats"
	"github.com/gridironlabs/nfl-stats/internal/platform/cache"
)

var teamAbbrPattern = regexp.MustCompile(`^[A-Z]{2,3}$`)

// TeamSeasonView pairs season aggregates with team branding when known.
type TeamSeasonView struct {
	weeklystats.TeamSeasonStats
	Meta *refdata.TeamMeta
}

type TeamService struct {
	statsRepo     weeklystats.Repository
	reference     *refdata.Snapshot
	cache         *cache.Store
	currentSeason int
}

func NewTeamService(statsRepo weeklystats.Repository, reference *refdata.Snapshot, store *cache.Store, currentSeason int) *TeamService {
	return &TeamService{
		statsRepo:     statsRepo,
		reference:     reference,
		cache:         store,
		currentSeason: currentSeason,
	}
}

func (s *TeamService) TeamSeason(ctx context.Context, abbr string, season int) (TeamSeasonView, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.TeamSeason")
	defer span.End()

	abbr = strings.ToUpper(strings.TrimSpace(abbr))
	if !teamAbbrPattern.MatchString(abbr) {
		return TeamSeasonView{}, fmt.Errorf("%w: team abbreviation must be 2-3 letters", ErrInvalidInput)
	}
	season, err := resolveSeason(season, s.currentSeason)
	if err != nil {
		return TeamSeasonView{}, err
	}

	loader := func(ctx context.Context) (any, error) {
		return s.loadTeamSeason(ctx, abbr, season)
	}

	cacheKey := fmt.Sprintf("team:%s:%d", abbr, season)
	if s.cache == nil {
		value, err := loader(ctx)
		if err != nil {
			return TeamSeasonView{}, err
		}
		return value.(TeamSeasonView), nil
	}

	value, err := s.cache.GetOrLoad(ctx, cacheKey, loader)
	if err != nil {
		return TeamSeasonView{}, err
	}
	return value.(TeamSeasonView), nil
}

func (s *TeamService) loadTeamSeason(ctx context.Context, abbr string, season int) (TeamSeasonView, error) {
	stats, found, err := s.statsRepo.TeamSeason(ctx, abbr, season)
	if err != nil {
		if err == weeklystats.ErrTeamColumnMissing {
			return TeamSeasonView{}, fmt.Errorf("%w: loaded store has no team column", ErrDependencyUnavailable)
		}
		return TeamSeasonView{}, fmt.Errorf("aggregate team season: %w", err)
	}
	if !found {
		return TeamSeasonView{}, fmt.Errorf("%w: team=%s season=%d", ErrNotFound, abbr, season)
	}

	roundTotals(stats.Totals)
	for i := range stats.ByPosition {
		roundTotals(stats.ByPosition[i].Totals)
	}
	for i := range stats.ByPlayer {
		roundTotals(stats.ByPlayer[i].Totals)
	}

	view := TeamSeasonView{TeamSeasonStats: stats}
	if meta, ok := s.reference.Team(abbr); ok {
		view.Meta = &meta
	}
	return view, nil
}

// roundTotals trims float noise from summed stats to two decimals, matching
// how the points were published.
func roundTotals(totals weeklystats.StatTotals) {
	for col, v := range totals {
		totals[col] = round2(v)
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func resolveSeason(season, fallback int) (int, error) {
	if season == 0 {
		season = fallback
	}
	maxSeason := time.Now().Year() + 1
	if season < minSupportedSeason || season > maxSeason {
		return 0, fmt.Errorf("%w: season %d is out of range", ErrInvalidInput, season)
	}
	return season, nil
}
