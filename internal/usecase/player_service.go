package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/gridironlabs/nfl-stats/internal/domain/player"
	"github.com/gridironlabs/nfl-stats/internal/domain/refdata"
	"github.com/gridironlabs/nfl-stats/internal/domain/weeklystats"
)

const (
	defaultSearchLimit = 50
	maxSearchLimit     = 200
	defaultGamesLimit  = 5
	maxGamesLimit      = 50
)

// PlayerProfile is a roster entry enriched with reference data.
type PlayerProfile struct {
	player.Player
	HeadshotURL string
}

type PlayerService struct {
	playerRepo player.Repository
	statsRepo  weeklystats.Repository
	reference  *refdata.Snapshot
}

func NewPlayerService(playerRepo player.Repository, statsRepo weeklystats.Repository, reference *refdata.Snapshot) *PlayerService {
	return &PlayerService{
		playerRepo: playerRepo,
		statsRepo:  statsRepo,
		reference:  reference,
	}
}

func (s *PlayerService) SearchPlayers(ctx context.Context, filter player.SearchFilter) ([]player.Player, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerService.SearchPlayers")
	defer span.End()

	filter.NameQuery = strings.TrimSpace(filter.NameQuery)
	filter.Team = strings.ToUpper(strings.TrimSpace(filter.Team))
	filter.Position = strings.ToUpper(strings.TrimSpace(filter.Position))
	filter.Limit = clampLimit(filter.Limit, defaultSearchLimit, maxSearchLimit)

	items, err := s.playerRepo.Search(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("search players: %w", err)
	}
	return items, nil
}

func (s *PlayerService) GetPlayer(ctx context.Context, playerID string) (PlayerProfile, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerService.GetPlayer")
	defer span.End()

	playerID = strings.TrimSpace(playerID)
	if playerID == "" {
		return PlayerProfile{}, fmt.Errorf("%w: player id is required", ErrInvalidInput)
	}

	item, exists, err := s.playerRepo.GetByID(ctx, playerID)
	if err != nil {
		return PlayerProfile{}, fmt.Errorf("get player: %w", err)
	}
	if !exists {
		return PlayerProfile{}, fmt.Errorf("%w: player=%s", ErrNotFound, playerID)
	}

	profile := PlayerProfile{Player: item}
	if url, ok := s.reference.Headshot(playerID); ok {
		profile.HeadshotURL = url
	}
	return profile, nil
}

// RecentGames lists a player's newest stat lines. Stat rows are read
// directly, so ids with weekly rows but no roster entry still resolve;
// an id with no rows at all yields an empty list, not an error.
func (s *PlayerService) RecentGames(ctx context.Context, playerID string, limit int) ([]weeklystats.StatLine, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerService.RecentGames")
	defer span.End()

	playerID = strings.TrimSpace(playerID)
	if playerID == "" {
		return nil, fmt.Errorf("%w: player id is required", ErrInvalidInput)
	}
	limit = clampLimit(limit, defaultGamesLimit, maxGamesLimit)

	lines, err := s.statsRepo.ListRecentByPlayer(ctx, playerID, limit)
	if err != nil {
		return nil, fmt.Errorf("list recent games: %w", err)
	}
	return lines, nil
}

func clampLimit(limit, fallback, max int) int {
	if limit <= 0 {
		return fallback
	}
	if limit > max {
		return max
	}
	return limit
}
