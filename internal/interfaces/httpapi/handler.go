package httpapi

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/gridironlabs/nfl-stats/internal/usecase"
)

// SchemaCapabilities reports what the loaded store can answer. Clients use
// it to disable features instead of probing for 503s.
type SchemaCapabilities struct {
	PlayersTable      bool     `json:"players_table"`
	WeeklyStatsTable  bool     `json:"weekly_stats_table"`
	PlayersTeamColumn string   `json:"players_team_column,omitempty"`
	WeeklyTeamColumn  string   `json:"weekly_team_column,omitempty"`
	StatColumns       []string `json:"stat_columns"`
}

// ServiceMeta describes the running service for the root endpoint.
type ServiceMeta struct {
	Service       string
	Version       string
	Seasons       []int
	DefaultSeason int
	Schema        SchemaCapabilities
}

type Handler struct {
	playerService      *usecase.PlayerService
	teamService        *usecase.TeamService
	leaderboardService *usecase.LeaderboardService
	meta               ServiceMeta
	logger             *slog.Logger
	validator          *validator.Validate
}

func NewHandler(
	playerService *usecase.PlayerService,
	teamService *usecase.TeamService,
	leaderboardService *usecase.LeaderboardService,
	meta ServiceMeta,
	logger *slog.Logger,
) *Handler {
	if logger == nil {
		logger = slog.Default()
	}

	return &Handler{
		playerService:      playerService,
		teamService:        teamService,
		leaderboardService: leaderboardService,
		meta:               meta,
		logger:             logger,
		validator:          validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Root")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, rootDTO{
		Service:       h.meta.Service,
		Version:       h.meta.Version,
		Seasons:       h.meta.Seasons,
		DefaultSeason: h.meta.DefaultSeason,
		Schema:        h.meta.Schema,
		Endpoints: []string{
			"GET /players",
			"GET /players/{playerID}",
			"GET /players/{playerID}/games",
			"GET /team/{teamAbbr}",
			"GET /leaders",
			"GET /healthz",
		},
	})
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

// queryInt parses an optional integer query parameter. A missing or blank
// value yields zero; garbage is an input error, not a silent default.
func queryInt(r *http.Request, name string) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return 0, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer", usecase.ErrInvalidInput, name)
	}
	return value, nil
}

type rootDTO struct {
	Service       string             `json:"service"`
	Version       string             `json:"version"`
	Seasons       []int              `json:"seasons"`
	DefaultSeason int                `json:"default_season"`
	Schema        SchemaCapabilities `json:"schema"`
	Endpoints     []string           `json:"endpoints"`
}
