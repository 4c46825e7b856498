package httpapi

import (
	"net/http"
	"strings"

	"github.com/gridironlabs/nfl-stats/internal/domain/player"
	"github.com/gridironlabs/nfl-stats/internal/domain/weeklystats"
)

func (h *Handler) ListPlayers(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListPlayers")
	defer span.End()

	limit, err := queryInt(r, "limit")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	req := listPlayersRequest{
		Query:    strings.TrimSpace(r.URL.Query().Get("q")),
		Team:     strings.TrimSpace(r.URL.Query().Get("team")),
		Position: strings.TrimSpace(r.URL.Query().Get("position")),
		Limit:    limit,
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	players, err := h.playerService.SearchPlayers(ctx, player.SearchFilter{
		NameQuery: req.Query,
		Team:      req.Team,
		Position:  req.Position,
		Limit:     req.Limit,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "search players failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]playerDTO, 0, len(players))
	for _, p := range players {
		items = append(items, playerToDTO(p, ""))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetPlayer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetPlayer")
	defer span.End()

	playerID := r.PathValue("playerID")
	profile, err := h.playerService.GetPlayer(ctx, playerID)
	if err != nil {
		h.logger.WarnContext(ctx, "get player failed", "player_id", playerID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, playerToDTO(profile.Player, profile.HeadshotURL))
}

func (h *Handler) ListPlayerGames(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListPlayerGames")
	defer span.End()

	playerID := r.PathValue("playerID")
	limit, err := queryInt(r, "limit")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	lines, err := h.playerService.RecentGames(ctx, playerID, limit)
	if err != nil {
		h.logger.WarnContext(ctx, "list player games failed", "player_id", playerID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]gameDTO, 0, len(lines))
	for _, line := range lines {
		items = append(items, gameToDTO(line))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

type listPlayersRequest struct {
	Query    string `validate:"omitempty,max=100"`
	Team     string `validate:"omitempty,alpha,max=3"`
	Position string `validate:"omitempty,alpha,max=3"`
	Limit    int    `validate:"omitempty,min=1,max=200"`
}

type playerDTO struct {
	ID          string `json:"player_id"`
	Name        string `json:"player_name"`
	Position    string `json:"position,omitempty"`
	Team        string `json:"team,omitempty"`
	HeadshotURL string `json:"headshot_url,omitempty"`
}

type gameDTO struct {
	PlayerID         string   `json:"player_id"`
	Season           int      `json:"season"`
	Week             int      `json:"week"`
	Team             *string  `json:"team,omitempty"`
	PassingYards     *float64 `json:"passing_yards,omitempty"`
	RushingYards     *float64 `json:"rushing_yards,omitempty"`
	ReceivingYards   *float64 `json:"receiving_yards,omitempty"`
	PassingTDs       *float64 `json:"passing_tds,omitempty"`
	RushingTDs       *float64 `json:"rushing_tds,omitempty"`
	ReceivingTDs     *float64 `json:"receiving_tds,omitempty"`
	FantasyPointsPPR *float64 `json:"fantasy_points_ppr,omitempty"`
}

func playerToDTO(v player.Player, headshotURL string) playerDTO {
	return playerDTO{
		ID:          v.ID,
		Name:        v.Name,
		Position:    v.Position,
		Team:        v.Team,
		HeadshotURL: headshotURL,
	}
}

func gameToDTO(v weeklystats.StatLine) gameDTO {
	return gameDTO{
		PlayerID:         v.PlayerID,
		Season:           v.Season,
		Week:             v.Week,
		Team:             v.Team,
		PassingYards:     v.PassingYards,
		RushingYards:     v.RushingYards,
		ReceivingYards:   v.ReceivingYards,
		PassingTDs:       v.PassingTDs,
		RushingTDs:       v.RushingTDs,
		ReceivingTDs:     v.ReceivingTDs,
		FantasyPointsPPR: v.FantasyPointsPPR,
	}
}
