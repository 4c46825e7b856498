package httpapi

import (
	"net/http"
	"strings"

	"github.com/gridironlabs/nfl-stats/internal/domain/weeklystats"
)

func (h *Handler) ListSeasonLeaders(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListSeasonLeaders")
	defer span.End()

	season, err := queryInt(r, "season")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	limit, err := queryInt(r, "limit")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	req := listLeadersRequest{
		Position: strings.TrimSpace(r.URL.Query().Get("position")),
		Limit:    limit,
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	leaders, err := h.leaderboardService.SeasonLeaders(ctx, season, req.Position, req.Limit)
	if err != nil {
		h.logger.WarnContext(ctx, "list season leaders failed", "season", season, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]leaderDTO, 0, len(leaders))
	for i, leader := range leaders {
		items = append(items, leaderToDTO(i+1, leader))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

type listLeadersRequest struct {
	Position string `validate:"omitempty,alpha,max=3"`
	Limit    int    `validate:"omitempty,min=1,max=100"`
}

type leaderDTO struct {
	Rank            int     `json:"rank"`
	PlayerID        string  `json:"player_id"`
	Name            string  `json:"player_name"`
	Position        *string `json:"position,omitempty"`
	Games           int     `json:"games"`
	TotalFantasyPPR float64 `json:"total_fantasy_points_ppr"`
	AvgFantasyPPR   float64 `json:"avg_fantasy_points_ppr"`
}

func leaderToDTO(rank int, v weeklystats.Leader) leaderDTO {
	return leaderDTO{
		Rank:            rank,
		PlayerID:        v.PlayerID,
		Name:            v.Name,
		Position:        v.Position,
		Games:           v.Games,
		TotalFantasyPPR: v.TotalFantasyPoints,
		AvgFantasyPPR:   v.AvgFantasyPoints,
	}
}
