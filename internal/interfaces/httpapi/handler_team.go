package httpapi

import (
	"net/http"

	"github.com/gridironlabs/nfl-stats/internal/usecase"
)

func (h *Handler) GetTeamSeason(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetTeamSeason")
	defer span.End()

	teamAbbr := r.PathValue("teamAbbr")
	season, err := queryInt(r, "season")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	view, err := h.teamService.TeamSeason(ctx, teamAbbr, season)
	if err != nil {
		h.logger.WarnContext(ctx, "get team season failed", "team", teamAbbr, "season", season, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, teamSeasonToDTO(view))
}

type teamSeasonDTO struct {
	Team       string              `json:"team"`
	Season     int                 `json:"season"`
	Games      int                 `json:"games"`
	Totals     map[string]float64  `json:"totals"`
	ByPosition []positionTotalsDTO `json:"by_position"`
	ByPlayer   []playerTotalsDTO   `json:"by_player"`
	Meta       *teamMetaDTO        `json:"team_info,omitempty"`
}

type positionTotalsDTO struct {
	Position string             `json:"position"`
	Players  int                `json:"players"`
	Totals   map[string]float64 `json:"totals"`
}

type playerTotalsDTO struct {
	PlayerID string             `json:"player_id"`
	Name     string             `json:"player_name"`
	Totals   map[string]float64 `json:"totals"`
}

type teamMetaDTO struct {
	Abbr           string `json:"abbr"`
	Name           string `json:"name"`
	PrimaryColor   string `json:"primary_color,omitempty"`
	SecondaryColor string `json:"secondary_color,omitempty"`
	LogoURL        string `json:"logo_url,omitempty"`
}

func teamSeasonToDTO(view usecase.TeamSeasonView) teamSeasonDTO {
	dto := teamSeasonDTO{
		Team:       view.Team,
		Season:     view.Season,
		Games:      view.Games,
		Totals:     view.Totals,
		ByPosition: make([]positionTotalsDTO, 0, len(view.ByPosition)),
		ByPlayer:   make([]playerTotalsDTO, 0, len(view.ByPlayer)),
	}
	for _, group := range view.ByPosition {
		dto.ByPosition = append(dto.ByPosition, positionTotalsDTO{
			Position: group.Position,
			Players:  group.Players,
			Totals:   group.Totals,
		})
	}
	for _, item := range view.ByPlayer {
		dto.ByPlayer = append(dto.ByPlayer, playerTotalsDTO{
			PlayerID: item.PlayerID,
			Name:     item.Name,
			Totals:   item.Totals,
		})
	}
	if view.Meta != nil {
		dto.Meta = &teamMetaDTO{
			Abbr:           view.Meta.Abbr,
			Name:           view.Meta.Name,
			PrimaryColor:   view.Meta.PrimaryColor,
			SecondaryColor: view.Meta.SecondaryColor,
			LogoURL:        view.Meta.LogoURL,
		}
	}
	return dto
}
