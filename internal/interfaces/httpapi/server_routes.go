package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /{$}", handler.Root)
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerDomainRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /players", handler.ListPlayers)
	mux.HandleFunc("GET /players/{playerID}", handler.GetPlayer)
	mux.HandleFunc("GET /players/{playerID}/games", handler.ListPlayerGames)
	mux.HandleFunc("GET /team/{teamAbbr}", handler.GetTeamSeason)
	mux.HandleFunc("GET /leaders", handler.ListSeasonLeaders)
}
