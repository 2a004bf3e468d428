package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /api/health", handler.Health)
}

func registerMatchRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /api/matches/live", handler.ListLiveMatches)
	mux.HandleFunc("GET /api/matches/upcoming", handler.ListUpcomingMatches)
	mux.HandleFunc("GET /api/matches/finished", handler.ListFinishedMatches)
	mux.HandleFunc("GET /api/matches/by-date", handler.ListMatchesByDate)
	mux.HandleFunc("GET /api/matches/league/{leagueID}", handler.ListMatchesByLeague)
	mux.HandleFunc("GET /api/matches/{id}", handler.GetMatchByID)
	mux.HandleFunc("POST /api/matches/sync", handler.SyncMatches)
}

func registerLeagueRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /api/leagues", handler.ListLeagues)
	mux.HandleFunc("POST /api/leagues/sync", handler.SyncLeagues)
}
