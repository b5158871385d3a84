package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler, swaggerEnabled bool) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
	if !swaggerEnabled {
		return
	}

	mux.HandleFunc("GET /openapi.yaml", handler.OpenAPI)
	mux.HandleFunc("GET /docs", handler.SwaggerUI)
	mux.HandleFunc("GET /docs/", handler.SwaggerUI)
}

func registerPublicRoutes(mux *http.ServeMux, handler *Handler, live http.Handler) {
	mux.HandleFunc("GET /v1/board", handler.GetBoard)
	mux.HandleFunc("GET /v1/matches", handler.ListMatches)
	mux.HandleFunc("GET /v1/standings", handler.ListStandings)
	mux.HandleFunc("GET /v1/standings/{group}", handler.GetGroupStandings)
	mux.HandleFunc("GET /v1/scorers/top", handler.ListTopScorers)
	if live != nil {
		mux.Handle("GET /v1/live", live)
	}
}

// Admin routes carry no auth; deployments put them behind their own gateway.
func registerAdminRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("PUT /v1/admin/matches/{matchID}/score", handler.SubmitScore)
	mux.HandleFunc("POST /v1/admin/matches/{matchID}/fix", handler.FixMatch)
	mux.HandleFunc("POST /v1/admin/matches/{matchID}/reopen", handler.ReopenMatch)
	mux.HandleFunc("PUT /v1/admin/matches/{matchID}/knockout", handler.UpdateKnockoutResult)
	mux.HandleFunc("GET /v1/admin/scorers", handler.ListScorers)
	mux.HandleFunc("GET /v1/admin/scorers/names", handler.ListScorerNames)
	mux.HandleFunc("POST /v1/admin/scorers", handler.AddScorer)
	mux.HandleFunc("PUT /v1/admin/scorers/{index}", handler.UpdateScorer)
	mux.HandleFunc("DELETE /v1/admin/scorers/{index}", handler.DeleteScorer)
	mux.HandleFunc("POST /v1/admin/reset", handler.ResetTournament)
}
