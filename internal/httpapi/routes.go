package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmaples/ninja-fight-backend/internal/ws"
)

func SetupRoutes(a *API) http.Handler {
	r := chi.NewRouter()

	r.Get("/modes", a.ListModes)
	r.Post("/matches", a.CreateMatch)
	r.Get("/matches/{code}", a.MatchView)
	r.Delete("/matches/{code}", a.EndMatch)
	r.Get("/matches/{code}/result", a.MatchResult)
	r.Get("/healthz", Healthz)
	r.Get("/ws", ws.Handler(a.Hub, a.Logger))
	return r
}
