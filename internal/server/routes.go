package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"offer_sniper/pkg/httpx/reply"
)

func (s Server) RegisterRoutes(r chi.Router) { //nolint:funlen
	r.Route("/", func(r chi.Router) {
		r.Route("/v1", func(r chi.Router) {
			// unauthorized zone
			r.Route("/bot", func(r chi.Router) {
				r.Get("/", handler(s.getV1Bot))
				r.Put("/filters", handler(s.putV1BotFilters))
				r.Post("/start", handler(s.postV1BotStart))
				r.Post("/stop", handler(s.postV1BotStop))
			})
		})
	})
}

func handler(f func(http.ResponseWriter, *http.Request) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := f(w, r); err != nil {
			reply.Error(r.Context(), w, err)
		}
	}
}
