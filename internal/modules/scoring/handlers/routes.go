package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all scoring routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/scoring", func(r chi.Router) {
		r.Post("/score", h.HandleScore)              // Score one symbol
		r.Post("/batch", h.HandleScoreBatch)         // Score many symbols
		r.Get("/scores/{symbol}", h.HandleGetScore)  // Latest persisted score
	})
}
