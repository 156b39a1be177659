package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all hedging routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/hedges", func(r chi.Router) {
		r.Get("/recommendations", h.HandleGetRecommendations) // Ranked hedge list (≤3)
	})
}
