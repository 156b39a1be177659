package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all behavior routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/behavior", func(r chi.Router) {
		r.Get("/scores", h.HandleGetScores) // Persisted discipline scores
		r.Post("/scan", h.HandleScan)       // Recompute from fill history
	})
}
