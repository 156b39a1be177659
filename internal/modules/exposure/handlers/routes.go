package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all exposure routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/exposure", h.HandleGetExposure) // Account exposure snapshot
}
