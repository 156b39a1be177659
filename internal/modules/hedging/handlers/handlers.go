// Package handlers provides HTTP handlers for hedge recommendations.
package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/aristath/bulwark/internal/modules/hedging"
	"github.com/rs/zerolog"
)

// Handler handles hedging HTTP requests
type Handler struct {
	service        *hedging.Service
	defaultAccount string
	log            zerolog.Logger
}

// NewHandler creates a new hedging handler
func NewHandler(service *hedging.Service, defaultAccount string, log zerolog.Logger) *Handler {
	return &Handler{
		service:        service,
		defaultAccount: defaultAccount,
		log:            log.With().Str("handler", "hedging").Logger(),
	}
}

// HandleGetRecommendations returns the ranked hedge list for an account
func (h *Handler) HandleGetRecommendations(w http.ResponseWriter, r *http.Request) {
	account := r.URL.Query().Get("account")
	if account == "" {
		account = h.defaultAccount
	}

	results, err := h.service.RecommendHedges(r.Context(), account)
	if err != nil {
		h.log.Error().Err(err).Str("account", account).Msg("Hedge recommendation failed")
		h.writeError(w, http.StatusBadGateway, err.Error())
		return
	}

	if results == nil {
		results = []hedging.HedgeCostResult{}
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"account":         account,
		"recommendations": results,
		"metadata": map[string]interface{}{
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		},
	})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
