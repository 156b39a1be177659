// Package handlers provides HTTP handlers for account exposure.
package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/aristath/bulwark/internal/domain"
	"github.com/rs/zerolog"
)

// ExposureProvider produces the aggregated exposure for one account
type ExposureProvider interface {
	GetAccountExposure(ctx context.Context, account string) (domain.AccountExposure, error)
}

// Handler handles exposure HTTP requests
type Handler struct {
	provider       ExposureProvider
	defaultAccount string
	log            zerolog.Logger
}

// NewHandler creates a new exposure handler
func NewHandler(provider ExposureProvider, defaultAccount string, log zerolog.Logger) *Handler {
	return &Handler{
		provider:       provider,
		defaultAccount: defaultAccount,
		log:            log.With().Str("handler", "exposure").Logger(),
	}
}

// HandleGetExposure returns the account's aggregated exposure
func (h *Handler) HandleGetExposure(w http.ResponseWriter, r *http.Request) {
	account := r.URL.Query().Get("account")
	if account == "" {
		account = h.defaultAccount
	}

	exp, err := h.provider.GetAccountExposure(r.Context(), account)
	if err != nil {
		h.log.Error().Err(err).Str("account", account).Msg("Exposure aggregation failed")
		h.writeError(w, http.StatusBadGateway, err.Error())
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": exp,
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
