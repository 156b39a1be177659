// Package handlers provides HTTP handlers for behavior discipline scores.
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/aristath/bulwark/internal/modules/behavior"
	"github.com/rs/zerolog"
)

// Handler handles behavior HTTP requests
type Handler struct {
	service        *behavior.Service
	defaultAccount string
	log            zerolog.Logger
}

// NewHandler creates a new behavior handler
func NewHandler(service *behavior.Service, defaultAccount string, log zerolog.Logger) *Handler {
	return &Handler{
		service:        service,
		defaultAccount: defaultAccount,
		log:            log.With().Str("handler", "behavior").Logger(),
	}
}

// HandleGetScores returns the persisted per-symbol behavior metrics
func (h *Handler) HandleGetScores(w http.ResponseWriter, r *http.Request) {
	account := r.URL.Query().Get("account")
	if account == "" {
		account = h.defaultAccount
	}

	scores, err := h.service.GetScores(account)
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if scores == nil {
		scores = []behavior.SymbolBehaviorMetrics{}
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"account": account,
		"scores":  scores,
	})
}

// HandleScan recomputes behavior metrics from the broker's fill history
func (h *Handler) HandleScan(w http.ResponseWriter, r *http.Request) {
	account := r.URL.Query().Get("account")
	if account == "" {
		account = h.defaultAccount
	}

	scores, err := h.service.ScanAccount(r.Context(), account)
	if err != nil {
		h.log.Error().Err(err).Str("account", account).Msg("Behavior scan failed")
		h.writeError(w, http.StatusBadGateway, err.Error())
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"account": account,
		"scores":  scores,
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
