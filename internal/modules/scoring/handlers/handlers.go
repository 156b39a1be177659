// Package handlers provides HTTP handlers for position scoring.
package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/aristath/bulwark/internal/modules/assessment"
	"github.com/aristath/bulwark/internal/modules/scoring"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// Handler handles scoring HTTP requests
type Handler struct {
	service        *scoring.Service
	batch          *assessment.Service
	defaultAccount string
	log            zerolog.Logger
}

// NewHandler creates a new scoring handler
func NewHandler(service *scoring.Service, batch *assessment.Service, defaultAccount string, log zerolog.Logger) *Handler {
	return &Handler{
		service:        service,
		batch:          batch,
		defaultAccount: defaultAccount,
		log:            log.With().Str("handler", "scoring").Logger(),
	}
}

type scoreRequest struct {
	Account string  `json:"account,omitempty"`
	Symbol  string  `json:"symbol"`
	Price   float64 `json:"price,omitempty"`
}

// HandleScore scores one symbol on demand
func (h *Handler) HandleScore(w http.ResponseWriter, r *http.Request) {
	var req scoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.Symbol == "" {
		h.writeError(w, http.StatusBadRequest, "symbol is required")
		return
	}
	if req.Account == "" {
		req.Account = h.defaultAccount
	}

	score, err := h.service.ScorePosition(r.Context(), req.Account, req.Symbol, req.Price)
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.writeJSON(w, http.StatusOK, score)
}

type batchRequest struct {
	Account string                 `json:"account,omitempty"`
	Items   []assessment.BatchItem `json:"items"`
}

// HandleScoreBatch scores many symbols with bounded concurrency
func (h *Handler) HandleScoreBatch(w http.ResponseWriter, r *http.Request) {
	var req batchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if len(req.Items) == 0 {
		h.writeError(w, http.StatusBadRequest, "items is required")
		return
	}
	if req.Account == "" {
		req.Account = h.defaultAccount
	}

	result := h.batch.ScoreBatch(r.Context(), req.Account, req.Items)

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"account": req.Account,
		"scores":  result.Scores,
		"errors":  result.Errors,
		"metadata": map[string]interface{}{
			"requested": len(req.Items),
			"scored":    len(result.Scores),
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		},
	})
}

// HandleGetScore returns the latest persisted score for a symbol
func (h *Handler) HandleGetScore(w http.ResponseWriter, r *http.Request) {
	symbol := chi.URLParam(r, "symbol")
	account := r.URL.Query().Get("account")
	if account == "" {
		account = h.defaultAccount
	}

	score, err := h.service.GetLatest(account, symbol)
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if score == nil {
		h.writeError(w, http.StatusNotFound, "no score for symbol "+symbol)
		return
	}

	h.writeJSON(w, http.StatusOK, score)
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
