package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/bulwark/internal/domain"
)

type stubProvider struct {
	exposure domain.AccountExposure
	err      error
	account  string
}

func (s *stubProvider) GetAccountExposure(_ context.Context, account string) (domain.AccountExposure, error) {
	s.account = account
	return s.exposure, s.err
}

func newTestRouter(provider *stubProvider) *chi.Mux {
	h := NewHandler(provider, "primary", zerolog.Nop())
	r := chi.NewRouter()
	h.RegisterRoutes(r)
	return r
}

func TestHandleGetExposure(t *testing.T) {
	provider := &stubProvider{
		exposure: domain.AccountExposure{
			Account:       "primary",
			Equity:        250000,
			TotalDeltaUSD: 42000,
			StockCount:    3,
		},
	}
	router := newTestRouter(provider)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/exposure", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "primary", provider.account)

	var body struct {
		Data     domain.AccountExposure `json:"data"`
		Metadata map[string]string      `json:"metadata"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 250000.0, body.Data.Equity)
	assert.Equal(t, 42000.0, body.Data.TotalDeltaUSD)
	assert.NotEmpty(t, body.Metadata["timestamp"])
}

func TestHandleGetExposureAccountParam(t *testing.T) {
	provider := &stubProvider{}
	router := newTestRouter(provider)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/exposure?account=ira", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ira", provider.account)
}

func TestHandleGetExposureProviderFailure(t *testing.T) {
	provider := &stubProvider{err: errors.New("gateway unreachable")}
	router := newTestRouter(provider)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/exposure", nil))

	require.Equal(t, http.StatusBadGateway, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body["error"], "gateway unreachable")
}
