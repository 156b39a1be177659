package fundview

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetSignals(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/fundamentals/AAPL" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"symbol":"AAPL","valuation":62,"profitability":88,"growth":71,
			"health":80,"overall":75,"sector":"Technology","industry":"Consumer Electronics","beta":1.2}`))
	}))
	t.Cleanup(srv.Close)

	client := NewClient(srv.URL, zerolog.Nop())

	signals, err := client.GetSignals(context.Background(), "AAPL")
	require.NoError(t, err)

	assert.Equal(t, 75.0, signals.Overall)
	assert.Equal(t, "Technology", signals.Sector)
	assert.Equal(t, 1.2, signals.Beta)
}

func TestGetSignalsNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	t.Cleanup(srv.Close)

	client := NewClient(srv.URL, zerolog.Nop())

	_, err := client.GetSignals(context.Background(), "NOPE")
	assert.Error(t, err)
}
