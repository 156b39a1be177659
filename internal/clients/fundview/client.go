// Package fundview is a REST client for the fundamentals scoring service.
// Implements domain.FundamentalSignalProvider.
package fundview

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/aristath/bulwark/internal/domain"
	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
)

const requestTimeout = 15 * time.Second

// Client fetches per-symbol fundamental scores
type Client struct {
	http *resty.Client
	log  zerolog.Logger
}

// NewClient creates a new fundview client
func NewClient(baseURL string, log zerolog.Logger) *Client {
	httpClient := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(requestTimeout).
		SetHeader("Accept", "application/json")

	return &Client{
		http: httpClient,
		log:  log.With().Str("client", "fundview").Logger(),
	}
}

type fundamentalsDTO struct {
	Symbol        string  `json:"symbol"`
	Valuation     float64 `json:"valuation"`
	Profitability float64 `json:"profitability"`
	Growth        float64 `json:"growth"`
	Health        float64 `json:"health"`
	Overall       float64 `json:"overall"`
	Sector        string  `json:"sector"`
	Industry      string  `json:"industry"`
	Beta          float64 `json:"beta"`
}

// GetSignals fetches the fundamental score set for one symbol
func (c *Client) GetSignals(ctx context.Context, symbol string) (*domain.FundamentalSignals, error) {
	var dto fundamentalsDTO

	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&dto).
		Get("/v1/fundamentals/" + symbol)
	if err != nil {
		return nil, fmt.Errorf("fundamentals request for %s failed: %w", symbol, err)
	}

	if resp.StatusCode() == http.StatusNotFound {
		return nil, fmt.Errorf("no fundamentals for %s", symbol)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("fundamentals request for %s returned %d", symbol, resp.StatusCode())
	}

	return &domain.FundamentalSignals{
		Symbol:        dto.Symbol,
		Valuation:     dto.Valuation,
		Profitability: dto.Profitability,
		Growth:        dto.Growth,
		Health:        dto.Health,
		Overall:       dto.Overall,
		Sector:        dto.Sector,
		Industry:      dto.Industry,
		Beta:          dto.Beta,
	}, nil
}
