// Package ibgw is a REST/WebSocket client for the Interactive Brokers
// gateway sidecar. The gateway serializes all monetary fields as strings;
// values pass through decimal parsing before reaching the engine.
package ibgw

import (
	"context"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/aristath/bulwark/internal/domain"
	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/time/rate"
)

// The gateway throttles aggressively; stay under 10 req/s with small bursts
const (
	requestsPerSecond = 10
	requestBurst      = 5
	requestTimeout    = 30 * time.Second
)

// Client implements domain.BrokerClient against the IB gateway REST API
type Client struct {
	http      *resty.Client
	limiter   *rate.Limiter
	log       zerolog.Logger
	connected atomic.Bool
}

// NewClient creates a new gateway client
func NewClient(baseURL, apiKey, apiSecret string, log zerolog.Logger) *Client {
	httpClient := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(requestTimeout).
		SetHeader("Accept", "application/json")

	if apiKey != "" {
		httpClient.SetHeader("X-API-Key", apiKey)
		httpClient.SetHeader("X-API-Secret", apiSecret)
	}

	return &Client{
		http:    httpClient,
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), requestBurst),
		log:     log.With().Str("client", "ibgw").Logger(),
	}
}

// Wire DTOs: the gateway quotes all monetary values as strings

type stockPositionDTO struct {
	Symbol      string `json:"symbol"`
	Market      string `json:"market"`
	Quantity    string `json:"quantity"`
	AverageCost string `json:"average_cost"`
	LastPrice   string `json:"last_price"`
	Currency    string `json:"currency"`
}

type optionPositionDTO struct {
	Underlying      string `json:"underlying"`
	Right           string `json:"right"`
	Strike          string `json:"strike"`
	Expiry          string `json:"expiry"` // YYYY-MM-DD
	Multiplier      string `json:"multiplier"`
	Currency        string `json:"currency"`
	Quantity        string `json:"quantity"`
	AveragePremium  string `json:"average_premium"`
	UnderlyingPrice string `json:"underlying_price"`
	Delta           string `json:"delta"`
	Gamma           string `json:"gamma"`
	Vega            string `json:"vega"`
	Theta           string `json:"theta"`
	SnapshotAt      string `json:"snapshot_at"` // RFC3339
}

type accountSummaryDTO struct {
	Account string `json:"account"`
	Equity  string `json:"equity"`
}

type fillDTO struct {
	Symbol      string  `json:"symbol"`
	Side        string  `json:"side"`
	Quantity    string  `json:"quantity"`
	Price       string  `json:"price"`
	ExecutedAt  string  `json:"executed_at"` // RFC3339
	RealizedPnL *string `json:"realized_pnl,omitempty"`
}

type quoteDTO struct {
	Symbol    string `json:"symbol"`
	Last      string `json:"last"`
	Bid       string `json:"bid"`
	Ask       string `json:"ask"`
	Volume    string `json:"volume"`
	Timestamp string `json:"timestamp"`
}

// ListStockPositions fetches the account's stock positions
func (c *Client) ListStockPositions(ctx context.Context, account string) ([]domain.Position, error) {
	var dtos []stockPositionDTO
	if err := c.get(ctx, fmt.Sprintf("/v1/accounts/%s/positions/stocks", account), &dtos); err != nil {
		return nil, err
	}

	positions := make([]domain.Position, 0, len(dtos))
	for _, dto := range dtos {
		pos := domain.Position{
			Symbol:      dto.Symbol,
			Market:      dto.Market,
			Quantity:    c.parseDecimal(dto.Quantity, dto.Symbol, "quantity"),
			AverageCost: c.parseDecimal(dto.AverageCost, dto.Symbol, "average_cost"),
			LastPrice:   c.parseDecimal(dto.LastPrice, dto.Symbol, "last_price"),
			Currency:    domain.Currency(dto.Currency),
		}
		positions = append(positions, pos)
	}

	return positions, nil
}

// ListOptionPositions fetches the account's option positions with Greeks
func (c *Client) ListOptionPositions(ctx context.Context, account string) ([]domain.OptionPosition, error) {
	var dtos []optionPositionDTO
	if err := c.get(ctx, fmt.Sprintf("/v1/accounts/%s/positions/options", account), &dtos); err != nil {
		return nil, err
	}

	options := make([]domain.OptionPosition, 0, len(dtos))
	for _, dto := range dtos {
		expiry, err := time.Parse("2006-01-02", dto.Expiry)
		if err != nil {
			c.log.Warn().
				Str("underlying", dto.Underlying).
				Str("expiry", dto.Expiry).
				Msg("Skipping option leg with unparseable expiry")
			continue
		}

		snapshotAt := time.Now().UTC()
		if t, err := time.Parse(time.RFC3339, dto.SnapshotAt); err == nil {
			snapshotAt = t
		}

		opt := domain.OptionPosition{
			Contract: domain.OptionContract{
				Underlying: dto.Underlying,
				Right:      domain.OptionRight(dto.Right),
				Strike:     c.parseDecimal(dto.Strike, dto.Underlying, "strike"),
				Expiry:     expiry,
				Multiplier: c.parseDecimal(dto.Multiplier, dto.Underlying, "multiplier"),
				Currency:   domain.Currency(dto.Currency),
			},
			Quantity:        c.parseDecimal(dto.Quantity, dto.Underlying, "quantity"),
			AveragePremium:  c.parseDecimal(dto.AveragePremium, dto.Underlying, "average_premium"),
			UnderlyingPrice: c.parseDecimal(dto.UnderlyingPrice, dto.Underlying, "underlying_price"),
			Greeks: domain.Greeks{
				Delta: c.parseDecimal(dto.Delta, dto.Underlying, "delta"),
				Gamma: c.parseDecimal(dto.Gamma, dto.Underlying, "gamma"),
				Vega:  c.parseDecimal(dto.Vega, dto.Underlying, "vega"),
				Theta: c.parseDecimal(dto.Theta, dto.Underlying, "theta"),
			},
			SnapshotAt: snapshotAt,
		}
		options = append(options, opt)
	}

	return options, nil
}

// GetEquity fetches the account's net liquidation value
func (c *Client) GetEquity(ctx context.Context, account string) (float64, error) {
	var dto accountSummaryDTO
	if err := c.get(ctx, fmt.Sprintf("/v1/accounts/%s/summary", account), &dto); err != nil {
		return 0, err
	}

	equity, err := decimal.NewFromString(dto.Equity)
	if err != nil {
		return 0, fmt.Errorf("gateway returned unparseable equity %q: %w", dto.Equity, err)
	}

	return equity.InexactFloat64(), nil
}

// GetFills fetches the account's fills in a time range, oldest first
func (c *Client) GetFills(ctx context.Context, account string, from, to time.Time) ([]domain.Fill, error) {
	var dtos []fillDTO
	path := fmt.Sprintf("/v1/accounts/%s/fills?from=%s&to=%s",
		account, from.UTC().Format(time.RFC3339), to.UTC().Format(time.RFC3339))
	if err := c.get(ctx, path, &dtos); err != nil {
		return nil, err
	}

	fills := make([]domain.Fill, 0, len(dtos))
	for _, dto := range dtos {
		executedAt, err := time.Parse(time.RFC3339, dto.ExecutedAt)
		if err != nil {
			c.log.Warn().
				Str("symbol", dto.Symbol).
				Str("executed_at", dto.ExecutedAt).
				Msg("Skipping fill with unparseable timestamp")
			continue
		}

		fill := domain.Fill{
			Symbol:     dto.Symbol,
			Side:       domain.TradeSide(dto.Side),
			Quantity:   c.parseDecimal(dto.Quantity, dto.Symbol, "quantity"),
			Price:      c.parseDecimal(dto.Price, dto.Symbol, "price"),
			ExecutedAt: executedAt,
		}

		if dto.RealizedPnL != nil {
			if pnl, err := decimal.NewFromString(*dto.RealizedPnL); err == nil {
				v := pnl.InexactFloat64()
				fill.RealizedPnL = &v
			}
		}

		fills = append(fills, fill)
	}

	return fills, nil
}

// GetQuote fetches a market-data snapshot for one symbol
func (c *Client) GetQuote(ctx context.Context, symbol string) (*domain.Quote, error) {
	var dto quoteDTO
	if err := c.get(ctx, "/v1/quotes/"+symbol, &dto); err != nil {
		return nil, err
	}

	quote := &domain.Quote{
		Symbol:    dto.Symbol,
		Last:      c.parseDecimal(dto.Last, symbol, "last"),
		Bid:       c.parseDecimal(dto.Bid, symbol, "bid"),
		Ask:       c.parseDecimal(dto.Ask, symbol, "ask"),
		Volume:    c.parseDecimal(dto.Volume, symbol, "volume"),
		Timestamp: time.Now().UTC(),
	}
	if t, err := time.Parse(time.RFC3339, dto.Timestamp); err == nil {
		quote.Timestamp = t
	}

	return quote, nil
}

// IsConnected reports whether the last gateway call succeeded
func (c *Client) IsConnected() bool {
	return c.connected.Load()
}

// HealthCheck pings the gateway
func (c *Client) HealthCheck(ctx context.Context) error {
	var status map[string]interface{}
	return c.get(ctx, "/v1/health", &status)
}

// get performs a rate-limited GET and unmarshals the JSON body
func (c *Client) get(ctx context.Context, path string, result interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter wait cancelled: %w", err)
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(result).
		Get(path)
	if err != nil {
		c.connected.Store(false)
		return fmt.Errorf("gateway request %s failed: %w", path, err)
	}

	if resp.StatusCode() != http.StatusOK {
		c.connected.Store(false)
		return fmt.Errorf("gateway request %s returned %d: %s", path, resp.StatusCode(), resp.String())
	}

	c.connected.Store(true)
	return nil
}

// parseDecimal converts a gateway decimal string, logging and returning 0 on
// garbage so one bad field degrades a single leg instead of the whole call
func (c *Client) parseDecimal(value, symbol, field string) float64 {
	if value == "" {
		return 0
	}

	d, err := decimal.NewFromString(value)
	if err != nil {
		c.log.Warn().
			Str("symbol", symbol).
			Str("field", field).
			Str("value", value).
			Msg("Unparseable decimal from gateway, defaulting to 0")
		return 0
	}

	return d.InexactFloat64()
}
