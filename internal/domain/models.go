// Package domain provides core domain models and types.
package domain

import (
	"math"
	"time"
)

// Currency represents a currency code
type Currency string

const (
	CurrencyUSD Currency = "USD"
	CurrencyEUR Currency = "EUR"
	CurrencyHKD Currency = "HKD"
)

// OptionRight represents the right conveyed by an option contract
type OptionRight string

const (
	RightCall OptionRight = "CALL"
	RightPut  OptionRight = "PUT"
)

// TradeSide represents the side of a fill
type TradeSide string

const (
	SideBuy  TradeSide = "BUY"
	SideSell TradeSide = "SELL"
)

// RiskTier classifies a scored position by overall score
type RiskTier string

const (
	TierLow     RiskTier = "LOW"
	TierMedium  RiskTier = "MEDIUM"
	TierHigh    RiskTier = "HIGH"
	TierExtreme RiskTier = "EXTREME"
)

// Recommendation is the action suggested for a scored position
type Recommendation string

const (
	RecStrongBuy Recommendation = "STRONG_BUY"
	RecBuy       Recommendation = "BUY"
	RecHold      Recommendation = "HOLD"
	RecReduce    Recommendation = "REDUCE"
	RecSell      Recommendation = "SELL"
)

// Position represents a stock position as reported by the broker feed.
// It is an immutable snapshot; quantity is signed (negative = short).
type Position struct {
	Symbol      string   `json:"symbol"`
	Market      string   `json:"market"`
	Quantity    float64  `json:"quantity"`
	AverageCost float64  `json:"average_cost"`
	LastPrice   float64  `json:"last_price"`
	Currency    Currency `json:"currency"`
}

// MarketValue returns quantity × last price
func (p Position) MarketValue() float64 {
	return p.Quantity * p.LastPrice
}

// OptionContract identifies a listed option
type OptionContract struct {
	Underlying string      `json:"underlying"`
	Right      OptionRight `json:"right"`
	Strike     float64     `json:"strike"`
	Expiry     time.Time   `json:"expiry"`
	Multiplier float64     `json:"multiplier"`
	Currency   Currency    `json:"currency"`
}

// Greeks holds per-contract option sensitivities
type Greeks struct {
	Delta float64 `json:"delta"`
	Gamma float64 `json:"gamma"`
	Vega  float64 `json:"vega"`
	Theta float64 `json:"theta"`
}

// OptionPosition represents an option position with its Greeks snapshot.
// Quantity is signed: positive = long contracts, negative = short.
type OptionPosition struct {
	Contract        OptionContract `json:"contract"`
	Quantity        float64        `json:"quantity"`
	AveragePremium  float64        `json:"average_premium"`
	UnderlyingPrice float64        `json:"underlying_price"`
	Greeks          Greeks         `json:"greeks"`
	SnapshotAt      time.Time      `json:"snapshot_at"`
}

// DaysToExpiry returns whole days until contract expiry, rounded up.
// Expired contracts return 0.
func (o OptionPosition) DaysToExpiry(now time.Time) int {
	if !o.Contract.Expiry.After(now) {
		return 0
	}
	return int(math.Ceil(o.Contract.Expiry.Sub(now).Hours() / 24))
}

// AccountExposure aggregates portfolio-level option risk for one account.
// All *_USD fields are raw dollar figures; consumers normalize by Equity
// so that thresholds stay account-size-independent.
type AccountExposure struct {
	Account          string    `json:"account"`
	Equity           float64   `json:"equity"`
	TotalDeltaUSD    float64   `json:"total_delta_usd"`
	TotalGammaUSD    float64   `json:"total_gamma_usd"`
	TotalVegaUSD     float64   `json:"total_vega_usd"`
	TotalThetaUSD    float64   `json:"total_theta_usd"`
	ShortDTEGammaUSD float64   `json:"short_dte_gamma_usd"`
	ShortDTEThetaUSD float64   `json:"short_dte_theta_usd"`
	StockCount       int       `json:"stock_count"`
	OptionCount      int       `json:"option_count"`
	ExcludedCount    int       `json:"excluded_count"`
	AsOf             time.Time `json:"as_of"`
}

// Fill represents one executed trade from the account history
type Fill struct {
	Symbol      string    `json:"symbol"`
	Side        TradeSide `json:"side"`
	Quantity    float64   `json:"quantity"`
	Price       float64   `json:"price"`
	ExecutedAt  time.Time `json:"executed_at"`
	RealizedPnL *float64  `json:"realized_pnl,omitempty"` // Set on closing fills when the broker reports it
}

// Notional returns |quantity| × price
func (f Fill) Notional() float64 {
	return math.Abs(f.Quantity) * f.Price
}

// Quote is a broker market-data snapshot for one symbol
type Quote struct {
	Symbol    string    `json:"symbol"`
	Last      float64   `json:"last"`
	Bid       float64   `json:"bid"`
	Ask       float64   `json:"ask"`
	Volume    float64   `json:"volume"`
	Timestamp time.Time `json:"timestamp"`
}

// IndicatorStatus is a coarse classification of an indicator reading
type IndicatorStatus string

const (
	StatusOversold   IndicatorStatus = "OVERSOLD"
	StatusNeutral    IndicatorStatus = "NEUTRAL"
	StatusOverbought IndicatorStatus = "OVERBOUGHT"
	StatusBullish    IndicatorStatus = "BULLISH"
	StatusBearish    IndicatorStatus = "BEARISH"
)

// RSIReading holds an RSI value with its classification
type RSIReading struct {
	Value  float64         `json:"value"`
	Status IndicatorStatus `json:"status"`
}

// MACDReading holds MACD line/signal values with a classification
type MACDReading struct {
	Value  float64         `json:"value"`
	Signal float64         `json:"signal"`
	Status IndicatorStatus `json:"status"`
}

// TechnicalSignals is the per-symbol output of the technical signal provider
type TechnicalSignals struct {
	Symbol            string       `json:"symbol"`
	TrendDirection    string       `json:"trend_direction"` // up, down, sideways
	TrendStrength     float64      `json:"trend_strength"`  // 0-1
	RSI               *RSIReading  `json:"rsi,omitempty"`
	MACD              *MACDReading `json:"macd,omitempty"`
	BollingerPosition *float64     `json:"bollinger_position,omitempty"` // 0-1 within bands
	VolumeRatio       *float64     `json:"volume_ratio,omitempty"`       // today vs trailing average
	SupportLevels     []float64    `json:"support_levels,omitempty"`
	ResistanceLevels  []float64    `json:"resistance_levels,omitempty"`
	LastPrice         float64      `json:"last_price"`
}

// FundamentalSignals is the per-symbol output of the fundamental signal provider.
// All sub-scores are 0-100.
type FundamentalSignals struct {
	Symbol        string  `json:"symbol"`
	Valuation     float64 `json:"valuation"`
	Profitability float64 `json:"profitability"`
	Growth        float64 `json:"growth"`
	Health        float64 `json:"health"`
	Overall       float64 `json:"overall"`
	Sector        string  `json:"sector,omitempty"`
	Industry      string  `json:"industry,omitempty"`
	Beta          float64 `json:"beta,omitempty"`
}
