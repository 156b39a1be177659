// Package hedging generates and ranks hedge candidates by estimated cost
// per unit of portfolio risk reduced.
package hedging

import (
	"github.com/aristath/bulwark/internal/domain"
)

// InstrumentType distinguishes stock and option hedge legs
type InstrumentType string

const (
	InstrumentStock  InstrumentType = "stock"
	InstrumentOption InstrumentType = "option"
)

// HedgeAction is one proposed leg of a hedge candidate. The *USD fields are
// the leg's estimated exposure impact, in the same dollar terms as
// AccountExposure, so the estimator can apply a candidate hypothetically
// without re-pricing contracts.
type HedgeAction struct {
	Instrument InstrumentType   `json:"instrument"`
	Side       domain.TradeSide `json:"side"`
	Quantity   float64          `json:"quantity"`
	TenorDays  int              `json:"tenor_days,omitempty"` // option legs only
	Moneyness  float64          `json:"moneyness,omitempty"`  // strike/spot, option legs only

	// Estimated exposure impact when executed
	DeltaUSD float64 `json:"delta_usd"`
	GammaUSD float64 `json:"gamma_usd"`
	VegaUSD  float64 `json:"vega_usd"`
	ThetaUSD float64 `json:"theta_usd"`

	// Estimated outlay: premium paid for option buys, 0 for stock trims
	CashUSD float64 `json:"cash_usd"`
	// Traded notional, used for the liquidity cost estimate
	NotionalUSD float64 `json:"notional_usd"`
}

// HedgeCandidate is an ephemeral, per-advisory-call proposal
type HedgeCandidate struct {
	ID         string         `json:"id"`
	Symbol     string         `json:"symbol"`
	Instrument InstrumentType `json:"instrument"`
	Actions    []HedgeAction  `json:"actions"`
	Label      string         `json:"label"`
	Rationale  string         `json:"rationale"`
}

// HedgeCostResult is the estimator's verdict on one candidate.
// Score is +Inf exactly when the candidate reduces no risk.
type HedgeCostResult struct {
	Candidate     HedgeCandidate `json:"candidate"`
	RiskBefore    float64        `json:"risk_before"`
	RiskAfter     float64        `json:"risk_after"`
	RiskReduction float64        `json:"risk_reduction"` // ≥ 0, clamped
	CashCost      float64        `json:"cash_cost"`
	FrictionCost  float64        `json:"friction_cost"`
	ThetaCost     float64        `json:"theta_cost"`
	LiquidityCost float64        `json:"liquidity_cost"`
	TotalCost     float64        `json:"total_cost"`
	Score         float64        `json:"score"`
}
