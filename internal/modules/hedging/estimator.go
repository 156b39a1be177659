package hedging

import (
	"math"

	"github.com/aristath/bulwark/internal/config"
	"github.com/aristath/bulwark/internal/domain"
	"github.com/rs/zerolog"
)

// epsilon keeps the ranking division well-defined for vanishingly small
// reductions. It is only applied when reduction > 0, so the "+Inf iff no
// reduction" invariant holds exactly.
const epsilon = 1e-9

// CostEstimator quantifies whether a hedge candidate is worth executing:
// portfolio risk score before/after, execution cost, and the ranking key
// cost-per-unit-of-risk-reduced.
type CostEstimator struct {
	weights      config.RiskWeights
	costs        config.CostModel
	shortDTEDays int
	log          zerolog.Logger
}

// NewCostEstimator creates a new hedge cost estimator
func NewCostEstimator(weights config.RiskWeights, costs config.CostModel, shortDTEDays int, log zerolog.Logger) *CostEstimator {
	return &CostEstimator{
		weights:      weights,
		costs:        costs,
		shortDTEDays: shortDTEDays,
		log:          log.With().Str("service", "hedge_estimator").Logger(),
	}
}

// RiskScore computes the weighted exposure risk score of an account.
// All exposures are normalized by equity so thresholds stay
// account-size-independent. Non-positive equity yields 0 with a warning.
func (e *CostEstimator) RiskScore(exp domain.AccountExposure) float64 {
	if exp.Equity <= 0 {
		e.log.Warn().
			Str("account", exp.Account).
			Float64("equity", exp.Equity).
			Msg("Non-positive equity, risk score degenerates to 0")
		return 0
	}

	deltaPct := exp.TotalDeltaUSD / exp.Equity
	gammaPct := exp.TotalGammaUSD / exp.Equity
	vegaPct := exp.TotalVegaUSD / exp.Equity
	thetaPct := exp.TotalThetaUSD / exp.Equity
	shortGammaPct := exp.ShortDTEGammaUSD / exp.Equity
	shortThetaPct := exp.ShortDTEThetaUSD / exp.Equity

	gammaEff := math.Abs(gammaPct) + 0.5*math.Abs(shortGammaPct)
	thetaEff := math.Abs(thetaPct) + 0.5*math.Abs(shortThetaPct)

	return e.weights.Delta*math.Abs(deltaPct) +
		e.weights.Gamma*gammaEff +
		e.weights.Vega*math.Abs(vegaPct) +
		e.weights.Theta*thetaEff
}

// Estimate applies the candidate hypothetically and prices it.
// A candidate that increases risk is still scored (reduction clamps to 0,
// score becomes +Inf) so callers can log why it was discarded.
func (e *CostEstimator) Estimate(exp domain.AccountExposure, candidate HedgeCandidate) HedgeCostResult {
	result := HedgeCostResult{
		Candidate:  candidate,
		RiskBefore: e.RiskScore(exp),
	}

	after := e.applyActions(exp, candidate.Actions)
	result.RiskAfter = e.RiskScore(after)
	result.RiskReduction = math.Max(0, result.RiskBefore-result.RiskAfter)

	for _, action := range candidate.Actions {
		qty := math.Abs(action.Quantity)

		switch action.Instrument {
		case InstrumentStock:
			result.FrictionCost += qty * e.costs.StockFrictionPerShare
		case InstrumentOption:
			result.FrictionCost += qty * e.costs.OptionCostPerContract
			result.ThetaCost += qty * e.costs.OptionThetaCostPerDay
		}

		result.CashCost += math.Abs(action.CashUSD)
		result.LiquidityCost += math.Abs(action.NotionalUSD) * e.costs.LiquidityHalfSpreadPct
	}

	result.TotalCost = result.CashCost + result.FrictionCost + result.ThetaCost + result.LiquidityCost

	if result.RiskReduction > 0 {
		result.Score = result.TotalCost / (result.RiskReduction + epsilon)
	} else {
		result.Score = math.Inf(1)
	}

	return result
}

// applyActions returns a copy of the exposure with each action's estimated
// Greek impact applied. Option legs inside the short-DTE window also move
// the short-dated subtotals.
func (e *CostEstimator) applyActions(exp domain.AccountExposure, actions []HedgeAction) domain.AccountExposure {
	after := exp

	for _, action := range actions {
		after.TotalDeltaUSD += action.DeltaUSD
		after.TotalGammaUSD += action.GammaUSD
		after.TotalVegaUSD += action.VegaUSD
		after.TotalThetaUSD += action.ThetaUSD

		if action.Instrument == InstrumentOption && action.TenorDays > 0 && action.TenorDays <= e.shortDTEDays {
			after.ShortDTEGammaUSD += action.GammaUSD
			after.ShortDTEThetaUSD += action.ThetaUSD
		}
	}

	return after
}
