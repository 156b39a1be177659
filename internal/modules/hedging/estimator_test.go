package hedging

import (
	"math"
	"testing"

	"github.com/aristath/bulwark/internal/config"
	"github.com/aristath/bulwark/internal/domain"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func defaultWeights() config.RiskWeights {
	return config.RiskWeights{Delta: 1.0, Gamma: 1.5, Vega: 1.2, Theta: 0.8}
}

func defaultCosts() config.CostModel {
	return config.CostModel{
		StockFrictionPerShare:  0.005,
		OptionCostPerContract:  0.65,
		OptionThetaCostPerDay:  0.50,
		LiquidityHalfSpreadPct: 0.0025,
	}
}

func newEstimator() *CostEstimator {
	return NewCostEstimator(defaultWeights(), defaultCosts(), 7, zerolog.Nop())
}

func TestRiskScoreWorkedExample(t *testing.T) {
	est := newEstimator()

	// equity=100,000; delta=+30,000; gamma=2,000; vega=500; theta=-300
	// R = 1.0×0.30 + 1.5×0.02 + 1.2×0.005 + 0.8×0.003 = 0.3384
	exp := domain.AccountExposure{
		Account:       "primary",
		Equity:        100_000,
		TotalDeltaUSD: 30_000,
		TotalGammaUSD: 2_000,
		TotalVegaUSD:  500,
		TotalThetaUSD: -300,
	}

	want := 1.0*0.30 + 1.5*0.02 + 1.2*0.005 + 0.8*0.003
	assert.InDelta(t, want, est.RiskScore(exp), 1e-9)
}

func TestRiskScoreShortDatedWeighting(t *testing.T) {
	est := newEstimator()

	base := domain.AccountExposure{Equity: 100_000, TotalGammaUSD: 2_000}
	withShort := base
	withShort.ShortDTEGammaUSD = 1_000

	// short-dated gamma adds 0.5×|short_pct| on top of the total
	assert.Greater(t, est.RiskScore(withShort), est.RiskScore(base))
	assert.InDelta(t, 1.5*(0.02+0.5*0.01), est.RiskScore(withShort), 1e-9)
}

func TestRiskScoreNonPositiveEquity(t *testing.T) {
	est := newEstimator()

	exp := domain.AccountExposure{Equity: 0, TotalDeltaUSD: 30_000}
	assert.Zero(t, est.RiskScore(exp))
}

func TestEstimateReductionNeverNegative(t *testing.T) {
	est := newEstimator()

	exp := domain.AccountExposure{Equity: 100_000, TotalDeltaUSD: 10_000}

	// A candidate that doubles delta increases risk
	worse := HedgeCandidate{
		Actions: []HedgeAction{{Instrument: InstrumentStock, Quantity: 100, DeltaUSD: 10_000}},
	}

	result := est.Estimate(exp, worse)

	assert.Zero(t, result.RiskReduction)
	assert.True(t, math.IsInf(result.Score, 1))
	assert.Greater(t, result.RiskAfter, result.RiskBefore)
}

func TestEstimateScoreInfIffNoReduction(t *testing.T) {
	est := newEstimator()

	exp := domain.AccountExposure{Equity: 100_000, TotalDeltaUSD: 10_000}

	helpful := HedgeCandidate{
		Actions: []HedgeAction{{Instrument: InstrumentStock, Quantity: 50, DeltaUSD: -5_000, NotionalUSD: 5_000}},
	}
	neutral := HedgeCandidate{
		Actions: []HedgeAction{{Instrument: InstrumentStock, Quantity: 50}},
	}

	good := est.Estimate(exp, helpful)
	flat := est.Estimate(exp, neutral)

	assert.Greater(t, good.RiskReduction, 0.0)
	assert.False(t, math.IsInf(good.Score, 1))
	assert.Zero(t, flat.RiskReduction)
	assert.True(t, math.IsInf(flat.Score, 1))
}

func TestEstimateCostModel(t *testing.T) {
	est := newEstimator()

	exp := domain.AccountExposure{Equity: 100_000, TotalDeltaUSD: 10_000, TotalGammaUSD: -1_000}

	candidate := HedgeCandidate{
		Actions: []HedgeAction{
			{Instrument: InstrumentStock, Quantity: 100, DeltaUSD: -2_500, NotionalUSD: 2_500},
			{Instrument: InstrumentOption, Quantity: 2, TenorDays: 30, GammaUSD: 500, CashUSD: 300, NotionalUSD: 300},
		},
	}

	result := est.Estimate(exp, candidate)

	assert.InDelta(t, 100*0.005+2*0.65, result.FrictionCost, 1e-9)
	assert.InDelta(t, 2*0.50, result.ThetaCost, 1e-9)
	assert.InDelta(t, 300.0, result.CashCost, 1e-9)
	assert.InDelta(t, 2_800*0.0025, result.LiquidityCost, 1e-9)
	assert.InDelta(t,
		result.CashCost+result.FrictionCost+result.ThetaCost+result.LiquidityCost,
		result.TotalCost, 1e-9)
}

func TestEstimateShortDatedLegMovesSubtotals(t *testing.T) {
	est := newEstimator()

	exp := domain.AccountExposure{
		Equity:           100_000,
		TotalGammaUSD:    -2_000,
		ShortDTEGammaUSD: -1_000,
	}

	// 5 DTE leg is inside the 7-day window: the subtotal moves too
	candidate := HedgeCandidate{
		Actions: []HedgeAction{{Instrument: InstrumentOption, Quantity: 1, TenorDays: 5, GammaUSD: 1_000}},
	}

	result := est.Estimate(exp, candidate)

	// before: 1.5×(0.02 + 0.5×0.01), after: 1.5×(0.01 + 0.5×0.0)
	assert.InDelta(t, 1.5*0.025, result.RiskBefore, 1e-9)
	assert.InDelta(t, 1.5*0.010, result.RiskAfter, 1e-9)
}
