package hedging

import (
	"testing"
	"time"

	"github.com/aristath/bulwark/internal/domain"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAdvisor() *Advisor {
	return NewAdvisor(newEstimator(), zerolog.Nop())
}

func longDeltaPortfolio() (domain.AccountExposure, []domain.Position, []domain.OptionPosition) {
	exp := domain.AccountExposure{
		Account:          "primary",
		Equity:           100_000,
		TotalDeltaUSD:    40_000,
		TotalGammaUSD:    -2_000,
		TotalVegaUSD:     800,
		TotalThetaUSD:    -400,
		ShortDTEGammaUSD: -1_000,
		ShortDTEThetaUSD: -200,
		AsOf:             time.Now().UTC(),
	}

	stocks := []domain.Position{
		{Symbol: "NVDA", Quantity: 200, LastPrice: 180},
		{Symbol: "AAPL", Quantity: 20, LastPrice: 150},
	}

	return exp, stocks, nil
}

func TestRecommendReturnsAtMostThreeSortedAscending(t *testing.T) {
	advisor := newAdvisor()
	exp, stocks, options := longDeltaPortfolio()

	results := advisor.Recommend(exp, stocks, options)

	require.NotEmpty(t, results)
	assert.LessOrEqual(t, len(results), 3)

	for i := 1; i < len(results); i++ {
		assert.LessOrEqual(t, results[i-1].Score, results[i].Score)
	}
}

func TestRecommendDiscardsZeroReduction(t *testing.T) {
	advisor := newAdvisor()
	exp, stocks, options := longDeltaPortfolio()

	for _, result := range advisor.Recommend(exp, stocks, options) {
		assert.Greater(t, result.RiskReduction, 0.0)
	}
}

func TestRecommendTargetsDominantSymbol(t *testing.T) {
	advisor := newAdvisor()
	exp, stocks, options := longDeltaPortfolio()

	results := advisor.Recommend(exp, stocks, options)

	require.NotEmpty(t, results)
	for _, result := range results {
		assert.Equal(t, "NVDA", result.Candidate.Symbol)
	}
}

func TestRecommendEmptyPortfolio(t *testing.T) {
	advisor := newAdvisor()

	results := advisor.Recommend(domain.AccountExposure{Account: "primary", Equity: 50_000}, nil, nil)

	assert.Empty(t, results)
}

func TestRecommendCandidatesCarryIDs(t *testing.T) {
	advisor := newAdvisor()
	exp, stocks, options := longDeltaPortfolio()

	seen := make(map[string]bool)
	for _, result := range advisor.Recommend(exp, stocks, options) {
		assert.NotEmpty(t, result.Candidate.ID)
		assert.False(t, seen[result.Candidate.ID], "candidate IDs must be unique")
		seen[result.Candidate.ID] = true
	}
}

func TestDominantSymbolConsidersOptionUnderlyings(t *testing.T) {
	advisor := newAdvisor()

	stocks := []domain.Position{{Symbol: "AAPL", Quantity: 10, LastPrice: 150}}
	options := []domain.OptionPosition{{
		Contract:        domain.OptionContract{Underlying: "SPY", Multiplier: 100},
		Quantity:        10,
		UnderlyingPrice: 500,
		Greeks:          domain.Greeks{Delta: 0.6},
	}}

	symbol, price := advisor.dominantSymbol(stocks, options)

	// SPY option delta notional (300,000) dwarfs the AAPL stock leg (1,500)
	assert.Equal(t, "SPY", symbol)
	assert.Equal(t, 500.0, price)
}
