package scoring

import (
	"testing"
	"time"

	"github.com/aristath/bulwark/internal/domain"
	"github.com/stretchr/testify/assert"
)

var scoreTime = time.Date(2026, 4, 1, 9, 30, 0, 0, time.UTC)

func floatPtr(v float64) *float64 { return &v }

// technical fixture that maps to exactly 80: up trend at full strength (+15)
// and a bullish MACD cross (+15) on the neutral 50 base
func strongTechnical() *domain.TechnicalSignals {
	return &domain.TechnicalSignals{
		Symbol:         "AAPL",
		TrendDirection: "up",
		TrendStrength:  1.0,
		MACD:           &domain.MACDReading{Value: 1.2, Signal: 0.8, Status: domain.StatusBullish},
		LastPrice:      150,
	}
}

func TestScoreWorkedExample(t *testing.T) {
	scorer := NewScorer()

	// technical=80, fundamental=40, sentiment=60
	// overall = 0.4×80 + 0.4×40 + 0.2×60 = 60 → MEDIUM
	// divergence = 40 ≥ 30 → capped at HOLD
	req := ScoreRequest{
		Symbol:      "AAPL",
		Price:       150,
		Technical:   strongTechnical(),
		Fundamental: &domain.FundamentalSignals{Symbol: "AAPL", Overall: 40},
		Sentiment:   floatPtr(60),
	}

	score := scorer.Score("primary", req, scoreTime)

	assert.Equal(t, 80.0, score.TechnicalScore)
	assert.Equal(t, 40.0, score.FundamentalScore)
	assert.Equal(t, 60.0, score.SentimentScore)
	assert.InDelta(t, 60.0, score.OverallScore, 1e-9)
	assert.Equal(t, domain.TierMedium, score.RiskTier)
	assert.Equal(t, domain.RecHold, score.Recommendation)
}

func TestScoreMissingInputsDefaultNeutral(t *testing.T) {
	scorer := NewScorer()

	score := scorer.Score("primary", ScoreRequest{Symbol: "XYZ", Price: 100}, scoreTime)

	assert.Equal(t, 50.0, score.TechnicalScore)
	assert.Equal(t, 50.0, score.FundamentalScore)
	assert.Equal(t, 50.0, score.SentimentScore)
	assert.InDelta(t, 50.0, score.OverallScore, 1e-9)
	assert.Equal(t, domain.TierHigh, score.RiskTier)
}

func TestScoreDeterministic(t *testing.T) {
	scorer := NewScorer()

	req := ScoreRequest{
		Symbol:      "AAPL",
		Price:       150,
		Technical:   strongTechnical(),
		Fundamental: &domain.FundamentalSignals{Symbol: "AAPL", Overall: 70},
	}

	a := scorer.Score("primary", req, scoreTime)
	b := scorer.Score("primary", req, scoreTime)

	assert.Equal(t, a, b)
}

func TestRiskTierBoundaries(t *testing.T) {
	tests := []struct {
		overall float64
		want    domain.RiskTier
	}{
		{100, domain.TierLow},
		{80, domain.TierLow},
		{79.999, domain.TierMedium},
		{60, domain.TierMedium},
		{59.999, domain.TierHigh},
		{40, domain.TierHigh},
		{39.999, domain.TierExtreme},
		{0, domain.TierExtreme},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, riskTier(tt.overall), "overall=%v", tt.overall)
	}
}

func TestRecommendationDivergenceGuard(t *testing.T) {
	// High composite, wildly disagreeing inputs: BUY is withheld
	assert.Equal(t, domain.RecHold, recommendation(76, 100, 55))

	// Same composite, agreeing inputs: BUY
	assert.Equal(t, domain.RecBuy, recommendation(76, 78, 76))

	// STRONG_BUY needs both the score and agreement
	assert.Equal(t, domain.RecStrongBuy, recommendation(92, 95, 90))
	assert.Equal(t, domain.RecHold, recommendation(92, 100, 68))
}

func TestRecommendationLowerBands(t *testing.T) {
	assert.Equal(t, domain.RecHold, recommendation(55, 55, 55))
	assert.Equal(t, domain.RecReduce, recommendation(45, 45, 45))
	assert.Equal(t, domain.RecSell, recommendation(30, 30, 30))
}

func TestTargetWeightBands(t *testing.T) {
	// Tier edges interpolate linearly inside each band
	assert.InDelta(t, 0.6, targetWeight(80, domain.TierLow), 1e-9)
	assert.InDelta(t, 1.0, targetWeight(100, domain.TierLow), 1e-9)
	assert.InDelta(t, 0.3, targetWeight(60, domain.TierMedium), 1e-9)
	assert.InDelta(t, 0.45, targetWeight(70, domain.TierMedium), 1e-9)
	assert.InDelta(t, 0.1, targetWeight(40, domain.TierHigh), 1e-9)
	assert.InDelta(t, 0.05, targetWeight(20, domain.TierExtreme), 1e-9)

	// EXTREME is capped at 0.1
	assert.LessOrEqual(t, targetWeight(39.999, domain.TierExtreme), 0.1)
}

func TestOverallMonotonicInEachInput(t *testing.T) {
	scorer := NewScorer()

	base := ScoreRequest{
		Symbol:      "AAPL",
		Price:       150,
		Fundamental: &domain.FundamentalSignals{Overall: 50},
		Sentiment:   floatPtr(50),
	}

	prev := -1.0
	for f := 0.0; f <= 100; f += 10 {
		req := base
		req.Fundamental = &domain.FundamentalSignals{Overall: f}
		score := scorer.Score("primary", req, scoreTime)
		assert.GreaterOrEqual(t, score.OverallScore, prev)
		assert.GreaterOrEqual(t, score.OverallScore, 0.0)
		assert.LessOrEqual(t, score.OverallScore, 100.0)
		prev = score.OverallScore
	}

	prev = -1.0
	for sent := 0.0; sent <= 100; sent += 10 {
		req := base
		req.Sentiment = floatPtr(sent)
		score := scorer.Score("primary", req, scoreTime)
		assert.GreaterOrEqual(t, score.OverallScore, prev)
		prev = score.OverallScore
	}
}

func TestStopLossAndTakeProfitByTier(t *testing.T) {
	scorer := NewScorer()

	// Neutral inputs land in HIGH tier: stop 12% below, take 15% above
	score := scorer.Score("primary", ScoreRequest{Symbol: "XYZ", Price: 100}, scoreTime)

	assert.InDelta(t, 88.0, score.StopLoss, 1e-9)
	assert.InDelta(t, 115.0, score.TakeProfit, 1e-9)
}

func TestTakeProfitPrefersNearestResistance(t *testing.T) {
	scorer := NewScorer()

	tech := strongTechnical()
	tech.ResistanceLevels = []float64{140, 160, 180} // 140 is below price

	req := ScoreRequest{
		Symbol:      "AAPL",
		Price:       150,
		Technical:   tech,
		Fundamental: &domain.FundamentalSignals{Overall: 75},
	}

	score := scorer.Score("primary", req, scoreTime)
	assert.Equal(t, 160.0, score.TakeProfit)
}

func TestScoreZeroPriceSkipsLevels(t *testing.T) {
	scorer := NewScorer()

	score := scorer.Score("primary", ScoreRequest{Symbol: "XYZ"}, scoreTime)

	assert.Zero(t, score.StopLoss)
	assert.Zero(t, score.TakeProfit)
}
