package scoring

import (
	"math"
	"time"

	"github.com/aristath/bulwark/internal/domain"
)

// Composite weights and the divergence guard threshold
const (
	weightTechnical   = 0.40
	weightFundamental = 0.40
	weightSentiment   = 0.20
	neutralScore      = 50.0

	// BUY/STRONG_BUY are withheld when technical and fundamental views
	// disagree by this much, regardless of the composite score.
	divergenceGuard = 30.0
)

// Scorer computes PositionScores. Pure with respect to its inputs; every
// missing signal falls back to the documented neutral default.
type Scorer struct{}

// NewScorer creates a new position scorer
func NewScorer() *Scorer {
	return &Scorer{}
}

// Score produces the composite assessment for one symbol
func (s *Scorer) Score(account string, req ScoreRequest, now time.Time) PositionScore {
	technical := neutralScore
	if req.Technical != nil {
		technical = technicalScore(req.Technical)
	}

	fundamental := neutralScore
	if req.Fundamental != nil {
		fundamental = clampScore(req.Fundamental.Overall)
	}

	sentiment := neutralScore
	switch {
	case req.Sentiment != nil:
		sentiment = clampScore(*req.Sentiment)
	case req.Technical != nil:
		sentiment = sentimentScore(req.Technical)
	}

	overall := weightTechnical*technical + weightFundamental*fundamental + weightSentiment*sentiment
	tier := riskTier(overall)

	score := PositionScore{
		Account:          account,
		Symbol:           req.Symbol,
		ScoreDate:        now.UTC().Format("2006-01-02"),
		TechnicalScore:   technical,
		FundamentalScore: fundamental,
		SentimentScore:   sentiment,
		OverallScore:     overall,
		RiskTier:         tier,
		Recommendation:   recommendation(overall, technical, fundamental),
		TargetWeight:     targetWeight(overall, tier),
		Price:            req.Price,
		CreatedAt:        now.UTC(),
	}

	if req.Price > 0 {
		score.StopLoss = req.Price * (1 - stopLossPct(tier))
		score.TakeProfit = takeProfit(req.Price, tier, req.Technical)
	}

	return score
}

// riskTier maps the overall score to a tier. Bands are contiguous and
// exhaustive over [0,100]; boundaries belong to the better tier.
func riskTier(overall float64) domain.RiskTier {
	switch {
	case overall >= 80:
		return domain.TierLow
	case overall >= 60:
		return domain.TierMedium
	case overall >= 40:
		return domain.TierHigh
	default:
		return domain.TierExtreme
	}
}

func recommendation(overall, technical, fundamental float64) domain.Recommendation {
	divergence := math.Abs(technical - fundamental)

	switch {
	case overall >= 90 && divergence < divergenceGuard:
		return domain.RecStrongBuy
	case overall >= 75 && divergence < divergenceGuard:
		return domain.RecBuy
	case overall >= 55:
		return domain.RecHold
	case overall >= 40:
		return domain.RecReduce
	default:
		return domain.RecSell
	}
}

// targetWeight interpolates linearly inside each tier's score range:
// LOW 0.6-1.0, MEDIUM 0.3-0.6, HIGH 0.1-0.3, EXTREME 0-0.1.
func targetWeight(overall float64, tier domain.RiskTier) float64 {
	switch tier {
	case domain.TierLow:
		return 0.6 + 0.4*(math.Min(overall, 100)-80)/20
	case domain.TierMedium:
		return 0.3 + 0.3*(overall-60)/20
	case domain.TierHigh:
		return 0.1 + 0.2*(overall-40)/20
	default:
		return math.Min(0.1, 0.1*overall/40)
	}
}

func stopLossPct(tier domain.RiskTier) float64 {
	switch tier {
	case domain.TierLow:
		return 0.08
	case domain.TierMedium:
		return 0.10
	case domain.TierHigh:
		return 0.12
	default:
		return 0.15
	}
}

// takeProfit prefers the nearest known resistance above the current price.
// Without one it falls back to a tier-scaled markup; LOW gets the most room.
func takeProfit(price float64, tier domain.RiskTier, technical *domain.TechnicalSignals) float64 {
	if technical != nil {
		if level, ok := nearestResistanceAbove(price, technical.ResistanceLevels); ok {
			return level
		}
	}

	var pct float64
	switch tier {
	case domain.TierLow:
		pct = 0.25
	case domain.TierMedium:
		pct = 0.20
	default:
		pct = 0.15
	}

	return price * (1 + pct)
}

func nearestResistanceAbove(price float64, levels []float64) (float64, bool) {
	best := math.Inf(1)
	for _, level := range levels {
		if level > price && level < best {
			best = level
		}
	}
	return best, !math.IsInf(best, 1)
}

func clampScore(v float64) float64 {
	return math.Max(0, math.Min(100, v))
}
