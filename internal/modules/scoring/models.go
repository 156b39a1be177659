// Package scoring combines technical, fundamental, and sentiment inputs into
// a composite per-symbol assessment with an actionable target.
package scoring

import (
	"time"

	"github.com/aristath/bulwark/internal/domain"
)

// PositionScore is the composite assessment for one symbol. Sub-scores are
// 0-100; missing inputs default to the neutral 50 rather than failing the
// computation. Rows are keyed by (account, symbol, score_date).
type PositionScore struct {
	Account          string                `json:"account"`
	Symbol           string                `json:"symbol"`
	ScoreDate        string                `json:"score_date"` // YYYY-MM-DD
	TechnicalScore   float64               `json:"technical_score"`
	FundamentalScore float64               `json:"fundamental_score"`
	SentimentScore   float64               `json:"sentiment_score"`
	OverallScore     float64               `json:"overall_score"`
	RiskTier         domain.RiskTier       `json:"risk_tier"`
	Recommendation   domain.Recommendation `json:"recommendation"`
	TargetWeight     float64               `json:"target_weight"` // 0-1 fraction of equity
	StopLoss         float64               `json:"stop_loss"`
	TakeProfit       float64               `json:"take_profit"`
	Price            float64               `json:"price"`
	CreatedAt        time.Time             `json:"created_at"`
}

// ScoreRequest carries the inputs for one scoring call. Technical and
// Fundamental are optional; absent signals score neutral. Sentiment, when
// nil, is derived from the technical indicators.
type ScoreRequest struct {
	Symbol      string
	Price       float64
	Technical   *domain.TechnicalSignals
	Fundamental *domain.FundamentalSignals
	Sentiment   *float64
}
