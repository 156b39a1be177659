package scoring

import "github.com/aristath/bulwark/internal/domain"

// technicalScore folds indicator readings into one 0-100 sub-score.
// Starts from neutral and applies bounded adjustments so that missing
// indicators leave the score where it was rather than dragging it down.
func technicalScore(sig *domain.TechnicalSignals) float64 {
	score := neutralScore

	switch sig.TrendDirection {
	case "up":
		score += 15 * sig.TrendStrength
	case "down":
		score -= 15 * sig.TrendStrength
	}

	if sig.RSI != nil {
		switch sig.RSI.Status {
		case domain.StatusOversold:
			score += 10 // mean-reversion entry
		case domain.StatusOverbought:
			score -= 10
		}
	}

	if sig.MACD != nil {
		switch sig.MACD.Status {
		case domain.StatusBullish:
			score += 15
		case domain.StatusBearish:
			score -= 15
		}
	}

	if sig.BollingerPosition != nil {
		switch {
		case *sig.BollingerPosition <= 0.2:
			score += 5
		case *sig.BollingerPosition >= 0.8:
			score -= 5
		}
	}

	// Heavy volume confirms the trend in whichever direction it points
	if sig.VolumeRatio != nil && *sig.VolumeRatio >= 1.5 {
		switch sig.TrendDirection {
		case "up":
			score += 5
		case "down":
			score -= 5
		}
	}

	return clampScore(score)
}
