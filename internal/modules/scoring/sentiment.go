package scoring

import "github.com/aristath/bulwark/internal/domain"

// sentimentScore derives a sentiment sub-score from the same technical
// indicators when no separate sentiment feed is supplied. The bucket
// thresholds are deliberately coarse: a stable step signal rather than a
// continuous function fitted to short-term momentum noise.
func sentimentScore(sig *domain.TechnicalSignals) float64 {
	var sum float64
	var n int

	if sig.RSI != nil {
		sum += rsiSentimentBucket(sig.RSI.Value)
		n++
	}

	if sig.MACD != nil {
		switch sig.MACD.Status {
		case domain.StatusBullish:
			sum += 70
		case domain.StatusBearish:
			sum += 30
		default:
			sum += neutralScore
		}
		n++
	}

	if sig.VolumeRatio != nil {
		sum += volumeSentimentBucket(*sig.VolumeRatio)
		n++
	}

	if n == 0 {
		return neutralScore
	}

	return sum / float64(n)
}

func rsiSentimentBucket(rsi float64) float64 {
	switch {
	case rsi < 30:
		return 25
	case rsi < 45:
		return 40
	case rsi <= 55:
		return 50
	case rsi <= 70:
		return 65
	default:
		return 80
	}
}

func volumeSentimentBucket(ratio float64) float64 {
	switch {
	case ratio >= 2.0:
		return 75
	case ratio >= 1.5:
		return 65
	case ratio >= 0.75:
		return 50
	default:
		return 40
	}
}
