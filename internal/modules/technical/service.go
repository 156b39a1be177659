package technical

import (
	"context"
	"fmt"
	"math"

	"github.com/aristath/bulwark/internal/domain"
	"github.com/aristath/bulwark/pkg/formulas"
	"github.com/rs/zerolog"
)

// Indicator parameters: the standard textbook settings
const (
	rsiLength       = 14
	macdFast        = 12
	macdSlow        = 26
	macdSignal      = 9
	bollingerLength = 20
	bollingerStdDev = 2.0
	volumeLookback  = 20
	trendFast       = 20
	trendSlow       = 50
	levelWindow     = 5

	historyBars = 120
)

// Service computes TechnicalSignals from stored daily bars. Implements
// domain.TechnicalSignalProvider. Indicators that lack sufficient history
// are left nil; downstream scoring treats them as neutral.
type Service struct {
	prices *PriceRepository
	log    zerolog.Logger
}

// NewService creates a new technical signal service
func NewService(prices *PriceRepository, log zerolog.Logger) *Service {
	return &Service{
		prices: prices,
		log:    log.With().Str("service", "technical").Logger(),
	}
}

// GetSignals computes the full indicator set for one symbol
func (s *Service) GetSignals(_ context.Context, symbol string) (*domain.TechnicalSignals, error) {
	bars, err := s.prices.GetRecentBars(symbol, historyBars)
	if err != nil {
		return nil, err
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("no price history for %s", symbol)
	}

	closes := make([]float64, len(bars))
	volumes := make([]float64, len(bars))
	for i, b := range bars {
		closes[i] = b.Close
		volumes[i] = b.Volume
	}

	signals := &domain.TechnicalSignals{
		Symbol:    symbol,
		LastPrice: closes[len(closes)-1],
	}

	signals.TrendDirection, signals.TrendStrength = trend(closes)

	if rsi := formulas.CalculateRSI(closes, rsiLength); rsi != nil {
		signals.RSI = &domain.RSIReading{Value: *rsi, Status: rsiStatus(*rsi)}
	}

	if macd := formulas.CalculateMACD(closes, macdFast, macdSlow, macdSignal); macd != nil {
		signals.MACD = &domain.MACDReading{
			Value:  macd.MACD,
			Signal: macd.Signal,
			Status: macdStatus(macd),
		}
	}

	if pos := formulas.CalculateBollingerPosition(closes, bollingerLength, bollingerStdDev); pos != nil {
		signals.BollingerPosition = &pos.Position
	}

	if ratio := volumeRatio(volumes); ratio != nil {
		signals.VolumeRatio = ratio
	}

	signals.SupportLevels, signals.ResistanceLevels = formulas.FindSupportResistance(closes, levelWindow)

	return signals, nil
}

// trend compares the fast and slow moving averages. Strength is the MA gap
// relative to the slow MA, scaled so a 10% gap saturates at 1.0.
func trend(closes []float64) (string, float64) {
	fast := formulas.CalculateSMA(closes, trendFast)
	slow := formulas.CalculateSMA(closes, trendSlow)
	if fast == nil || slow == nil || *slow == 0 {
		return "sideways", 0
	}

	gap := (*fast - *slow) / math.Abs(*slow)
	strength := math.Min(1, math.Abs(gap)*10)

	switch {
	case gap > 0.005:
		return "up", strength
	case gap < -0.005:
		return "down", strength
	default:
		return "sideways", 0
	}
}

func rsiStatus(rsi float64) domain.IndicatorStatus {
	switch {
	case rsi < 30:
		return domain.StatusOversold
	case rsi > 70:
		return domain.StatusOverbought
	default:
		return domain.StatusNeutral
	}
}

func macdStatus(macd *formulas.MACDResult) domain.IndicatorStatus {
	if macd.Histogram > 0 {
		return domain.StatusBullish
	}
	if macd.Histogram < 0 {
		return domain.StatusBearish
	}
	return domain.StatusNeutral
}

// volumeRatio compares the latest session to the trailing average,
// excluding the latest bar from the baseline
func volumeRatio(volumes []float64) *float64 {
	if len(volumes) < volumeLookback+1 {
		return nil
	}

	latest := volumes[len(volumes)-1]
	baseline := formulas.Mean(volumes[len(volumes)-1-volumeLookback : len(volumes)-1])
	if baseline <= 0 {
		return nil
	}

	ratio := latest / baseline
	return &ratio
}
