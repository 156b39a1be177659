package formulas

import (
	"github.com/markcheno/go-talib"
)

// MACDResult represents the final MACD, signal and histogram values
type MACDResult struct {
	MACD      float64 `json:"macd"`
	Signal    float64 `json:"signal"`
	Histogram float64 `json:"histogram"`
}

// CalculateMACD calculates the Moving Average Convergence Divergence
//
// MACD Formula:
//   MACD Line   = EMA(fast) - EMA(slow)
//   Signal Line = EMA(MACD Line, signalPeriod)
//   Histogram   = MACD Line - Signal Line
//
// Args:
//   closes: Array of closing prices
//   fast, slow, signalPeriod: EMA periods (typically 12, 26, 9)
//
// Returns:
//   MACDResult with the latest values, or nil if insufficient data
func CalculateMACD(closes []float64, fast, slow, signalPeriod int) *MACDResult {
	if len(closes) < slow+signalPeriod {
		return nil
	}

	macd, signal, hist := talib.Macd(closes, fast, slow, signalPeriod)

	n := len(macd)
	if n == 0 || isNaN(macd[n-1]) || isNaN(signal[n-1]) {
		return nil
	}

	return &MACDResult{
		MACD:      macd[n-1],
		Signal:    signal[n-1],
		Histogram: hist[n-1],
	}
}

// CalculateSMA calculates a simple moving average and returns the latest value
func CalculateSMA(closes []float64, length int) *float64 {
	if len(closes) < length {
		return nil
	}

	sma := talib.Sma(closes, length)
	if len(sma) > 0 && !isNaN(sma[len(sma)-1]) {
		result := sma[len(sma)-1]
		return &result
	}

	return nil
}
