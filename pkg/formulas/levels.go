package formulas

import "sort"

// FindSupportResistance extracts support and resistance levels from a daily
// close series by scanning for local extrema over a lookback window.
//
// A close is a local minimum (support) when it is the lowest value within
// `window` bars on each side, and a local maximum (resistance) when it is the
// highest. Levels are deduplicated within 0.5% of each other (the first
// occurrence wins) and returned sorted ascending.
func FindSupportResistance(closes []float64, window int) (support, resistance []float64) {
	if window < 1 || len(closes) < 2*window+1 {
		return nil, nil
	}

	for i := window; i < len(closes)-window; i++ {
		isMin, isMax := true, true
		for j := i - window; j <= i+window; j++ {
			if j == i {
				continue
			}
			if closes[j] < closes[i] {
				isMin = false
			}
			if closes[j] > closes[i] {
				isMax = false
			}
			if !isMin && !isMax {
				break
			}
		}

		if isMin {
			support = appendLevel(support, closes[i])
		}
		if isMax {
			resistance = appendLevel(resistance, closes[i])
		}
	}

	sort.Float64s(support)
	sort.Float64s(resistance)
	return support, resistance
}

// appendLevel adds a level unless an existing one lies within 0.5% of it
func appendLevel(levels []float64, level float64) []float64 {
	for _, l := range levels {
		if l == 0 {
			continue
		}
		diff := (level - l) / l
		if diff < 0 {
			diff = -diff
		}
		if diff < 0.005 {
			return levels
		}
	}
	return append(levels, level)
}
