package behavior

import (
	"math"
	"time"

	"github.com/aristath/bulwark/internal/domain"
)

// Thresholds of the revenge-trade detector
const (
	revengeLossPct   = 0.03 // realized loss ≥ 3% of the trade's notional
	revengeSizeRatio = 1.5  // follow-up buy sized ≥ 1.5× the loss trade
	revengeWindow    = 24 * time.Hour
)

// Scorer maps a chronological fill list to SymbolBehaviorMetrics.
//
// The sell-fly and revenge detectors use O(n²) first-match-wins pairing.
// That is deliberate: per-account trade volume is small, and a greedy pairing
// is auditable in a way a globally-optimal matching would not be.
type Scorer struct{}

// NewScorer creates a new behavior scorer
func NewScorer() *Scorer {
	return &Scorer{}
}

// Score computes all discipline metrics for one symbol's fills.
// Fills must be in chronological order.
func (s *Scorer) Score(account, symbol string, fills []domain.Fill, windowDays int) SymbolBehaviorMetrics {
	m := SymbolBehaviorMetrics{
		Account:    account,
		Symbol:     symbol,
		WindowDays: windowDays,
		TradeCount: len(fills),
	}

	m.SellFlyEvents, m.ExtraCostRatio = s.detectSellFly(fills)
	m.SellFlyScore = sellFlyScore(m.SellFlyEvents, m.ExtraCostRatio)

	m.OvertradeIndex = overtradeIndex(len(fills), windowDays)
	m.OvertradeScore = overtradeScore(len(fills), m.OvertradeIndex)

	m.RevengeEvents = s.detectRevenge(fills)
	m.RevengeScore = revengeScore(m.RevengeEvents)

	m.BehaviorScore = 0.4*m.SellFlyScore + 0.3*m.OvertradeScore + 0.3*m.RevengeScore
	m.UpdatedAt = time.Now().UTC()

	return m
}

// detectSellFly finds sells that were bought back later at a strictly higher
// price. Each sell matches at most one buy and each buy is consumed by at
// most one sell (first match wins). The extra cost of one event is
// (buy − sell) × min(|sellQty|, |buyQty|); the ratio normalizes the
// accumulated extra cost by total traded notional.
func (s *Scorer) detectSellFly(fills []domain.Fill) (events int, extraCostRatio float64) {
	totalNotional := 0.0
	for _, f := range fills {
		totalNotional += f.Notional()
	}

	matched := make([]bool, len(fills))
	extraCost := 0.0

	for i, sell := range fills {
		if sell.Side != domain.SideSell {
			continue
		}

		for j := i + 1; j < len(fills); j++ {
			buy := fills[j]
			if buy.Side != domain.SideBuy || matched[j] {
				continue
			}
			if buy.Price <= sell.Price {
				continue
			}

			qty := math.Min(math.Abs(sell.Quantity), math.Abs(buy.Quantity))
			extraCost += (buy.Price - sell.Price) * qty
			matched[j] = true
			events++
			break // each sell matches at most one buy
		}
	}

	if totalNotional > 0 {
		extraCostRatio = extraCost / totalNotional
	}

	return events, extraCostRatio
}

// detectRevenge finds trades with a significant realized loss followed within
// 24 hours by an oversized buy of the same symbol. Each qualifying loss is
// matched at most once.
func (s *Scorer) detectRevenge(fills []domain.Fill) int {
	events := 0

	for i, loss := range fills {
		if loss.RealizedPnL == nil || *loss.RealizedPnL >= 0 {
			continue
		}

		notional := loss.Notional()
		if notional <= 0 || -*loss.RealizedPnL < revengeLossPct*notional {
			continue
		}

		for j := i + 1; j < len(fills); j++ {
			buy := fills[j]
			if buy.Side != domain.SideBuy {
				continue
			}
			if buy.ExecutedAt.Sub(loss.ExecutedAt) > revengeWindow {
				break // fills are chronological, nothing later qualifies
			}
			if math.Abs(buy.Quantity) >= revengeSizeRatio*math.Abs(loss.Quantity) {
				events++
				break // loss matched at most once
			}
		}
	}

	return events
}

// overtradeIndex is trades per day over the lookback window
func overtradeIndex(tradeCount, windowDays int) float64 {
	if windowDays <= 0 {
		return 0
	}
	return float64(tradeCount) / float64(windowDays)
}

func sellFlyScore(events int, ratio float64) float64 {
	if events == 0 {
		return 85
	}
	switch {
	case ratio <= 0.01:
		return 80
	case ratio <= 0.03:
		return 70
	case ratio <= 0.06:
		return 60
	case ratio <= 0.10:
		return 50
	default:
		return 40
	}
}

func overtradeScore(tradeCount int, index float64) float64 {
	if tradeCount <= 2 {
		return 85
	}
	switch {
	case index <= 0.5:
		return 80
	case index <= 1:
		return 70
	case index <= 2:
		return 60
	case index <= 5:
		return 50
	default:
		return 40
	}
}

func revengeScore(events int) float64 {
	switch {
	case events == 0:
		return 85
	case events == 1:
		return 70
	case events == 2:
		return 60
	default:
		return 45
	}
}
