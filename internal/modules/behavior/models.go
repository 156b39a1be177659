// Package behavior quantifies undisciplined trading patterns from an
// account's fill history, independently per symbol.
package behavior

import "time"

// SymbolBehaviorMetrics holds the per-symbol discipline metrics and their
// derived scores. All scores are 0-100, higher = healthier. Rows are keyed
// by (account, symbol, window_days); recomputation upserts in place.
type SymbolBehaviorMetrics struct {
	Account        string    `json:"account"`
	Symbol         string    `json:"symbol"`
	WindowDays     int       `json:"window_days"`
	TradeCount     int       `json:"trade_count"`
	SellFlyEvents  int       `json:"sell_fly_events"`
	ExtraCostRatio float64   `json:"extra_cost_ratio"`
	OvertradeIndex float64   `json:"overtrade_index"`
	RevengeEvents  int       `json:"revenge_events"`
	BehaviorScore  float64   `json:"behavior_score"`
	SellFlyScore   float64   `json:"sell_fly_score"`
	OvertradeScore float64   `json:"overtrade_score"`
	RevengeScore   float64   `json:"revenge_score"`
	UpdatedAt      time.Time `json:"updated_at"`
}
