package behavior

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// metricsColumns is the list of columns for the behavior_metrics table.
// Column order must match scanMetrics().
const metricsColumns = `account, symbol, window_days, trade_count, sell_fly_events,
	extra_cost_ratio, overtrade_index, revenge_events, behavior_score,
	sell_fly_score, overtrade_score, revenge_score, updated_at`

// MetricsRepository persists per-symbol behavior metrics in portfolio.db.
// Rows are keyed by (account, symbol, window_days); Upsert replaces in place.
type MetricsRepository struct {
	portfolioDB *sql.DB
	log         zerolog.Logger
}

// NewMetricsRepository creates a new behavior metrics repository
func NewMetricsRepository(portfolioDB *sql.DB, log zerolog.Logger) *MetricsRepository {
	return &MetricsRepository{
		portfolioDB: portfolioDB,
		log:         log.With().Str("repo", "behavior_metrics").Logger(),
	}
}

// Upsert inserts or replaces the metrics row for (account, symbol, window_days)
func (r *MetricsRepository) Upsert(m SymbolBehaviorMetrics) error {
	query := `
		INSERT INTO behavior_metrics
		(account, symbol, window_days, trade_count, sell_fly_events,
		 extra_cost_ratio, overtrade_index, revenge_events, behavior_score,
		 sell_fly_score, overtrade_score, revenge_score, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(account, symbol, window_days) DO UPDATE SET
			trade_count = excluded.trade_count,
			sell_fly_events = excluded.sell_fly_events,
			extra_cost_ratio = excluded.extra_cost_ratio,
			overtrade_index = excluded.overtrade_index,
			revenge_events = excluded.revenge_events,
			behavior_score = excluded.behavior_score,
			sell_fly_score = excluded.sell_fly_score,
			overtrade_score = excluded.overtrade_score,
			revenge_score = excluded.revenge_score,
			updated_at = excluded.updated_at
	`

	_, err := r.portfolioDB.Exec(query,
		m.Account,
		m.Symbol,
		m.WindowDays,
		m.TradeCount,
		m.SellFlyEvents,
		m.ExtraCostRatio,
		m.OvertradeIndex,
		m.RevengeEvents,
		m.BehaviorScore,
		m.SellFlyScore,
		m.OvertradeScore,
		m.RevengeScore,
		m.UpdatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert behavior metrics for %s: %w", m.Symbol, err)
	}

	return nil
}

// GetByAccount returns all metrics rows for an account and window, symbol-ordered
func (r *MetricsRepository) GetByAccount(account string, windowDays int) ([]SymbolBehaviorMetrics, error) {
	query := "SELECT " + metricsColumns + ` FROM behavior_metrics
		WHERE account = ? AND window_days = ?
		ORDER BY symbol`

	rows, err := r.portfolioDB.Query(query, account, windowDays)
	if err != nil {
		return nil, fmt.Errorf("failed to query behavior metrics: %w", err)
	}
	defer rows.Close()

	var result []SymbolBehaviorMetrics
	for rows.Next() {
		m, err := scanMetrics(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, m)
	}

	return result, rows.Err()
}

// GetBySymbol returns the metrics row for one symbol, or nil when absent
func (r *MetricsRepository) GetBySymbol(account, symbol string, windowDays int) (*SymbolBehaviorMetrics, error) {
	query := "SELECT " + metricsColumns + ` FROM behavior_metrics
		WHERE account = ? AND symbol = ? AND window_days = ?`

	rows, err := r.portfolioDB.Query(query, account, symbol, windowDays)
	if err != nil {
		return nil, fmt.Errorf("failed to query behavior metrics for %s: %w", symbol, err)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}

	m, err := scanMetrics(rows)
	if err != nil {
		return nil, err
	}

	return &m, nil
}

func scanMetrics(rows *sql.Rows) (SymbolBehaviorMetrics, error) {
	var m SymbolBehaviorMetrics
	var updatedAt string

	err := rows.Scan(
		&m.Account,
		&m.Symbol,
		&m.WindowDays,
		&m.TradeCount,
		&m.SellFlyEvents,
		&m.ExtraCostRatio,
		&m.OvertradeIndex,
		&m.RevengeEvents,
		&m.BehaviorScore,
		&m.SellFlyScore,
		&m.OvertradeScore,
		&m.RevengeScore,
		&updatedAt,
	)
	if err != nil {
		return m, fmt.Errorf("failed to scan behavior metrics: %w", err)
	}

	if t, err := time.Parse(time.RFC3339, updatedAt); err == nil {
		m.UpdatedAt = t
	}

	return m, nil
}
