// Package technical derives per-symbol technical signals from stored
// daily price history.
package technical

import (
	"database/sql"
	"fmt"

	"github.com/rs/zerolog"
)

// DailyBar is one row of stored price history
type DailyBar struct {
	Symbol string
	Date   string // YYYY-MM-DD
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// PriceRepository reads daily bars from history.db
type PriceRepository struct {
	historyDB *sql.DB
	log       zerolog.Logger
}

// NewPriceRepository creates a new price repository
func NewPriceRepository(historyDB *sql.DB, log zerolog.Logger) *PriceRepository {
	return &PriceRepository{
		historyDB: historyDB,
		log:       log.With().Str("repo", "daily_prices").Logger(),
	}
}

// GetRecentBars returns up to `limit` most recent bars, oldest first
func (r *PriceRepository) GetRecentBars(symbol string, limit int) ([]DailyBar, error) {
	query := `
		SELECT symbol, date, open, high, low, close, volume
		FROM daily_prices
		WHERE symbol = ?
		ORDER BY date DESC
		LIMIT ?
	`

	rows, err := r.historyDB.Query(query, symbol, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query daily prices for %s: %w", symbol, err)
	}
	defer rows.Close()

	var bars []DailyBar
	for rows.Next() {
		var b DailyBar
		if err := rows.Scan(&b.Symbol, &b.Date, &b.Open, &b.High, &b.Low, &b.Close, &b.Volume); err != nil {
			return nil, fmt.Errorf("failed to scan daily price: %w", err)
		}
		bars = append(bars, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Query is newest-first for the LIMIT; indicators want oldest-first
	for i, j := 0, len(bars)-1; i < j; i, j = i+1, j-1 {
		bars[i], bars[j] = bars[j], bars[i]
	}

	return bars, nil
}

// UpsertBar inserts or replaces one daily bar
func (r *PriceRepository) UpsertBar(b DailyBar) error {
	query := `
		INSERT INTO daily_prices (symbol, date, open, high, low, close, volume)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(symbol, date) DO UPDATE SET
			open = excluded.open,
			high = excluded.high,
			low = excluded.low,
			close = excluded.close,
			volume = excluded.volume
	`

	_, err := r.historyDB.Exec(query, b.Symbol, b.Date, b.Open, b.High, b.Low, b.Close, b.Volume)
	if err != nil {
		return fmt.Errorf("failed to upsert daily price for %s: %w", b.Symbol, err)
	}

	return nil
}
