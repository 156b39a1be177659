package technical

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func newTestRepo(t *testing.T) *PriceRepository {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1) // in-memory DB lives in a single connection
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(`
		CREATE TABLE daily_prices (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			symbol TEXT NOT NULL,
			date TEXT NOT NULL,
			open REAL NOT NULL,
			high REAL NOT NULL,
			low REAL NOT NULL,
			close REAL NOT NULL,
			volume REAL NOT NULL DEFAULT 0,
			UNIQUE(symbol, date)
		)
	`)
	require.NoError(t, err)

	return NewPriceRepository(db, zerolog.Nop())
}

// seedTrend inserts n bars of a steady uptrend with a sine wiggle so the
// indicators have realistic variation to chew on
func seedTrend(t *testing.T, repo *PriceRepository, symbol string, n int, slope float64) {
	t.Helper()

	for i := 0; i < n; i++ {
		price := 100 + slope*float64(i) + 2*math.Sin(float64(i)/3)
		bar := DailyBar{
			Symbol: symbol,
			Date:   fmt.Sprintf("2026-01-%02d", i+1), // lexicographic order is all that matters
			Open:   price - 0.5,
			High:   price + 1,
			Low:    price - 1,
			Close:  price,
			Volume: 1_000_000,
		}
		require.NoError(t, repo.UpsertBar(bar))
	}
}

func TestGetRecentBarsOldestFirst(t *testing.T) {
	repo := newTestRepo(t)
	seedTrend(t, repo, "AAPL", 10, 1.0)

	bars, err := repo.GetRecentBars("AAPL", 5)
	require.NoError(t, err)
	require.Len(t, bars, 5)

	for i := 1; i < len(bars); i++ {
		assert.Less(t, bars[i-1].Date, bars[i].Date)
	}
	assert.Equal(t, "2026-01-10", bars[4].Date)
}

func TestUpsertBarReplaces(t *testing.T) {
	repo := newTestRepo(t)

	bar := DailyBar{Symbol: "AAPL", Date: "2026-01-05", Open: 1, High: 2, Low: 0.5, Close: 1.5, Volume: 10}
	require.NoError(t, repo.UpsertBar(bar))

	bar.Close = 1.8
	require.NoError(t, repo.UpsertBar(bar))

	bars, err := repo.GetRecentBars("AAPL", 10)
	require.NoError(t, err)
	require.Len(t, bars, 1)
	assert.Equal(t, 1.8, bars[0].Close)
}

func TestGetSignalsUptrend(t *testing.T) {
	repo := newTestRepo(t)
	seedTrend(t, repo, "AAPL", 80, 0.8)

	svc := NewService(repo, zerolog.Nop())

	signals, err := svc.GetSignals(context.Background(), "AAPL")
	require.NoError(t, err)

	assert.Equal(t, "up", signals.TrendDirection)
	assert.Greater(t, signals.TrendStrength, 0.0)
	require.NotNil(t, signals.RSI)
	require.NotNil(t, signals.MACD)
	require.NotNil(t, signals.BollingerPosition)
	require.NotNil(t, signals.VolumeRatio)
	assert.Greater(t, signals.LastPrice, 100.0)
}

func TestGetSignalsDowntrend(t *testing.T) {
	repo := newTestRepo(t)
	seedTrend(t, repo, "XYZ", 80, -0.8)

	svc := NewService(repo, zerolog.Nop())

	signals, err := svc.GetSignals(context.Background(), "XYZ")
	require.NoError(t, err)

	assert.Equal(t, "down", signals.TrendDirection)
}

func TestGetSignalsShortHistoryLeavesIndicatorsNil(t *testing.T) {
	repo := newTestRepo(t)
	seedTrend(t, repo, "NEW", 10, 0.5)

	svc := NewService(repo, zerolog.Nop())

	signals, err := svc.GetSignals(context.Background(), "NEW")
	require.NoError(t, err)

	// 10 bars: not enough for MACD(12,26,9) or the volume baseline
	assert.Nil(t, signals.MACD)
	assert.Nil(t, signals.VolumeRatio)
	assert.Equal(t, "sideways", signals.TrendDirection)
	assert.Greater(t, signals.LastPrice, 0.0)
}

func TestGetSignalsUnknownSymbol(t *testing.T) {
	repo := newTestRepo(t)
	svc := NewService(repo, zerolog.Nop())

	_, err := svc.GetSignals(context.Background(), "NOPE")
	assert.Error(t, err)
}

func TestRSIStatusThresholds(t *testing.T) {
	assert.Equal(t, "OVERSOLD", string(rsiStatus(25)))
	assert.Equal(t, "NEUTRAL", string(rsiStatus(50)))
	assert.Equal(t, "OVERBOUGHT", string(rsiStatus(75)))
}
