package scoring

import (
	"database/sql"
	"testing"
	"time"

	"github.com/aristath/bulwark/internal/domain"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1) // in-memory DB lives in a single connection
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(`
		CREATE TABLE position_scores (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			account TEXT NOT NULL,
			symbol TEXT NOT NULL,
			score_date TEXT NOT NULL,
			technical_score REAL NOT NULL,
			fundamental_score REAL NOT NULL,
			sentiment_score REAL NOT NULL,
			overall_score REAL NOT NULL,
			risk_tier TEXT NOT NULL,
			recommendation TEXT NOT NULL,
			target_weight REAL NOT NULL,
			stop_loss REAL NOT NULL,
			take_profit REAL NOT NULL,
			price REAL NOT NULL,
			created_at TEXT NOT NULL,
			UNIQUE(account, symbol, score_date)
		)
	`)
	require.NoError(t, err)

	return db
}

func sampleScore(symbol, date string) PositionScore {
	return PositionScore{
		Account:          "primary",
		Symbol:           symbol,
		ScoreDate:        date,
		TechnicalScore:   70,
		FundamentalScore: 60,
		SentimentScore:   55,
		OverallScore:     63,
		RiskTier:         domain.TierMedium,
		Recommendation:   domain.RecHold,
		TargetWeight:     0.345,
		StopLoss:         90,
		TakeProfit:       120,
		Price:            100,
		CreatedAt:        time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestUpsertAndGetLatest(t *testing.T) {
	repo := NewScoreRepository(newTestDB(t), zerolog.Nop())

	require.NoError(t, repo.Upsert(sampleScore("AAPL", "2026-04-01")))

	got, err := repo.GetLatest("primary", "AAPL")
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.Equal(t, 63.0, got.OverallScore)
	assert.Equal(t, domain.TierMedium, got.RiskTier)
	assert.Equal(t, domain.RecHold, got.Recommendation)
	assert.Equal(t, time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC), got.CreatedAt)
}

func TestUpsertSameDayReplaces(t *testing.T) {
	repo := NewScoreRepository(newTestDB(t), zerolog.Nop())

	s := sampleScore("AAPL", "2026-04-01")
	require.NoError(t, repo.Upsert(s))

	s.OverallScore = 81
	s.RiskTier = domain.TierLow
	require.NoError(t, repo.Upsert(s))

	rows, err := repo.GetByDate("primary", "2026-04-01")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 81.0, rows[0].OverallScore)
	assert.Equal(t, domain.TierLow, rows[0].RiskTier)
}

func TestGetLatestPrefersNewerDate(t *testing.T) {
	repo := NewScoreRepository(newTestDB(t), zerolog.Nop())

	older := sampleScore("AAPL", "2026-03-30")
	older.OverallScore = 40
	newer := sampleScore("AAPL", "2026-04-01")

	require.NoError(t, repo.Upsert(older))
	require.NoError(t, repo.Upsert(newer))

	got, err := repo.GetLatest("primary", "AAPL")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "2026-04-01", got.ScoreDate)
	assert.Equal(t, 63.0, got.OverallScore)
}

func TestGetLatestMissingReturnsNil(t *testing.T) {
	repo := NewScoreRepository(newTestDB(t), zerolog.Nop())

	got, err := repo.GetLatest("primary", "NOPE")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestGetByDateOrdersBySymbol(t *testing.T) {
	repo := NewScoreRepository(newTestDB(t), zerolog.Nop())

	require.NoError(t, repo.Upsert(sampleScore("TSLA", "2026-04-01")))
	require.NoError(t, repo.Upsert(sampleScore("AAPL", "2026-04-01")))

	rows, err := repo.GetByDate("primary", "2026-04-01")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "AAPL", rows[0].Symbol)
	assert.Equal(t, "TSLA", rows[1].Symbol)
}
