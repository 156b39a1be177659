package scoring

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aristath/bulwark/internal/cache"
	"github.com/aristath/bulwark/internal/domain"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockTechnicalProvider returns canned signals or an error
type mockTechnicalProvider struct {
	signals *domain.TechnicalSignals
	err     error
	calls   int
}

func (m *mockTechnicalProvider) GetSignals(_ context.Context, _ string) (*domain.TechnicalSignals, error) {
	m.calls++
	return m.signals, m.err
}

type mockFundamentalProvider struct {
	signals *domain.FundamentalSignals
	err     error
}

func (m *mockFundamentalProvider) GetSignals(_ context.Context, _ string) (*domain.FundamentalSignals, error) {
	return m.signals, m.err
}

func newTestService(t *testing.T, tech *mockTechnicalProvider, fund *mockFundamentalProvider) *Service {
	t.Helper()

	repo := NewScoreRepository(newTestDB(t), zerolog.Nop())
	svc := NewService(tech, fund, NewScorer(), repo, cache.NewMemory(), 5*time.Minute, zerolog.Nop())
	svc.now = func() time.Time { return time.Date(2026, 4, 1, 9, 30, 0, 0, time.UTC) }

	return svc
}

func TestScorePositionUsesProviders(t *testing.T) {
	tech := &mockTechnicalProvider{signals: &domain.TechnicalSignals{
		Symbol:         "AAPL",
		TrendDirection: "up",
		TrendStrength:  1.0,
		MACD:           &domain.MACDReading{Status: domain.StatusBullish},
		LastPrice:      150,
	}}
	fund := &mockFundamentalProvider{signals: &domain.FundamentalSignals{Symbol: "AAPL", Overall: 80}}

	svc := newTestService(t, tech, fund)

	score, err := svc.ScorePosition(context.Background(), "primary", "AAPL", 0)
	require.NoError(t, err)

	assert.Equal(t, 80.0, score.TechnicalScore)
	assert.Equal(t, 80.0, score.FundamentalScore)
	assert.Equal(t, 150.0, score.Price) // fell back to the provider's last price
}

func TestScorePositionProviderFailureDefaultsNeutral(t *testing.T) {
	tech := &mockTechnicalProvider{err: errors.New("feed down")}
	fund := &mockFundamentalProvider{err: errors.New("feed down")}

	svc := newTestService(t, tech, fund)

	score, err := svc.ScorePosition(context.Background(), "primary", "AAPL", 100)
	require.NoError(t, err)

	assert.Equal(t, 50.0, score.TechnicalScore)
	assert.Equal(t, 50.0, score.FundamentalScore)
	assert.Equal(t, 50.0, score.SentimentScore)
}

func TestScorePositionCachesWithinTTL(t *testing.T) {
	tech := &mockTechnicalProvider{signals: &domain.TechnicalSignals{Symbol: "AAPL", LastPrice: 150}}
	fund := &mockFundamentalProvider{signals: &domain.FundamentalSignals{Symbol: "AAPL", Overall: 70}}

	svc := newTestService(t, tech, fund)

	first, err := svc.ScorePosition(context.Background(), "primary", "AAPL", 0)
	require.NoError(t, err)

	second, err := svc.ScorePosition(context.Background(), "primary", "AAPL", 0)
	require.NoError(t, err)

	assert.Equal(t, 1, tech.calls, "second call must be served from cache")
	assert.Equal(t, first.OverallScore, second.OverallScore)
	assert.Equal(t, first.RiskTier, second.RiskTier)
	assert.Equal(t, first.Recommendation, second.Recommendation)
}

func TestScorePositionPersists(t *testing.T) {
	tech := &mockTechnicalProvider{signals: &domain.TechnicalSignals{Symbol: "AAPL", LastPrice: 150}}
	fund := &mockFundamentalProvider{signals: &domain.FundamentalSignals{Symbol: "AAPL", Overall: 70}}

	svc := newTestService(t, tech, fund)

	_, err := svc.ScorePosition(context.Background(), "primary", "AAPL", 0)
	require.NoError(t, err)

	stored, err := svc.GetLatest("primary", "AAPL")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "2026-04-01", stored.ScoreDate)
}
