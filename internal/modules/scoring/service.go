package scoring

import (
	"context"
	"time"

	"github.com/aristath/bulwark/internal/domain"
	"github.com/rs/zerolog"
)

// Service orchestrates a scoring call: short-TTL cache read, signal fetch,
// pure scoring, best-effort persistence. Provider and persistence failures
// degrade to neutral defaults instead of failing the caller.
type Service struct {
	technical   domain.TechnicalSignalProvider
	fundamental domain.FundamentalSignalProvider
	scorer      *Scorer
	repo        *ScoreRepository
	cache       domain.Cache
	cacheTTL    time.Duration
	log         zerolog.Logger

	now func() time.Time
}

// NewService creates a new scoring service
func NewService(
	technical domain.TechnicalSignalProvider,
	fundamental domain.FundamentalSignalProvider,
	scorer *Scorer,
	repo *ScoreRepository,
	cache domain.Cache,
	cacheTTL time.Duration,
	log zerolog.Logger,
) *Service {
	return &Service{
		technical:   technical,
		fundamental: fundamental,
		scorer:      scorer,
		repo:        repo,
		cache:       cache,
		cacheTTL:    cacheTTL,
		log:         log.With().Str("service", "scoring").Logger(),
		now:         time.Now,
	}
}

// ScorePosition scores one symbol. A price of 0 means "use the technical
// provider's last price". Identical inputs within the cache TTL return the
// cached score unchanged.
func (s *Service) ScorePosition(ctx context.Context, account, symbol string, price float64) (PositionScore, error) {
	cacheKey := "score:" + account + ":" + symbol

	var cached PositionScore
	if hit, err := s.cache.Get(cacheKey, &cached); err != nil {
		s.log.Warn().Err(err).Str("symbol", symbol).Msg("Score cache read failed, recomputing")
	} else if hit {
		return cached, nil
	}

	req := ScoreRequest{Symbol: symbol, Price: price}

	if signals, err := s.technical.GetSignals(ctx, symbol); err != nil {
		s.log.Warn().Err(err).Str("symbol", symbol).Msg("Technical signals unavailable, scoring neutral")
	} else {
		req.Technical = signals
		if req.Price <= 0 {
			req.Price = signals.LastPrice
		}
	}

	if signals, err := s.fundamental.GetSignals(ctx, symbol); err != nil {
		s.log.Warn().Err(err).Str("symbol", symbol).Msg("Fundamental signals unavailable, scoring neutral")
	} else {
		req.Fundamental = signals
	}

	score := s.scorer.Score(account, req, s.now())

	if err := s.repo.Upsert(score); err != nil {
		s.log.Warn().Err(err).Str("symbol", symbol).Msg("Failed to persist position score")
	}

	if err := s.cache.Set(cacheKey, score, s.cacheTTL); err != nil {
		s.log.Warn().Err(err).Str("symbol", symbol).Msg("Failed to cache position score")
	}

	s.log.Debug().
		Str("symbol", symbol).
		Float64("overall", score.OverallScore).
		Str("tier", string(score.RiskTier)).
		Str("recommendation", string(score.Recommendation)).
		Msg("Position scored")

	return score, nil
}

// GetLatest returns the most recent persisted score for a symbol
func (s *Service) GetLatest(account, symbol string) (*PositionScore, error) {
	return s.repo.GetLatest(account, symbol)
}

// GetByDate returns all persisted scores for an account on one date
func (s *Service) GetByDate(account, scoreDate string) ([]PositionScore, error) {
	return s.repo.GetByDate(account, scoreDate)
}
