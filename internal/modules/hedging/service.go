package hedging

import (
	"context"
	"fmt"
	"time"

	"github.com/aristath/bulwark/internal/domain"
	"github.com/aristath/bulwark/internal/modules/exposure"
	"github.com/rs/zerolog"
)

// Service ties the broker feed, exposure aggregation, and hedge advisory
// together: snapshot → aggregate → advise.
type Service struct {
	broker     domain.BrokerClient
	aggregator *exposure.Aggregator
	advisor    *Advisor
	log        zerolog.Logger
}

// NewService creates a new hedging service
func NewService(broker domain.BrokerClient, aggregator *exposure.Aggregator, advisor *Advisor, log zerolog.Logger) *Service {
	return &Service{
		broker:     broker,
		aggregator: aggregator,
		advisor:    advisor,
		log:        log.With().Str("service", "hedging").Logger(),
	}
}

// GetAccountExposure snapshots the account and aggregates its exposure
func (s *Service) GetAccountExposure(ctx context.Context, account string) (domain.AccountExposure, error) {
	equity, stocks, options, err := s.snapshot(ctx, account)
	if err != nil {
		return domain.AccountExposure{}, err
	}

	return s.aggregator.Aggregate(account, equity, stocks, options, time.Now().UTC()), nil
}

// RecommendHedges returns the top-ranked hedge candidates for an account,
// at most 3, sorted ascending by cost per unit of risk reduced.
func (s *Service) RecommendHedges(ctx context.Context, account string) ([]HedgeCostResult, error) {
	equity, stocks, options, err := s.snapshot(ctx, account)
	if err != nil {
		return nil, err
	}

	exp := s.aggregator.Aggregate(account, equity, stocks, options, time.Now().UTC())
	results := s.advisor.Recommend(exp, stocks, options)

	riskBefore := 0.0
	if len(results) > 0 {
		riskBefore = results[0].RiskBefore
	}

	s.log.Info().
		Str("account", account).
		Int("recommendations", len(results)).
		Float64("risk_score", riskBefore).
		Msg("Hedge recommendations generated")

	return results, nil
}

func (s *Service) snapshot(ctx context.Context, account string) (float64, []domain.Position, []domain.OptionPosition, error) {
	equity, err := s.broker.GetEquity(ctx, account)
	if err != nil {
		return 0, nil, nil, fmt.Errorf("failed to fetch equity for %s: %w", account, err)
	}

	stocks, err := s.broker.ListStockPositions(ctx, account)
	if err != nil {
		return 0, nil, nil, fmt.Errorf("failed to fetch stock positions for %s: %w", account, err)
	}

	options, err := s.broker.ListOptionPositions(ctx, account)
	if err != nil {
		return 0, nil, nil, fmt.Errorf("failed to fetch option positions for %s: %w", account, err)
	}

	return equity, stocks, options, nil
}
