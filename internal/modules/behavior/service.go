package behavior

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/aristath/bulwark/internal/domain"
	"github.com/rs/zerolog"
)

// Service orchestrates a behavior scan: pull the fill window from the broker,
// score each traded symbol, persist the results.
type Service struct {
	broker     domain.BrokerClient
	scorer     *Scorer
	repo       *MetricsRepository
	windowDays int
	log        zerolog.Logger
}

// NewService creates a new behavior service
func NewService(broker domain.BrokerClient, scorer *Scorer, repo *MetricsRepository, windowDays int, log zerolog.Logger) *Service {
	return &Service{
		broker:     broker,
		scorer:     scorer,
		repo:       repo,
		windowDays: windowDays,
		log:        log.With().Str("service", "behavior").Logger(),
	}
}

// ScanAccount scores every symbol traded in the lookback window and upserts
// the results. A persistence failure for one symbol is logged and does not
// abort the scan.
func (s *Service) ScanAccount(ctx context.Context, account string) ([]SymbolBehaviorMetrics, error) {
	to := time.Now().UTC()
	from := to.AddDate(0, 0, -s.windowDays)

	fills, err := s.broker.GetFills(ctx, account, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch fills for %s: %w", account, err)
	}

	bySymbol := groupBySymbol(fills)

	symbols := make([]string, 0, len(bySymbol))
	for symbol := range bySymbol {
		symbols = append(symbols, symbol)
	}
	sort.Strings(symbols)

	results := make([]SymbolBehaviorMetrics, 0, len(symbols))
	for _, symbol := range symbols {
		m := s.scorer.Score(account, symbol, bySymbol[symbol], s.windowDays)

		if err := s.repo.Upsert(m); err != nil {
			s.log.Warn().
				Err(err).
				Str("symbol", symbol).
				Msg("Failed to persist behavior metrics, continuing scan")
		}

		results = append(results, m)
	}

	s.log.Info().
		Str("account", account).
		Int("symbols", len(results)).
		Int("fills", len(fills)).
		Int("window_days", s.windowDays).
		Msg("Behavior scan complete")

	return results, nil
}

// GetScores returns the persisted metrics for an account's default window
func (s *Service) GetScores(account string) ([]SymbolBehaviorMetrics, error) {
	return s.repo.GetByAccount(account, s.windowDays)
}

// groupBySymbol splits fills per symbol, preserving chronological order.
// Fills from the broker are already time-ordered; a stable sort guards
// against clients that interleave pages.
func groupBySymbol(fills []domain.Fill) map[string][]domain.Fill {
	bySymbol := make(map[string][]domain.Fill)
	for _, f := range fills {
		bySymbol[f.Symbol] = append(bySymbol[f.Symbol], f)
	}

	for symbol := range bySymbol {
		list := bySymbol[symbol]
		sort.SliceStable(list, func(i, j int) bool {
			return list[i].ExecutedAt.Before(list[j].ExecutedAt)
		})
		bySymbol[symbol] = list
	}

	return bySymbol
}
