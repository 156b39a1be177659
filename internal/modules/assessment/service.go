// Package assessment fans scoring requests out over many symbols with
// bounded concurrency, collecting each symbol's outcome independently.
package assessment

import (
	"context"
	"sync"

	"github.com/aristath/bulwark/internal/modules/scoring"
	"github.com/rs/zerolog"
	"golang.org/x/sync/semaphore"
)

// BatchItem is one symbol in a batch scoring request.
// Price 0 means "use the provider's last price".
type BatchItem struct {
	Symbol string  `json:"symbol"`
	Price  float64 `json:"price,omitempty"`
}

// BatchResult collects per-symbol outcomes. A failed symbol appears in
// Errors and never aborts the rest of the batch.
type BatchResult struct {
	Scores []scoring.PositionScore `json:"scores"`
	Errors map[string]string       `json:"errors,omitempty"`
}

// Service runs bulk scoring with a counting semaphore sized from config,
// so batches respect upstream provider rate limits.
type Service struct {
	scoring     *scoring.Service
	concurrency int64
	log         zerolog.Logger
}

// NewService creates a new assessment service
func NewService(scoringService *scoring.Service, concurrency int, log zerolog.Logger) *Service {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Service{
		scoring:     scoringService,
		concurrency: int64(concurrency),
		log:         log.With().Str("service", "assessment").Logger(),
	}
}

// ScoreBatch scores every item, at most `concurrency` in flight at once.
// Result order follows input order; failed symbols are skipped in Scores
// and reported in Errors.
func (s *Service) ScoreBatch(ctx context.Context, account string, items []BatchItem) BatchResult {
	sem := semaphore.NewWeighted(s.concurrency)

	type outcome struct {
		score scoring.PositionScore
		err   error
	}
	outcomes := make([]outcome, len(items))

	var wg sync.WaitGroup
	for i, item := range items {
		if err := sem.Acquire(ctx, 1); err != nil {
			outcomes[i] = outcome{err: err}
			continue
		}

		wg.Add(1)
		go func(i int, item BatchItem) {
			defer wg.Done()
			defer sem.Release(1)

			score, err := s.scoring.ScorePosition(ctx, account, item.Symbol, item.Price)
			outcomes[i] = outcome{score: score, err: err}
		}(i, item)
	}
	wg.Wait()

	result := BatchResult{Scores: make([]scoring.PositionScore, 0, len(items))}
	for i, out := range outcomes {
		if out.err != nil {
			if result.Errors == nil {
				result.Errors = make(map[string]string)
			}
			result.Errors[items[i].Symbol] = out.err.Error()
			s.log.Warn().
				Err(out.err).
				Str("symbol", items[i].Symbol).
				Msg("Batch scoring failed for symbol")
			continue
		}
		result.Scores = append(result.Scores, out.score)
	}

	s.log.Info().
		Str("account", account).
		Int("requested", len(items)).
		Int("scored", len(result.Scores)).
		Int("failed", len(result.Errors)).
		Msg("Batch scoring complete")

	return result
}
