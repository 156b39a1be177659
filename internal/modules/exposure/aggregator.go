// Package exposure converts a raw position snapshot into portfolio-level
// risk exposure figures.
package exposure

import (
	"time"

	"github.com/aristath/bulwark/internal/domain"
	"github.com/rs/zerolog"
)

// Aggregator sums option Greeks and stock deltas into an AccountExposure.
// Aggregation is pure: invalid legs are excluded and logged, never fatal.
type Aggregator struct {
	shortDTEDays int
	log          zerolog.Logger
}

// NewAggregator creates a new exposure aggregator.
// shortDTEDays is the days-to-expiry threshold below which option legs also
// count toward the short-dated gamma/theta subtotals.
func NewAggregator(shortDTEDays int, log zerolog.Logger) *Aggregator {
	return &Aggregator{
		shortDTEDays: shortDTEDays,
		log:          log.With().Str("service", "exposure").Logger(),
	}
}

// Aggregate computes the account's exposure from one position snapshot.
//
// For each Greek G the option contribution is
//
//	qty × G × multiplier × underlying_price
//
// so delta becomes a notional figure and gamma/vega/theta stay in their native
// per-contract units scaled to dollars. Stock legs contribute qty × price to
// delta notional only. All figures are raw dollars; normalization by equity
// happens at scoring time.
func (a *Aggregator) Aggregate(
	account string,
	equity float64,
	stocks []domain.Position,
	options []domain.OptionPosition,
	asOf time.Time,
) domain.AccountExposure {
	exp := domain.AccountExposure{
		Account: account,
		Equity:  equity,
		AsOf:    asOf,
	}

	if equity <= 0 {
		a.log.Warn().
			Str("account", account).
			Float64("equity", equity).
			Msg("Non-positive equity, exposure percentages will be degenerate")
	}

	for _, pos := range stocks {
		if pos.LastPrice <= 0 {
			exp.ExcludedCount++
			a.log.Warn().
				Str("symbol", pos.Symbol).
				Float64("price", pos.LastPrice).
				Msg("Excluding stock position with invalid price")
			continue
		}

		exp.TotalDeltaUSD += pos.Quantity * pos.LastPrice
		exp.StockCount++
	}

	for _, opt := range options {
		if opt.Contract.Multiplier <= 0 || opt.UnderlyingPrice <= 0 {
			exp.ExcludedCount++
			a.log.Warn().
				Str("underlying", opt.Contract.Underlying).
				Float64("multiplier", opt.Contract.Multiplier).
				Float64("underlying_price", opt.UnderlyingPrice).
				Msg("Excluding option position with invalid multiplier or price")
			continue
		}

		scale := opt.Quantity * opt.Contract.Multiplier * opt.UnderlyingPrice

		exp.TotalDeltaUSD += opt.Greeks.Delta * scale
		exp.TotalGammaUSD += opt.Greeks.Gamma * scale
		exp.TotalVegaUSD += opt.Greeks.Vega * scale
		exp.TotalThetaUSD += opt.Greeks.Theta * scale

		if opt.DaysToExpiry(asOf) <= a.shortDTEDays {
			exp.ShortDTEGammaUSD += opt.Greeks.Gamma * scale
			exp.ShortDTEThetaUSD += opt.Greeks.Theta * scale
		}

		exp.OptionCount++
	}

	return exp
}
