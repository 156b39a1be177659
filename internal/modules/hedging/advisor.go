package hedging

import (
	"fmt"
	"math"
	"sort"

	"github.com/aristath/bulwark/internal/domain"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Fractions of the current exposure each archetype aims to offset.
// Hand-tuned, not optimized: candidates are a short fixed menu, and the
// estimator decides which trade-off wins.
const (
	stockTrimFraction  = 0.25
	ntmDeltaFraction   = 0.15
	shortGammaFraction = 0.50
	vegaHedgeFraction  = 0.30

	maxRecommendations = 3
)

// Advisor proposes a fixed menu of hedge archetypes for the account's
// dominant exposure symbol, costs each via the estimator, and returns the
// best-ranked subset. Single-shot and side-effect-free per call.
type Advisor struct {
	estimator *CostEstimator
	log       zerolog.Logger
}

// NewAdvisor creates a new hedge advisor
func NewAdvisor(estimator *CostEstimator, log zerolog.Logger) *Advisor {
	return &Advisor{
		estimator: estimator,
		log:       log.With().Str("service", "hedge_advisor").Logger(),
	}
}

// Recommend builds the candidate menu, discards anything that reduces no
// risk, and returns at most 3 results sorted ascending by score.
func (a *Advisor) Recommend(
	exp domain.AccountExposure,
	stocks []domain.Position,
	options []domain.OptionPosition,
) []HedgeCostResult {
	symbol, price := a.dominantSymbol(stocks, options)
	if symbol == "" {
		a.log.Info().Str("account", exp.Account).Msg("No positions, nothing to hedge")
		return nil
	}

	candidates := a.buildCandidates(exp, symbol, price)

	results := make([]HedgeCostResult, 0, len(candidates))
	for _, candidate := range candidates {
		result := a.estimator.Estimate(exp, candidate)

		if result.RiskReduction == 0 {
			a.log.Debug().
				Str("label", candidate.Label).
				Msg("Discarding candidate with no risk reduction")
			continue
		}

		results = append(results, result)
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Score < results[j].Score
	})

	if len(results) > maxRecommendations {
		results = results[:maxRecommendations]
	}

	return results
}

// dominantSymbol picks the symbol carrying the largest absolute delta
// contribution, checking stock legs and option underlyings together.
func (a *Advisor) dominantSymbol(stocks []domain.Position, options []domain.OptionPosition) (string, float64) {
	deltaBySymbol := make(map[string]float64)
	priceBySymbol := make(map[string]float64)

	for _, pos := range stocks {
		deltaBySymbol[pos.Symbol] += pos.Quantity * pos.LastPrice
		priceBySymbol[pos.Symbol] = pos.LastPrice
	}

	for _, opt := range options {
		scale := opt.Quantity * opt.Contract.Multiplier * opt.UnderlyingPrice
		deltaBySymbol[opt.Contract.Underlying] += opt.Greeks.Delta * scale
		priceBySymbol[opt.Contract.Underlying] = opt.UnderlyingPrice
	}

	var dominant string
	var best float64
	for symbol, delta := range deltaBySymbol {
		if math.Abs(delta) > best {
			best = math.Abs(delta)
			dominant = symbol
		}
	}

	return dominant, priceBySymbol[dominant]
}

func (a *Advisor) buildCandidates(exp domain.AccountExposure, symbol string, price float64) []HedgeCandidate {
	var candidates []HedgeCandidate

	// 1. Trim stock exposure: the cheapest way to cut delta
	if exp.TotalDeltaUSD != 0 && price > 0 {
		deltaImpact := -stockTrimFraction * exp.TotalDeltaUSD
		side := domain.SideSell
		if deltaImpact > 0 {
			side = domain.SideBuy
		}
		qty := math.Abs(deltaImpact) / price

		candidates = append(candidates, HedgeCandidate{
			ID:         uuid.New().String(),
			Symbol:     symbol,
			Instrument: InstrumentStock,
			Label:      fmt.Sprintf("Trim %s stock exposure", symbol),
			Rationale:  "Offsets a quarter of net delta with a single stock trade",
			Actions: []HedgeAction{{
				Instrument:  InstrumentStock,
				Side:        side,
				Quantity:    qty,
				DeltaUSD:    deltaImpact,
				NotionalUSD: math.Abs(deltaImpact),
			}},
		})
	}

	// 2. Near-the-money options against delta: smaller delta cut, adds long
	// gamma/vega as a tail cushion
	if exp.TotalDeltaUSD != 0 && price > 0 {
		deltaImpact := -ntmDeltaFraction * exp.TotalDeltaUSD
		contracts := math.Ceil(math.Abs(deltaImpact) / (0.5 * 100 * price))
		premium := 0.03 * price * 100 * contracts // rough NTM premium estimate

		candidates = append(candidates, HedgeCandidate{
			ID:         uuid.New().String(),
			Symbol:     symbol,
			Instrument: InstrumentOption,
			Label:      fmt.Sprintf("Buy near-the-money %s options", symbol),
			Rationale:  "Cuts delta while adding long gamma and vega",
			Actions: []HedgeAction{{
				Instrument:  InstrumentOption,
				Side:        domain.SideBuy,
				Quantity:    contracts,
				TenorDays:   30,
				Moneyness:   1.0,
				DeltaUSD:    deltaImpact,
				GammaUSD:    -0.25 * exp.TotalGammaUSD,
				VegaUSD:     -0.20 * exp.TotalVegaUSD,
				CashUSD:     premium,
				NotionalUSD: premium,
			}},
		})
	}

	// 3. Short-dated gamma repair: offset near-expiry gamma where pin risk
	// concentrates
	if exp.ShortDTEGammaUSD != 0 && price > 0 {
		gammaImpact := -shortGammaFraction * exp.ShortDTEGammaUSD
		contracts := math.Max(1, math.Ceil(math.Abs(gammaImpact)/(0.02*100*price)))
		premium := 0.01 * price * 100 * contracts

		candidates = append(candidates, HedgeCandidate{
			ID:         uuid.New().String(),
			Symbol:     symbol,
			Instrument: InstrumentOption,
			Label:      fmt.Sprintf("Offset short-dated %s gamma", symbol),
			Rationale:  "Halves near-expiry gamma, the dominant pin-risk driver",
			Actions: []HedgeAction{{
				Instrument:  InstrumentOption,
				Side:        domain.SideBuy,
				Quantity:    contracts,
				TenorDays:   5,
				Moneyness:   1.0,
				GammaUSD:    gammaImpact,
				ThetaUSD:    -0.10 * math.Abs(exp.ShortDTEThetaUSD),
				CashUSD:     premium,
				NotionalUSD: premium,
			}},
		})
	}

	// 4. Vega hedge with longer-dated options
	if exp.TotalVegaUSD != 0 && price > 0 {
		vegaImpact := -vegaHedgeFraction * exp.TotalVegaUSD
		contracts := math.Max(1, math.Ceil(math.Abs(vegaImpact)/(0.15*100*price)))
		premium := 0.05 * price * 100 * contracts

		candidates = append(candidates, HedgeCandidate{
			ID:         uuid.New().String(),
			Symbol:     symbol,
			Instrument: InstrumentOption,
			Label:      fmt.Sprintf("Hedge %s vega with longer-dated options", symbol),
			Rationale:  "Offsets volatility exposure without touching delta",
			Actions: []HedgeAction{{
				Instrument:  InstrumentOption,
				Side:        domain.SideBuy,
				Quantity:    contracts,
				TenorDays:   90,
				Moneyness:   1.05,
				VegaUSD:     vegaImpact,
				CashUSD:     premium,
				NotionalUSD: premium,
			}},
		})
	}

	return candidates
}
