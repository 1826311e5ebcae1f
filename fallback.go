package paycheck

import (
	"context"
	"fmt"
	"sort"
)

// FallbackStrategy is the deterministic rule used when the remote model is
// unavailable or returns an invalid recommendation.
//
// It measures each asset class's percentage-point deviation from its target
// allocation and splits the deposit proportionally across the under-weighted
// classes; within a class it buys the candidate ticker with the strongest
// recent return, breaking ties alphabetically. Purchases are whole shares,
// the remainder stays in cash.
type FallbackStrategy struct {
	cfg *Config
}

// NewFallbackStrategy creates the rebalancing strategy.
func NewFallbackStrategy(cfg *Config) *FallbackStrategy {
	return &FallbackStrategy{cfg: cfg}
}

// Name identifies the strategy in recommendation sources.
func (s *FallbackStrategy) Name() string { return "rebalance" }

// Generate produces a buy-only recommendation allocating the deposit. The
// sum of the trade amounts never exceeds the deposit.
func (s *FallbackStrategy) Generate(_ context.Context, p *Portfolio, snapshot MarketSnapshot, deposit Money) (Recommendation, error) {
	breakdown, err := p.Breakdown(s.cfg, snapshot)
	if err != nil {
		return Recommendation{}, err
	}
	total := M(0, s.cfg.Currency)
	for _, value := range breakdown {
		total = total.Add(value)
	}

	weights := s.weights(breakdown, total)

	classes := s.cfg.AssetClasses()
	trades := make([]Trade, 0, len(classes))
	for _, class := range classes {
		weight := weights[class]
		if weight <= 0 {
			continue
		}
		budget := deposit.MulPercent(Percent(weight * 100))

		ticker, quote, ok := s.bestCandidate(class, snapshot)
		if !ok {
			continue
		}
		shares := budget.DivPrice(quote.Price).Floor()
		if !shares.IsPositive() {
			continue
		}
		amount := quote.Price.Mul(shares)

		current := breakdown[class].PercentOf(total)
		target := s.cfg.TargetAllocation[class]
		trades = append(trades, Trade{
			Action: Buy,
			Ticker: ticker,
			Shares: shares,
			Amount: amount,
			Rationale: fmt.Sprintf("%s at %s vs %s target; %s has the strongest recent return (%s)",
				class, current, target, ticker, quote.Change.SignedString()),
		})
	}

	if len(trades) == 0 {
		return Recommendation{}, fmt.Errorf("deposit %s buys no whole share of any candidate: %w", deposit, ErrRecommendationFailed)
	}

	return Recommendation{
		Analysis: fmt.Sprintf("Rebalancing %s toward the target allocation across %d under-weighted classes.",
			deposit, len(trades)),
		Trades: trades,
	}, nil
}

// weights returns each class's share of the deposit, in [0,1], summing to 1.
// Classes at or above target get nothing; when the portfolio is empty or
// perfectly balanced the target allocation itself is used.
func (s *FallbackStrategy) weights(breakdown map[AssetClass]Money, total Money) map[AssetClass]float64 {
	weights := make(map[AssetClass]float64, len(s.cfg.TargetAllocation))

	if total.IsZero() {
		for class, target := range s.cfg.TargetAllocation {
			weights[class] = float64(target) / 100
		}
		return weights
	}

	var underweight float64
	for class, target := range s.cfg.TargetAllocation {
		current := breakdown[class].PercentOf(total)
		if shortfall := float64(target - current); shortfall > 0 {
			weights[class] = shortfall
			underweight += shortfall
		}
	}
	if underweight == 0 {
		// Perfectly balanced: invest the deposit along the target split.
		for class, target := range s.cfg.TargetAllocation {
			weights[class] = float64(target) / 100
		}
		return weights
	}
	for class := range weights {
		weights[class] /= underweight
	}
	return weights
}

// bestCandidate picks the quoted candidate of a class with the strongest
// recent return. Candidates are scanned in alphabetical order so that ties
// resolve to the alphabetically first ticker.
func (s *FallbackStrategy) bestCandidate(class AssetClass, snapshot MarketSnapshot) (string, Quote, bool) {
	candidates := append([]string(nil), s.cfg.Candidates[class]...)
	sort.Strings(candidates)

	var best string
	var bestQuote Quote
	found := false
	for _, ticker := range candidates {
		quote, ok := snapshot.Quote(ticker)
		if !ok {
			continue
		}
		if !found || quote.Change > bestQuote.Change {
			best, bestQuote, found = ticker, quote, true
		}
	}
	return best, bestQuote, found
}
