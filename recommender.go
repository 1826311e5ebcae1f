package paycheck

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"
)

// Strategy produces a recommendation for investing a deposit given the
// current portfolio and a market snapshot.
type Strategy interface {
	// Name identifies the strategy; it is stamped on recommendations.
	Name() string
	Generate(ctx context.Context, p *Portfolio, snapshot MarketSnapshot, deposit Money) (Recommendation, error)
}

// Recommender turns a deposit into a validated Recommendation. It tries the
// primary (remote model) strategy when one is configured and falls back to
// the deterministic rebalancing rule when the primary fails, times out or
// returns an invalid recommendation.
type Recommender struct {
	cfg      *Config
	primary  Strategy // nil when the remote model is disabled
	fallback Strategy
}

// NewRecommender creates a recommender. primary may be nil, in which case
// every recommendation comes from the fallback rule.
func NewRecommender(cfg *Config, primary Strategy) *Recommender {
	return &Recommender{
		cfg:      cfg,
		primary:  primary,
		fallback: NewFallbackStrategy(cfg),
	}
}

// Generate produces a recommendation for the deposit. The deposit must be
// positive and the snapshot must cover the whole tracked universe; the
// returned recommendation's net outlay never exceeds the deposit.
//
// A primary strategy failure is never surfaced: it logs and falls back.
// ErrRecommendationFailed is returned only when no strategy can produce a
// valid allocation.
func (r *Recommender) Generate(ctx context.Context, p *Portfolio, snapshot MarketSnapshot, deposit Money) (Recommendation, error) {
	if !deposit.IsPositive() {
		return Recommendation{}, fmt.Errorf("deposit of %s: %w", deposit, ErrInvalidAmount)
	}
	if err := snapshot.Covers(r.cfg.Tickers); err != nil {
		return Recommendation{}, fmt.Errorf("%v: %w", err, ErrRecommendationFailed)
	}

	if r.primary != nil {
		rec, err := r.primary.Generate(ctx, p, snapshot, deposit)
		if err == nil {
			err = rec.Validate(snapshot, deposit)
		}
		if err == nil {
			return r.stamp(rec, r.primary), nil
		}
		log.Printf("%s strategy failed (%v), falling back to %s", r.primary.Name(), err, r.fallback.Name())
	}

	rec, err := r.fallback.Generate(ctx, p, snapshot, deposit)
	if err != nil {
		return Recommendation{}, wrapRecommendationFailure(err)
	}
	if err := rec.Validate(snapshot, deposit); err != nil {
		return Recommendation{}, wrapRecommendationFailure(err)
	}
	return r.stamp(rec, r.fallback), nil
}

func (r *Recommender) stamp(rec Recommendation, s Strategy) Recommendation {
	rec.ID = uuid.NewString()
	rec.Source = s.Name()
	return rec
}

func wrapRecommendationFailure(err error) error {
	if errors.Is(err, ErrRecommendationFailed) {
		return err
	}
	return fmt.Errorf("%v: %w", err, ErrRecommendationFailed)
}
