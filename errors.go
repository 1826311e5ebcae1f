package paycheck

import "errors"

// The four failure kinds surfaced to the user. Callers match them with
// errors.Is; everything else wraps one of these with context.
var (
	// ErrDataUnavailable reports that the market feed is unreachable or
	// returned an incomplete snapshot. No partial snapshot is ever returned.
	ErrDataUnavailable = errors.New("market data unavailable")

	// ErrRecommendationFailed reports that neither the remote model nor the
	// fallback rule could produce a valid allocation.
	ErrRecommendationFailed = errors.New("no recommendation could be produced")

	// ErrInvalidExecution reports that applying a recommendation would drive
	// cash or a held quantity negative. The portfolio is left unchanged.
	ErrInvalidExecution = errors.New("invalid execution")

	// ErrInvalidAmount reports a non-positive deposit.
	ErrInvalidAmount = errors.New("invalid amount")
)
