package paycheck

import (
	"fmt"
)

// Action is the side of a suggested trade.
type Action string

const (
	Buy  Action = "BUY"
	Sell Action = "SELL"
)

// ParseAction parses the wire form of an action.
func ParseAction(s string) (Action, error) {
	switch Action(s) {
	case Buy:
		return Buy, nil
	case Sell:
		return Sell, nil
	default:
		return "", fmt.Errorf("unknown action %q", s)
	}
}

// Trade is one suggested buy or sell: a whole number of shares, the cash it
// moves, and the rationale behind it.
type Trade struct {
	Action    Action
	Ticker    string
	Shares    Quantity
	Amount    Money
	Rationale string
	Priority  string
}

// MarshalJSON implements the json.Marshaler interface for Trade.
func (t Trade) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("action", t.Action)
	w.Append("ticker", t.Ticker)
	w.Append("shares", t.Shares)
	w.Append("amount", t.Amount)
	w.Optional("rationale", t.Rationale)
	w.Optional("priority", t.Priority)
	return w.MarshalJSON()
}

// Recommendation is an ordered set of suggested trades produced for one
// deposit. It is immutable once produced and consumed at most once by
// Portfolio.Apply.
type Recommendation struct {
	ID             string // assigned by the Recommender
	Source         string // name of the strategy that produced it
	Analysis       string
	Trades         []Trade
	RiskAssessment string
	MarketTiming   string
}

// MarshalJSON implements the json.Marshaler interface for Recommendation.
func (r Recommendation) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Optional("id", r.ID)
	w.Optional("source", r.Source)
	w.Optional("analysis", r.Analysis)
	w.Append("trades", r.Trades)
	w.Optional("riskAssessment", r.RiskAssessment)
	w.Optional("marketTiming", r.MarketTiming)
	return w.MarshalJSON()
}

// TotalBuys returns the cash moved out by the buy side.
func (r Recommendation) TotalBuys() Money {
	var total Money
	for _, t := range r.Trades {
		if t.Action == Buy {
			total = total.Add(t.Amount)
		}
	}
	return total
}

// TotalSells returns the cash freed by the sell side.
func (r Recommendation) TotalSells() Money {
	var total Money
	for _, t := range r.Trades {
		if t.Action == Sell {
			total = total.Add(t.Amount)
		}
	}
	return total
}

// NetOutlay is the cash the recommendation consumes: buys minus sells.
func (r Recommendation) NetOutlay() Money {
	return r.TotalBuys().Sub(r.TotalSells())
}

// Validate checks a recommendation against a snapshot and the deposit it
// was generated for: every trade names a quoted ticker with positive shares
// and amount, and the net outlay never exceeds the deposit.
func (r Recommendation) Validate(snapshot MarketSnapshot, deposit Money) error {
	if len(r.Trades) == 0 {
		return fmt.Errorf("recommendation has no trades")
	}
	for i, t := range r.Trades {
		if t.Action != Buy && t.Action != Sell {
			return fmt.Errorf("trade %d: unknown action %q", i, t.Action)
		}
		if t.Ticker == "" {
			return fmt.Errorf("trade %d: ticker is missing", i)
		}
		if !snapshot.Has(t.Ticker) {
			return fmt.Errorf("trade %d: no quote for %s", i, t.Ticker)
		}
		if !t.Shares.IsPositive() {
			return fmt.Errorf("trade %d: shares must be positive, got %s", i, t.Shares)
		}
		if !t.Amount.IsPositive() {
			return fmt.Errorf("trade %d: amount must be positive, got %s", i, t.Amount)
		}
	}
	if outlay := r.NetOutlay(); outlay.GreaterThan(deposit) {
		return fmt.Errorf("net outlay %s exceeds deposit %s", outlay, deposit)
	}
	return nil
}
