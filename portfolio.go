package paycheck

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
)

// ExecutionLogEntry records one applied recommendation together with the
// portfolio state that resulted from it.
type ExecutionLogEntry struct {
	ID             string
	Time           time.Time
	Recommendation Recommendation
	Cash           Money
	Holdings       map[string]Quantity
}

// MarshalJSON implements the json.Marshaler interface for ExecutionLogEntry.
func (e ExecutionLogEntry) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("id", e.ID)
	w.Append("time", e.Time)
	w.Append("recommendation", e.Recommendation)
	w.Append("cash", e.Cash)
	w.Append("holdings", e.Holdings)
	return w.MarshalJSON()
}

// Portfolio is the authoritative in-memory state of one session: a cash
// balance and the held quantities per ticker. It is mutated only through
// Deposit and Apply, and keeps an append-only log of executions.
//
// The portfolio is owned by one logical session; it is not safe for
// concurrent use and is never persisted.
type Portfolio struct {
	currency string
	cash     Money
	holdings map[string]Quantity
	history  []ExecutionLogEntry
}

// NewPortfolio creates the session portfolio with the configured seed
// allocation.
func NewPortfolio(cfg *Config) *Portfolio {
	holdings := make(map[string]Quantity, len(cfg.InitialHoldings))
	for t, q := range cfg.InitialHoldings {
		if !q.IsZero() {
			holdings[t] = q
		}
	}
	return &Portfolio{
		currency: cfg.Currency,
		cash:     cfg.InitialCash,
		holdings: holdings,
	}
}

// Cash returns the current cash balance.
func (p *Portfolio) Cash() Money { return p.cash }

// Position returns the held quantity for a ticker, zero when not held.
func (p *Portfolio) Position(ticker string) Quantity { return p.holdings[ticker] }

// Holdings returns a copy of the held quantities.
func (p *Portfolio) Holdings() map[string]Quantity {
	holdings := make(map[string]Quantity, len(p.holdings))
	for t, q := range p.holdings {
		holdings[t] = q
	}
	return holdings
}

// Tickers returns the held tickers in alphabetical order.
func (p *Portfolio) Tickers() []string {
	tickers := make([]string, 0, len(p.holdings))
	for t := range p.holdings {
		tickers = append(tickers, t)
	}
	sort.Strings(tickers)
	return tickers
}

// History returns a copy of the execution log, oldest first.
func (p *Portfolio) History() []ExecutionLogEntry {
	history := make([]ExecutionLogEntry, len(p.history))
	copy(history, p.history)
	return history
}

// Deposit simulates a paycheck arriving: it increases cash by amount.
// The amount must be positive, in the session currency.
func (p *Portfolio) Deposit(amount Money) error {
	if !amount.IsPositive() {
		return fmt.Errorf("deposit of %s: %w", amount, ErrInvalidAmount)
	}
	if amount.Currency() != "" && amount.Currency() != p.currency {
		return fmt.Errorf("deposit in %s, session currency is %s: %w", amount.Currency(), p.currency, ErrInvalidAmount)
	}
	p.cash = p.cash.Add(amount)
	return nil
}

// HoldingsValue prices the held quantities with the snapshot. Every held
// ticker must be quoted.
func (p *Portfolio) HoldingsValue(snapshot MarketSnapshot) (Money, error) {
	total := M(0, p.currency)
	for _, ticker := range p.Tickers() {
		quote, ok := snapshot.Quote(ticker)
		if !ok {
			return Money{}, fmt.Errorf("no quote for held ticker %s: %w", ticker, ErrDataUnavailable)
		}
		total = total.Add(quote.Price.Mul(p.holdings[ticker]))
	}
	return total, nil
}

// Breakdown returns the current portfolio value per asset class.
func (p *Portfolio) Breakdown(cfg *Config, snapshot MarketSnapshot) (map[AssetClass]Money, error) {
	breakdown := make(map[AssetClass]Money, len(cfg.TargetAllocation))
	for class := range cfg.TargetAllocation {
		breakdown[class] = M(0, p.currency)
	}
	for _, ticker := range p.Tickers() {
		quote, ok := snapshot.Quote(ticker)
		if !ok {
			return nil, fmt.Errorf("no quote for held ticker %s: %w", ticker, ErrDataUnavailable)
		}
		class := cfg.ClassOf(ticker)
		breakdown[class] = breakdown[class].Add(quote.Price.Mul(p.holdings[ticker]))
	}
	return breakdown, nil
}

// Apply executes every trade of a recommendation against the portfolio.
//
// The whole recommendation applies or none of it does: trades are first
// replayed against a working copy, and any trade that would drive cash or a
// held quantity negative rejects the call with ErrInvalidExecution, leaving
// the portfolio untouched. On success the resulting state is recorded in
// the execution log and the new entry returned.
//
// The caller is responsible for not replaying a recommendation generated
// against an older state.
func (p *Portfolio) Apply(rec Recommendation) (ExecutionLogEntry, error) {
	cash := p.cash
	holdings := p.Holdings()

	for i, t := range rec.Trades {
		if !t.Shares.IsPositive() || !t.Amount.IsPositive() {
			return ExecutionLogEntry{}, fmt.Errorf("trade %d (%s %s): shares and amount must be positive: %w",
				i, t.Action, t.Ticker, ErrInvalidExecution)
		}
		switch t.Action {
		case Buy:
			cash = cash.Sub(t.Amount)
			if cash.IsNegative() {
				return ExecutionLogEntry{}, fmt.Errorf("trade %d: buying %s of %s leaves cash at %s: %w",
					i, t.Amount, t.Ticker, cash, ErrInvalidExecution)
			}
			holdings[t.Ticker] = holdings[t.Ticker].Add(t.Shares)
		case Sell:
			held := holdings[t.Ticker]
			if t.Shares.GreaterThan(held) {
				return ExecutionLogEntry{}, fmt.Errorf("trade %d: selling %s shares of %s, only %s held: %w",
					i, t.Shares, t.Ticker, held, ErrInvalidExecution)
			}
			remaining := held.Sub(t.Shares)
			if remaining.IsZero() {
				delete(holdings, t.Ticker)
			} else {
				holdings[t.Ticker] = remaining
			}
			cash = cash.Add(t.Amount)
		default:
			return ExecutionLogEntry{}, fmt.Errorf("trade %d: unknown action %q: %w", i, t.Action, ErrInvalidExecution)
		}
	}

	p.cash = cash
	p.holdings = holdings

	entry := ExecutionLogEntry{
		ID:             uuid.NewString(),
		Time:           time.Now(),
		Recommendation: rec,
		Cash:           cash,
		Holdings:       p.Holdings(),
	}
	p.history = append(p.history, entry)
	return entry, nil
}
