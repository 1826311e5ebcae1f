package paycheck

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"
)

// Quote is the market state of a single ticker at snapshot time.
type Quote struct {
	Ticker        string
	Price         Money
	Change        Percent // day change of the price
	DividendYield Percent
	PERatio       float64 // zero when the feed reports none
}

// MarshalJSON keeps the field order stable for API consumers.
func (q Quote) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("ticker", q.Ticker)
	w.Append("price", q.Price)
	w.Append("change", float64(q.Change))
	w.Append("dividendYield", float64(q.DividendYield))
	w.Optional("peRatio", q.PERatio)
	return w.MarshalJSON()
}

// MarketSnapshot is an immutable view of the market for a set of tickers,
// recreated on each fetch and owned by the caller.
type MarketSnapshot struct {
	taken  time.Time
	quotes map[string]Quote
}

// NewMarketSnapshot builds a snapshot from quotes, taken now.
func NewMarketSnapshot(quotes []Quote) MarketSnapshot {
	index := make(map[string]Quote, len(quotes))
	for _, q := range quotes {
		index[q.Ticker] = q
	}
	return MarketSnapshot{taken: time.Now(), quotes: index}
}

// Taken returns the snapshot creation time.
func (s MarketSnapshot) Taken() time.Time { return s.taken }

// Quote returns the quote for a ticker.
func (s MarketSnapshot) Quote(ticker string) (Quote, bool) {
	q, ok := s.quotes[ticker]
	return q, ok
}

// Has reports whether the snapshot covers a ticker.
func (s MarketSnapshot) Has(ticker string) bool {
	_, ok := s.quotes[ticker]
	return ok
}

func (s MarketSnapshot) Len() int { return len(s.quotes) }

// Tickers returns the covered tickers in alphabetical order.
func (s MarketSnapshot) Tickers() []string {
	tickers := make([]string, 0, len(s.quotes))
	for t := range s.quotes {
		tickers = append(tickers, t)
	}
	sort.Strings(tickers)
	return tickers
}

// Covers checks that every given ticker has a quote, naming the missing
// ones otherwise.
func (s MarketSnapshot) Covers(tickers []string) error {
	var missing []string
	for _, t := range tickers {
		if _, ok := s.quotes[t]; !ok {
			missing = append(missing, t)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return fmt.Errorf("snapshot is missing %s", strings.Join(missing, ", "))
	}
	return nil
}

// MarshalJSON encodes the snapshot as its quotes in alphabetical order.
func (s MarketSnapshot) MarshalJSON() ([]byte, error) {
	quotes := make([]Quote, 0, len(s.quotes))
	for _, t := range s.Tickers() {
		quotes = append(quotes, s.quotes[t])
	}
	var w jsonObjectWriter
	w.Append("taken", s.taken)
	w.Append("quotes", quotes)
	return w.MarshalJSON()
}

// MarketDataProvider fetches current quotes for a ticker set. A fetch either
// covers every requested ticker or fails with ErrDataUnavailable; partial
// snapshots are never returned.
type MarketDataProvider interface {
	Fetch(ctx context.Context, tickers []string) (MarketSnapshot, error)
}
