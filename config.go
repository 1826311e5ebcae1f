package paycheck

import (
	"fmt"
	"sort"
)

// AssetClass groups tickers for allocation purposes.
type AssetClass string

const (
	USStocks   AssetClass = "Stocks (US)"
	IntlStocks AssetClass = "Stocks (Intl)"
	Bonds      AssetClass = "Bonds"
	RealEstate AssetClass = "Real Estate"
)

// Config holds the static settings of a session: the target allocation, the
// tracked ticker universe and the seed portfolio. It is read-only after
// creation; there are no operations beyond retrieval.
type Config struct {
	// Currency is the single currency of the session.
	Currency string

	// TargetAllocation is the desired percentage split of portfolio value
	// across asset classes. Percentages must sum to 100.
	TargetAllocation map[AssetClass]Percent

	// Tickers is the tracked ticker universe, fetched on every snapshot.
	Tickers []string

	// Classes maps every tracked ticker to its asset class.
	Classes map[string]AssetClass

	// Candidates lists, per asset class, the tickers a strategy may buy.
	Candidates map[AssetClass][]string

	// DefaultPaycheck is the deposit amount used when the user gives none.
	DefaultPaycheck Money

	InitialCash     Money
	InitialHoldings map[string]Quantity
}

// DefaultConfig returns the demo session settings: a four-class allocation,
// twenty tracked ETFs and a small seed portfolio.
func DefaultConfig() *Config {
	const usd = "USD"
	return &Config{
		Currency: usd,
		TargetAllocation: map[AssetClass]Percent{
			USStocks:   60,
			IntlStocks: 20,
			Bonds:      15,
			RealEstate: 5,
		},
		Tickers: []string{
			"VTI", "VTIAX", "BND", "VNQ", "SPY", "QQQ", "IWM", "EFA", "TLT", "IYR",
			"VEA", "VWO", "AGG", "BNDX", "VXUS", "VUG", "VTV", "VYM", "SCHD", "DGRO",
		},
		Classes: map[string]AssetClass{
			"VTI": USStocks, "SPY": USStocks, "QQQ": USStocks, "IWM": USStocks,
			"VUG": USStocks, "VTV": USStocks, "VYM": USStocks, "SCHD": USStocks,
			"DGRO": USStocks,
			"VTIAX": IntlStocks, "EFA": IntlStocks, "VEA": IntlStocks,
			"VWO": IntlStocks, "VXUS": IntlStocks,
			"BND": Bonds, "TLT": Bonds, "AGG": Bonds, "BNDX": Bonds,
			"VNQ": RealEstate, "IYR": RealEstate,
		},
		Candidates: map[AssetClass][]string{
			USStocks:   {"VTI", "SPY", "QQQ", "VUG", "VTV", "VYM", "SCHD", "DGRO"},
			IntlStocks: {"VTIAX", "EFA", "VEA", "VWO", "VXUS"},
			Bonds:      {"BND", "TLT", "AGG", "BNDX"},
			RealEstate: {"VNQ", "IYR"},
		},
		DefaultPaycheck: M(800, usd),
		InitialCash:     M(2500, usd),
		InitialHoldings: map[string]Quantity{
			"VTI":   Q(12),
			"VTIAX": Q(8),
			"BND":   Q(15),
			"VNQ":   Q(5),
		},
	}
}

// AssetClasses returns the configured classes in a stable alphabetical order.
func (c *Config) AssetClasses() []AssetClass {
	classes := make([]AssetClass, 0, len(c.TargetAllocation))
	for class := range c.TargetAllocation {
		classes = append(classes, class)
	}
	sort.Slice(classes, func(i, j int) bool { return classes[i] < classes[j] })
	return classes
}

// ClassOf returns the asset class of a ticker, or "" when untracked.
func (c *Config) ClassOf(ticker string) AssetClass {
	return c.Classes[ticker]
}

// Validate checks the configuration invariants: the allocation sums to
// 100%, every tracked ticker has a class, and every candidate is tracked.
func (c *Config) Validate() error {
	if c.Currency == "" {
		return fmt.Errorf("config: currency is missing")
	}

	var sum Percent
	for _, pct := range c.TargetAllocation {
		if pct < 0 {
			return fmt.Errorf("config: negative allocation percentage %s", pct)
		}
		sum += pct
	}
	if !sum.Equal(100) {
		return fmt.Errorf("config: target allocation sums to %s, want 100%%", sum)
	}

	if len(c.Tickers) == 0 {
		return fmt.Errorf("config: tracked ticker list is empty")
	}
	tracked := make(map[string]bool, len(c.Tickers))
	for _, t := range c.Tickers {
		tracked[t] = true
		if _, ok := c.Classes[t]; !ok {
			return fmt.Errorf("config: ticker %s has no asset class", t)
		}
	}

	for class, tickers := range c.Candidates {
		if _, ok := c.TargetAllocation[class]; !ok {
			return fmt.Errorf("config: candidates declared for unknown class %q", class)
		}
		for _, t := range tickers {
			if !tracked[t] {
				return fmt.Errorf("config: candidate %s for class %q is not tracked", t, class)
			}
		}
	}

	if !c.DefaultPaycheck.IsPositive() {
		return fmt.Errorf("config: default paycheck must be positive, got %s", c.DefaultPaycheck)
	}
	if c.InitialCash.IsNegative() {
		return fmt.Errorf("config: initial cash cannot be negative, got %s", c.InitialCash)
	}
	for t, q := range c.InitialHoldings {
		if q.IsNegative() {
			return fmt.Errorf("config: initial holding %s has negative quantity %s", t, q)
		}
	}
	return nil
}
