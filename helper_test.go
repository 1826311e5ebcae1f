package paycheck

// testConfig returns a small three-class session used across the package
// tests: two US stock candidates, one bond, one real-estate ticker.
func testConfig() *Config {
	return &Config{
		Currency: "USD",
		TargetAllocation: map[AssetClass]Percent{
			USStocks:   60,
			Bonds:      30,
			RealEstate: 10,
		},
		Tickers: []string{"AAA", "BBB", "CCC", "DDD"},
		Classes: map[string]AssetClass{
			"AAA": USStocks, "BBB": USStocks,
			"CCC": Bonds,
			"DDD": RealEstate,
		},
		Candidates: map[AssetClass][]string{
			USStocks:   {"AAA", "BBB"},
			Bonds:      {"CCC"},
			RealEstate: {"DDD"},
		},
		DefaultPaycheck: M(800, "USD"),
		InitialCash:     M(1000, "USD"),
		InitialHoldings: map[string]Quantity{},
	}
}

// testSnapshot quotes the whole testConfig universe. AAA and BBB share the
// same day change so that tie-breaking is observable.
func testSnapshot() MarketSnapshot {
	return NewMarketSnapshot([]Quote{
		{Ticker: "AAA", Price: M(100, "USD"), Change: 1.2},
		{Ticker: "BBB", Price: M(50, "USD"), Change: 1.2},
		{Ticker: "CCC", Price: M(80, "USD"), Change: -0.5},
		{Ticker: "DDD", Price: M(100, "USD"), Change: 0.3},
	})
}

func usd(v float64) Money { return M(v, "USD") }
