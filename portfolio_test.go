package paycheck

import (
	"errors"
	"testing"
)

func TestPortfolio_Deposit(t *testing.T) {
	p := NewPortfolio(testConfig())

	if err := p.Deposit(usd(800)); err != nil {
		t.Fatalf("Deposit() error = %v", err)
	}
	if got, want := p.Cash(), usd(1800); !got.Equal(want) {
		t.Errorf("Cash() = %s, want %s", got, want)
	}

	testCases := []struct {
		name   string
		amount Money
	}{
		{name: "zero", amount: usd(0)},
		{name: "negative", amount: usd(-100)},
		{name: "wrong currency", amount: M(100, "EUR")},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := p.Deposit(tc.amount)
			if !errors.Is(err, ErrInvalidAmount) {
				t.Errorf("Deposit(%s) error = %v, want ErrInvalidAmount", tc.amount, err)
			}
			if got, want := p.Cash(), usd(1800); !got.Equal(want) {
				t.Errorf("Cash() after rejected deposit = %s, want %s", got, want)
			}
		})
	}
}

func TestPortfolio_Apply(t *testing.T) {
	cfg := testConfig()
	p := NewPortfolio(cfg)

	rec := Recommendation{Trades: []Trade{
		{Action: Buy, Ticker: "AAA", Shares: Q(5), Amount: usd(500)},
		{Action: Buy, Ticker: "CCC", Shares: Q(2), Amount: usd(160)},
	}}
	entry, err := p.Apply(rec)
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}

	if got, want := p.Cash(), usd(340); !got.Equal(want) {
		t.Errorf("Cash() = %s, want %s", got, want)
	}
	if got := p.Position("AAA"); !got.Equal(Q(5)) {
		t.Errorf("Position(AAA) = %s, want 5", got)
	}
	if got := p.Position("CCC"); !got.Equal(Q(2)) {
		t.Errorf("Position(CCC) = %s, want 2", got)
	}

	if entry.ID == "" {
		t.Error("entry.ID is empty")
	}
	if !entry.Cash.Equal(usd(340)) {
		t.Errorf("entry.Cash = %s, want %s", entry.Cash, usd(340))
	}
	if got := len(p.History()); got != 1 {
		t.Errorf("len(History()) = %d, want 1", got)
	}
}

func TestPortfolio_Apply_atomic(t *testing.T) {
	// The second trade overdraws cash: the first must not stick either.
	p := NewPortfolio(testConfig())

	rec := Recommendation{Trades: []Trade{
		{Action: Buy, Ticker: "AAA", Shares: Q(9), Amount: usd(900)},
		{Action: Buy, Ticker: "CCC", Shares: Q(2), Amount: usd(160)},
	}}
	_, err := p.Apply(rec)
	if !errors.Is(err, ErrInvalidExecution) {
		t.Fatalf("Apply() error = %v, want ErrInvalidExecution", err)
	}

	if got, want := p.Cash(), usd(1000); !got.Equal(want) {
		t.Errorf("Cash() = %s, want %s untouched", got, want)
	}
	if got := p.Position("AAA"); !got.IsZero() {
		t.Errorf("Position(AAA) = %s, want 0", got)
	}
	if got := len(p.History()); got != 0 {
		t.Errorf("len(History()) = %d, want 0", got)
	}
}

func TestPortfolio_Apply_sell(t *testing.T) {
	cfg := testConfig()
	cfg.InitialHoldings = map[string]Quantity{"AAA": Q(5)}
	p := NewPortfolio(cfg)

	t.Run("overselling is rejected", func(t *testing.T) {
		rec := Recommendation{Trades: []Trade{
			{Action: Sell, Ticker: "AAA", Shares: Q(6), Amount: usd(600)},
		}}
		if _, err := p.Apply(rec); !errors.Is(err, ErrInvalidExecution) {
			t.Fatalf("Apply() error = %v, want ErrInvalidExecution", err)
		}
	})

	t.Run("selling out removes the position", func(t *testing.T) {
		rec := Recommendation{Trades: []Trade{
			{Action: Sell, Ticker: "AAA", Shares: Q(5), Amount: usd(500)},
		}}
		if _, err := p.Apply(rec); err != nil {
			t.Fatalf("Apply() error = %v", err)
		}
		if got, want := p.Cash(), usd(1500); !got.Equal(want) {
			t.Errorf("Cash() = %s, want %s", got, want)
		}
		if _, held := p.Holdings()["AAA"]; held {
			t.Error("Holdings() still lists AAA after selling out")
		}
	})
}

func TestPortfolio_HoldingsValue(t *testing.T) {
	cfg := testConfig()
	cfg.InitialHoldings = map[string]Quantity{"AAA": Q(5), "CCC": Q(5), "DDD": Q(1)}
	p := NewPortfolio(cfg)

	value, err := p.HoldingsValue(testSnapshot())
	if err != nil {
		t.Fatalf("HoldingsValue() error = %v", err)
	}
	if want := usd(1000); !value.Equal(want) {
		t.Errorf("HoldingsValue() = %s, want %s", value, want)
	}

	// A held ticker without a quote makes the valuation fail.
	partial := NewMarketSnapshot([]Quote{{Ticker: "AAA", Price: usd(100)}})
	if _, err := p.HoldingsValue(partial); !errors.Is(err, ErrDataUnavailable) {
		t.Errorf("HoldingsValue() error = %v, want ErrDataUnavailable", err)
	}
}

func TestPortfolio_Breakdown(t *testing.T) {
	cfg := testConfig()
	cfg.InitialHoldings = map[string]Quantity{"AAA": Q(5), "BBB": Q(2), "CCC": Q(5)}
	p := NewPortfolio(cfg)

	breakdown, err := p.Breakdown(cfg, testSnapshot())
	if err != nil {
		t.Fatalf("Breakdown() error = %v", err)
	}
	want := map[AssetClass]Money{
		USStocks:   usd(600),
		Bonds:      usd(400),
		RealEstate: usd(0),
	}
	for class, value := range want {
		if got := breakdown[class]; !got.Equal(value) {
			t.Errorf("Breakdown()[%s] = %s, want %s", class, got, value)
		}
	}
}
