package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"

	"github.com/paycheckai/paycheck"
)

type stubProvider struct {
	snapshot paycheck.MarketSnapshot
	err      error
}

func (s *stubProvider) Fetch(context.Context, []string) (paycheck.MarketSnapshot, error) {
	return s.snapshot, s.err
}

func testSession() (*paycheck.Config, paycheck.MarketSnapshot) {
	cfg := &paycheck.Config{
		Currency: "USD",
		TargetAllocation: map[paycheck.AssetClass]paycheck.Percent{
			paycheck.USStocks: 70,
			paycheck.Bonds:    30,
		},
		Tickers: []string{"AAA", "CCC"},
		Classes: map[string]paycheck.AssetClass{
			"AAA": paycheck.USStocks,
			"CCC": paycheck.Bonds,
		},
		Candidates: map[paycheck.AssetClass][]string{
			paycheck.USStocks: {"AAA"},
			paycheck.Bonds:    {"CCC"},
		},
		DefaultPaycheck: paycheck.M(800, "USD"),
		InitialCash:     paycheck.M(1000, "USD"),
	}
	snapshot := paycheck.NewMarketSnapshot([]paycheck.Quote{
		{Ticker: "AAA", Price: paycheck.M(100, "USD"), Change: 1.0},
		{Ticker: "CCC", Price: paycheck.M(80, "USD"), Change: -0.5},
	})
	return cfg, snapshot
}

func testServer(t *testing.T, provider paycheck.MarketDataProvider) *httptest.Server {
	t.Helper()
	cfg, _ := testSession()
	s := New(Config{
		Port:        0,
		Log:         zerolog.Nop(),
		Session:     cfg,
		Portfolio:   paycheck.NewPortfolio(cfg),
		Provider:    provider,
		Recommender: paycheck.NewRecommender(cfg, nil),
	})
	srv := httptest.NewServer(s.Handler())
	t.Cleanup(srv.Close)
	return srv
}

func postJSON(t *testing.T, url string, body any) (*http.Response, map[string]any) {
	t.Helper()
	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	return resp, decodeBody(t, resp)
}

func getJSON(t *testing.T, url string) (*http.Response, map[string]any) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	return resp, decodeBody(t, resp)
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()
	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return body
}

// amount digs the numeric amount out of a marshaled Money.
func amount(t *testing.T, v any) float64 {
	t.Helper()
	m, ok := v.(map[string]any)
	if !ok {
		t.Fatalf("not a money object: %v", v)
	}
	f, ok := m["amount"].(float64)
	if !ok {
		t.Fatalf("no numeric amount in %v", m)
	}
	return f
}

func TestServer_session(t *testing.T) {
	_, snapshot := testSession()
	srv := testServer(t, &stubProvider{snapshot: snapshot})

	t.Run("health", func(t *testing.T) {
		resp, body := getJSON(t, srv.URL+"/health")
		if resp.StatusCode != http.StatusOK || body["status"] != "ok" {
			t.Fatalf("GET /health = %d %v", resp.StatusCode, body)
		}
	})

	t.Run("initial holdings", func(t *testing.T) {
		resp, body := getJSON(t, srv.URL+"/api/holdings")
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("GET /api/holdings = %d", resp.StatusCode)
		}
		if got := amount(t, body["cash"]); got != 1000 {
			t.Errorf("cash = %v, want 1000", got)
		}
	})

	t.Run("quotes", func(t *testing.T) {
		resp, body := getJSON(t, srv.URL+"/api/quotes")
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("GET /api/quotes = %d", resp.StatusCode)
		}
		quotes, ok := body["quotes"].([]any)
		if !ok || len(quotes) != 2 {
			t.Errorf("quotes = %v, want 2 entries", body["quotes"])
		}
	})

	t.Run("deposit", func(t *testing.T) {
		resp, body := postJSON(t, srv.URL+"/api/deposit", map[string]any{"amount": 800})
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("POST /api/deposit = %d %v", resp.StatusCode, body)
		}
		if got := amount(t, body["cash"]); got != 1800 {
			t.Errorf("cash = %v, want 1800", got)
		}
	})

	var recommendationID string
	t.Run("recommendation", func(t *testing.T) {
		resp, body := postJSON(t, srv.URL+"/api/recommendation", map[string]any{"amount": 800})
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("POST /api/recommendation = %d %v", resp.StatusCode, body)
		}
		recommendationID, _ = body["id"].(string)
		if recommendationID == "" {
			t.Error("recommendation has no id")
		}
		if body["source"] != "rebalance" {
			t.Errorf("source = %v, want rebalance", body["source"])
		}
		trades, ok := body["trades"].([]any)
		if !ok || len(trades) == 0 {
			t.Errorf("trades = %v, want at least one", body["trades"])
		}
	})

	t.Run("execute", func(t *testing.T) {
		resp, body := postJSON(t, srv.URL+"/api/execute", map[string]any{"id": recommendationID})
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("POST /api/execute = %d %v", resp.StatusCode, body)
		}
		if got := amount(t, body["cash"]); got >= 1800 {
			t.Errorf("cash after execute = %v, want less than 1800", got)
		}
	})

	t.Run("execute twice", func(t *testing.T) {
		resp, _ := postJSON(t, srv.URL+"/api/execute", map[string]any{})
		if resp.StatusCode != http.StatusConflict {
			t.Fatalf("second POST /api/execute = %d, want 409", resp.StatusCode)
		}
	})

	t.Run("history", func(t *testing.T) {
		resp, body := getJSON(t, srv.URL+"/api/history")
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("GET /api/history = %d", resp.StatusCode)
		}
		history, ok := body["history"].([]any)
		if !ok || len(history) != 1 {
			t.Errorf("history = %v, want 1 entry", body["history"])
		}
	})
}

func TestServer_errors(t *testing.T) {
	_, snapshot := testSession()

	t.Run("invalid deposit", func(t *testing.T) {
		srv := testServer(t, &stubProvider{snapshot: snapshot})
		resp, _ := postJSON(t, srv.URL+"/api/deposit", map[string]any{"amount": -5})
		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("POST /api/deposit = %d, want 400", resp.StatusCode)
		}
	})

	t.Run("feed down", func(t *testing.T) {
		srv := testServer(t, &stubProvider{err: fmt.Errorf("feed: %w", paycheck.ErrDataUnavailable)})
		resp, _ := getJSON(t, srv.URL+"/api/quotes")
		if resp.StatusCode != http.StatusBadGateway {
			t.Fatalf("GET /api/quotes = %d, want 502", resp.StatusCode)
		}
		resp, _ = postJSON(t, srv.URL+"/api/recommendation", map[string]any{"amount": 800})
		if resp.StatusCode != http.StatusBadGateway {
			t.Fatalf("POST /api/recommendation = %d, want 502", resp.StatusCode)
		}
	})

	t.Run("execute without a recommendation", func(t *testing.T) {
		srv := testServer(t, &stubProvider{snapshot: snapshot})
		resp, _ := postJSON(t, srv.URL+"/api/execute", map[string]any{})
		if resp.StatusCode != http.StatusConflict {
			t.Fatalf("POST /api/execute = %d, want 409", resp.StatusCode)
		}
	})

	t.Run("mismatched recommendation id", func(t *testing.T) {
		srv := testServer(t, &stubProvider{snapshot: snapshot})
		if resp, body := postJSON(t, srv.URL+"/api/recommendation", map[string]any{"amount": 800}); resp.StatusCode != http.StatusOK {
			t.Fatalf("POST /api/recommendation = %d %v", resp.StatusCode, body)
		}
		resp, _ := postJSON(t, srv.URL+"/api/execute", map[string]any{"id": "someone-elses"})
		if resp.StatusCode != http.StatusConflict {
			t.Fatalf("POST /api/execute = %d, want 409", resp.StatusCode)
		}
	})
}
