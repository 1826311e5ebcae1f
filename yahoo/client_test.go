package yahoo

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/paycheckai/paycheck"
)

// fakeFeed serves a canned v7 quote payload and counts requests.
type fakeFeed struct {
	quotes map[string]map[string]any
	hits   int
}

func (f *fakeFeed) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.hits++
	var results []string
	for _, symbol := range strings.Split(r.URL.Query().Get("symbols"), ",") {
		info, ok := f.quotes[symbol]
		if !ok {
			continue
		}
		fields := []string{fmt.Sprintf("%q: %q", "symbol", symbol)}
		for k, v := range info {
			switch v := v.(type) {
			case string:
				fields = append(fields, fmt.Sprintf("%q: %q", k, v))
			default:
				fields = append(fields, fmt.Sprintf("%q: %v", k, v))
			}
		}
		results = append(results, "{"+strings.Join(fields, ", ")+"}")
	}
	w.Header().Set("Content-Type", "application/json")
	fmt.Fprintf(w, `{"quoteResponse": {"result": [%s], "error": null}}`, strings.Join(results, ", "))
}

func testClient(t *testing.T, feed http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(feed)
	t.Cleanup(srv.Close)
	c := NewClient()
	c.baseURL = srv.URL
	return c
}

func TestClient_Fetch(t *testing.T) {
	feed := &fakeFeed{quotes: map[string]map[string]any{
		"VTI": {"regularMarketPrice": 250.5, "regularMarketChangePercent": 1.25, "dividendYield": 1.4, "trailingPE": 24.1, "currency": "USD"},
		"BND": {"regularMarketPrice": 72.3, "regularMarketChangePercent": -0.2},
	}}
	c := testClient(t, feed)

	snapshot, err := c.Fetch(context.Background(), []string{"VTI", "BND"})
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if snapshot.Len() != 2 {
		t.Fatalf("snapshot.Len() = %d, want 2", snapshot.Len())
	}

	vti, ok := snapshot.Quote("VTI")
	if !ok {
		t.Fatal("no quote for VTI")
	}
	if want := paycheck.M(250.5, "USD"); !vti.Price.Equal(want) {
		t.Errorf("VTI Price = %s, want %s", vti.Price, want)
	}
	if float64(vti.Change) != 1.25 {
		t.Errorf("VTI Change = %v, want 1.25", vti.Change)
	}
	if vti.PERatio != 24.1 {
		t.Errorf("VTI PERatio = %v, want 24.1", vti.PERatio)
	}

	// no currency in the payload defaults to USD
	bnd, _ := snapshot.Quote("BND")
	if bnd.Price.Currency() != "USD" {
		t.Errorf("BND currency = %q, want USD", bnd.Price.Currency())
	}
}

func TestClient_Fetch_missingTicker(t *testing.T) {
	feed := &fakeFeed{quotes: map[string]map[string]any{
		"VTI": {"regularMarketPrice": 250.5},
	}}
	c := testClient(t, feed)

	_, err := c.Fetch(context.Background(), []string{"VTI", "BND", "VNQ"})
	if !errors.Is(err, paycheck.ErrDataUnavailable) {
		t.Fatalf("Fetch() error = %v, want ErrDataUnavailable", err)
	}
	// the missing tickers are named
	for _, ticker := range []string{"BND", "VNQ"} {
		if !strings.Contains(err.Error(), ticker) {
			t.Errorf("error %q does not name %s", err, ticker)
		}
	}
}

func TestClient_Fetch_uselessQuote(t *testing.T) {
	// A quote without a positive price is as good as no quote.
	feed := &fakeFeed{quotes: map[string]map[string]any{
		"VTI": {"regularMarketPrice": 0.0},
	}}
	c := testClient(t, feed)

	if _, err := c.Fetch(context.Background(), []string{"VTI"}); !errors.Is(err, paycheck.ErrDataUnavailable) {
		t.Fatalf("Fetch() error = %v, want ErrDataUnavailable", err)
	}
}

func TestClient_Fetch_cache(t *testing.T) {
	feed := &fakeFeed{quotes: map[string]map[string]any{
		"VTI": {"regularMarketPrice": 250.5},
	}}
	c := testClient(t, feed)

	if _, err := c.Fetch(context.Background(), []string{"VTI"}); err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	// same ticker set within the TTL: served from cache
	if _, err := c.Fetch(context.Background(), []string{"VTI"}); err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if feed.hits != 1 {
		t.Errorf("feed hits = %d, want 1", feed.hits)
	}

	// an expired cache refetches
	c.ttl = -time.Second
	if _, err := c.Fetch(context.Background(), []string{"VTI"}); err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if feed.hits != 2 {
		t.Errorf("feed hits = %d, want 2", feed.hits)
	}
}

func TestClient_Fetch_feedDown(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusServiceUnavailable)
	}))

	if _, err := c.Fetch(context.Background(), []string{"VTI"}); !errors.Is(err, paycheck.ErrDataUnavailable) {
		t.Fatalf("Fetch() error = %v, want ErrDataUnavailable", err)
	}
}
