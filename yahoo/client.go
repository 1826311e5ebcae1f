// Package yahoo implements the market-data provider on top of the Yahoo
// Finance quote API.
package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/PaesslerAG/jsonpath"

	"github.com/paycheckai/paycheck"
)

const (
	defaultBaseURL = "https://query1.finance.yahoo.com"
	quotePath      = "/v7/finance/quote"

	// quotes are good enough for a few minutes, the session is not a trading
	// desk.
	defaultTTL = 5 * time.Minute
)

// Client fetches quotes for a set of tickers. A fetch either returns a
// quote for every requested ticker or fails with
// paycheck.ErrDataUnavailable; no partial snapshot is ever returned.
//
// Responses are cached in memory for a short TTL, keyed by the requested
// ticker set.
type Client struct {
	client  *http.Client
	baseURL string
	ttl     time.Duration

	mu     sync.Mutex
	key    string
	cached paycheck.MarketSnapshot
}

// NewClient creates a Yahoo Finance client with a 30s request timeout.
func NewClient() *Client {
	return &Client{
		client:  &http.Client{Timeout: 30 * time.Second},
		baseURL: defaultBaseURL,
		ttl:     defaultTTL,
	}
}

// Fetch implements paycheck.MarketDataProvider.
func (c *Client) Fetch(ctx context.Context, tickers []string) (paycheck.MarketSnapshot, error) {
	if len(tickers) == 0 {
		return paycheck.MarketSnapshot{}, fmt.Errorf("yahoo: no tickers requested")
	}

	sorted := append([]string(nil), tickers...)
	sort.Strings(sorted)
	key := strings.Join(sorted, ",")

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.key == key && time.Since(c.cached.Taken()) < c.ttl {
		return c.cached, nil
	}

	results, err := c.quote(ctx, sorted)
	if err != nil {
		return paycheck.MarketSnapshot{}, fmt.Errorf("%v: %w", err, paycheck.ErrDataUnavailable)
	}

	quotes := make([]paycheck.Quote, 0, len(sorted))
	var missing []string
	for _, ticker := range sorted {
		info, ok := results[ticker]
		if !ok {
			missing = append(missing, ticker)
			continue
		}
		price := getFloat64(info, "regularMarketPrice")
		if price <= 0 {
			missing = append(missing, ticker)
			continue
		}
		currency := getString(info, "currency")
		if currency == "" {
			currency = "USD"
		}
		quotes = append(quotes, paycheck.Quote{
			Ticker:        ticker,
			Price:         paycheck.M(price, currency),
			Change:        paycheck.Percent(getFloat64(info, "regularMarketChangePercent")),
			DividendYield: paycheck.Percent(getFloat64(info, "dividendYield")),
			PERatio:       getFloat64(info, "trailingPE"),
		})
	}
	if len(missing) > 0 {
		return paycheck.MarketSnapshot{}, fmt.Errorf("feed returned no usable quote for %s: %w",
			strings.Join(missing, ", "), paycheck.ErrDataUnavailable)
	}

	snapshot := paycheck.NewMarketSnapshot(quotes)
	c.key, c.cached = key, snapshot
	return snapshot, nil
}

// quote calls the quote endpoint and indexes the raw result objects by
// symbol.
func (c *Client) quote(ctx context.Context, tickers []string) (map[string]map[string]any, error) {
	// https://query1.finance.yahoo.com/v7/finance/quote?symbols=VTI,BND
	// {"quoteResponse": {"result": [ {"symbol": "VTI", "regularMarketPrice": ...}, ...], "error": null}}
	addr := c.baseURL + quotePath + "?symbols=" + url.QueryEscape(strings.Join(tickers, ","))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "paycheck/1.0")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("cannot http GET %v%v: %v", req.URL.Host, req.URL.Path, resp.Status)
	}

	var jobj any
	if err := json.NewDecoder(resp.Body).Decode(&jobj); err != nil {
		return nil, fmt.Errorf("invalid feed payload: %w", err)
	}

	jval, err := jsonpath.Get("$.quoteResponse.result", jobj)
	if err != nil {
		return nil, fmt.Errorf("unexpected feed payload shape: %w", err)
	}
	jlist, ok := jval.([]any)
	if !ok {
		return nil, fmt.Errorf("unexpected feed payload: result is %T, not a list", jval)
	}

	results := make(map[string]map[string]any, len(jlist))
	for _, item := range jlist {
		info, ok := item.(map[string]any)
		if !ok {
			continue
		}
		if symbol := getString(info, "symbol"); symbol != "" {
			results[symbol] = info
		}
	}
	return results, nil
}

func getFloat64(info map[string]any, key string) float64 {
	if v, ok := info[key].(float64); ok {
		return v
	}
	return 0
}

func getString(info map[string]any, key string) string {
	if v, ok := info[key].(string); ok {
		return v
	}
	return ""
}
