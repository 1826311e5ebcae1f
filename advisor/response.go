package advisor

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/paycheckai/paycheck"
)

// response is the strict schema the model must answer with. Anything that
// does not parse and validate into a paycheck.Recommendation is a strategy
// failure, never a crash.
type response struct {
	Analysis        string          `json:"analysis"`
	Recommendations []responseTrade `json:"recommendations"`
	RiskAssessment  string          `json:"risk_assessment"`
	MarketTiming    string          `json:"market_timing"`
}

type responseTrade struct {
	Action    string  `json:"action"`
	Symbol    string  `json:"symbol"`
	Shares    float64 `json:"shares"`
	Reasoning string  `json:"reasoning"`
	Priority  string  `json:"priority"`
}

// parseResponse validates the raw model output against the schema and
// prices each trade with the snapshot. The model is untrusted: every field
// is checked before use.
func parseResponse(text string, snapshot paycheck.MarketSnapshot) (paycheck.Recommendation, error) {
	payload, err := extractJSON(text)
	if err != nil {
		return paycheck.Recommendation{}, err
	}

	var resp response
	if err := json.Unmarshal([]byte(payload), &resp); err != nil {
		return paycheck.Recommendation{}, fmt.Errorf("response is not valid JSON: %w", err)
	}
	if len(resp.Recommendations) == 0 {
		return paycheck.Recommendation{}, fmt.Errorf("response contains no recommendations")
	}

	trades := make([]paycheck.Trade, 0, len(resp.Recommendations))
	for i, rt := range resp.Recommendations {
		action, err := paycheck.ParseAction(rt.Action)
		if err != nil {
			return paycheck.Recommendation{}, fmt.Errorf("recommendation %d: %w", i, err)
		}
		quote, ok := snapshot.Quote(rt.Symbol)
		if !ok {
			return paycheck.Recommendation{}, fmt.Errorf("recommendation %d: unknown symbol %q", i, rt.Symbol)
		}
		if rt.Shares <= 0 || rt.Shares != math.Trunc(rt.Shares) {
			return paycheck.Recommendation{}, fmt.Errorf("recommendation %d: shares must be a positive whole number, got %v", i, rt.Shares)
		}
		shares := paycheck.Q(int64(rt.Shares))
		trades = append(trades, paycheck.Trade{
			Action:    action,
			Ticker:    rt.Symbol,
			Shares:    shares,
			Amount:    quote.Price.Mul(shares),
			Rationale: rt.Reasoning,
			Priority:  rt.Priority,
		})
	}

	return paycheck.Recommendation{
		Analysis:       resp.Analysis,
		Trades:         trades,
		RiskAssessment: resp.RiskAssessment,
		MarketTiming:   resp.MarketTiming,
	}, nil
}

// extractJSON tolerates models that wrap the JSON object in markdown fences
// or prose, and rejects responses with no object at all.
func extractJSON(text string) (string, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return "", fmt.Errorf("response contains no JSON object")
	}
	return text[start : end+1], nil
}
