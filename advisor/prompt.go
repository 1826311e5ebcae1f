package advisor

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/paycheckai/paycheck"
)

// positionSummary is the per-symbol context handed to the model. It covers
// current holdings and the candidate alternatives alike, so the model can
// diversify beyond what is already held.
type positionSummary struct {
	Shares           paycheck.Quantity   `json:"shares"`
	Value            paycheck.Money      `json:"value"`
	Price            paycheck.Money      `json:"price"`
	Change           paycheck.Percent    `json:"change"`
	DividendYield    paycheck.Percent    `json:"dividend_yield"`
	PERatio          float64             `json:"pe_ratio,omitempty"`
	Class            paycheck.AssetClass `json:"category"`
	CurrentPct       paycheck.Percent    `json:"current_pct"`
	TargetPct        paycheck.Percent    `json:"target_pct"`
	Overweight       bool                `json:"overweight"`
	Underweight      bool                `json:"underweight"`
	IsCurrentHolding bool                `json:"is_current_holding"`
}

// buildPrompt assembles the full advisory prompt: portfolio summary, target
// allocation, market analysis, available cash and the candidate universe,
// followed by the strict response contract.
func buildPrompt(cfg *paycheck.Config, p *paycheck.Portfolio, snapshot paycheck.MarketSnapshot, analysis Analysis, deposit paycheck.Money) (string, error) {
	holdingsValue, err := p.HoldingsValue(snapshot)
	if err != nil {
		return "", err
	}
	total := holdingsValue.Add(deposit)

	summary := make(map[string]positionSummary, len(cfg.Tickers))
	for _, ticker := range cfg.Tickers {
		quote, ok := snapshot.Quote(ticker)
		if !ok {
			return "", fmt.Errorf("no quote for tracked ticker %s", ticker)
		}
		shares := p.Position(ticker)
		value := quote.Price.Mul(shares)
		class := cfg.ClassOf(ticker)
		summary[ticker] = positionSummary{
			Shares:           shares,
			Value:            value,
			Price:            quote.Price,
			Change:           quote.Change,
			DividendYield:    quote.DividendYield,
			PERatio:          quote.PERatio,
			Class:            class,
			CurrentPct:       value.PercentOf(total),
			TargetPct:        cfg.TargetAllocation[class],
			Overweight:       value.PercentOf(total) > cfg.TargetAllocation[class]+3,
			Underweight:      value.PercentOf(total) < cfg.TargetAllocation[class]-3,
			IsCurrentHolding: shares.IsPositive(),
		}
	}

	portfolioJSON, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return "", err
	}
	targetJSON, err := json.MarshalIndent(cfg.TargetAllocation, "", "  ")
	if err != nil {
		return "", err
	}
	analysisJSON, err := json.MarshalIndent(analysis, "", "  ")
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("Analyze the current portfolio and market conditions to provide specific buy/sell recommendations.\n\n")
	fmt.Fprintf(&b, "CURRENT PORTFOLIO:\n%s\n\n", portfolioJSON)
	fmt.Fprintf(&b, "TARGET ALLOCATION:\n%s\n\n", targetJSON)
	fmt.Fprintf(&b, "MARKET ANALYSIS:\n%s\n\n", analysisJSON)
	fmt.Fprintf(&b, "AVAILABLE CASH: %s\n\n", deposit)
	b.WriteString("AVAILABLE SYMBOLS FOR DIVERSIFICATION:\n")
	for _, class := range cfg.AssetClasses() {
		fmt.Fprintf(&b, "- %s: %s\n", class, strings.Join(cfg.Candidates[class], ", "))
	}
	b.WriteString(`
Provide recommendations in this EXACT JSON format (no other text):
{
  "analysis": "Your overall market assessment and strategy rationale",
  "recommendations": [
    {
      "action": "BUY",
      "symbol": "VTI",
      "shares": 5,
      "reasoning": "Specific reason for this trade",
      "priority": "High"
    }
  ],
  "risk_assessment": "Your risk evaluation",
  "market_timing": "Your timing insights"
}

REQUIREMENTS:
1. Diversify beyond current holdings using the symbol lists above.
2. Prefer the best performing candidates within each asset class.
3. Rebalance the portfolio toward the target allocation.
4. Use whole share quantities with specific reasoning per trade.
5. Never let purchases minus sales exceed the available cash.
6. Avoid contradictory trades: do not buy and sell the same symbol.
`)
	return b.String(), nil
}
