// Package renderer turns session state into markdown for the CLI.
package renderer

import (
	"fmt"
	"strings"

	"github.com/paycheckai/paycheck"
)

// Snapshot renders a market snapshot as a markdown table.
func Snapshot(s paycheck.MarketSnapshot) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Market snapshot\n\n")
	fmt.Fprintf(&b, "Taken %s.\n\n", s.Taken().Format("2006-01-02 15:04:05"))
	fmt.Fprintln(&b, "| Ticker | Price | Change | Yield | PE |")
	fmt.Fprintln(&b, "|:---|---:|---:|---:|---:|")
	for _, ticker := range s.Tickers() {
		quote, _ := s.Quote(ticker)
		pe := "-"
		if quote.PERatio > 0 {
			pe = fmt.Sprintf("%.1f", quote.PERatio)
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s |\n",
			quote.Ticker,
			quote.Price,
			quote.Change.SignedString(),
			quote.DividendYield,
			pe,
		)
	}
	return b.String()
}

// Holdings renders the portfolio: held positions valued with the snapshot,
// the class weights against their targets, and the cash balance.
func Holdings(cfg *paycheck.Config, p *paycheck.Portfolio, s paycheck.MarketSnapshot) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Holdings\n\n")
	fmt.Fprintln(&b, "| Ticker | Class | Shares | Price | Value |")
	fmt.Fprintln(&b, "|:---|:---|---:|---:|---:|")

	holdingsValue := paycheck.M(0, cfg.Currency)
	for _, ticker := range p.Tickers() {
		shares := p.Position(ticker)
		price, value := "-", "-"
		if quote, ok := s.Quote(ticker); ok {
			v := quote.Price.Mul(shares)
			holdingsValue = holdingsValue.Add(v)
			price, value = quote.Price.String(), v.String()
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s |\n", ticker, cfg.ClassOf(ticker), shares, price, value)
	}
	total := holdingsValue.Add(p.Cash())
	fmt.Fprintf(&b, "\nCash: %s, total value: %s\n", p.Cash(), total)

	if breakdown, err := p.Breakdown(cfg, s); err == nil {
		fmt.Fprintf(&b, "\n## Allocation\n\n")
		fmt.Fprintln(&b, "| Class | Value | Current | Target |")
		fmt.Fprintln(&b, "|:---|---:|---:|---:|")
		for _, class := range cfg.AssetClasses() {
			value := breakdown[class]
			fmt.Fprintf(&b, "| %s | %s | %s | %s |\n",
				class, value, value.PercentOf(holdingsValue), cfg.TargetAllocation[class])
		}
	}
	return b.String()
}

// Recommendation renders a recommendation with its rationale.
func Recommendation(rec paycheck.Recommendation) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Recommendation (%s)\n\n", rec.Source)
	if rec.Analysis != "" {
		fmt.Fprintf(&b, "%s\n\n", rec.Analysis)
	}
	fmt.Fprintln(&b, "| Action | Ticker | Shares | Amount | Rationale |")
	fmt.Fprintln(&b, "|:---|:---|---:|---:|:---|")
	for _, trade := range rec.Trades {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s |\n",
			trade.Action, trade.Ticker, trade.Shares, trade.Amount, trade.Rationale)
	}
	fmt.Fprintf(&b, "\nNet outlay: %s\n", rec.NetOutlay())
	if rec.RiskAssessment != "" {
		fmt.Fprintf(&b, "\nRisk: %s\n", rec.RiskAssessment)
	}
	if rec.MarketTiming != "" {
		fmt.Fprintf(&b, "\nTiming: %s\n", rec.MarketTiming)
	}
	return b.String()
}

// History renders the execution log, most recent first.
func History(entries []paycheck.ExecutionLogEntry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Execution history\n\n")
	if len(entries) == 0 {
		fmt.Fprintln(&b, "No executions yet.")
		return b.String()
	}
	fmt.Fprintln(&b, "| Time | Trades | Net outlay | Cash after |")
	fmt.Fprintln(&b, "|:---|:---|---:|---:|")
	for i := len(entries) - 1; i >= 0; i-- {
		entry := entries[i]
		actions := make([]string, 0, len(entry.Recommendation.Trades))
		for _, trade := range entry.Recommendation.Trades {
			actions = append(actions, fmt.Sprintf("%s %s %s", trade.Action, trade.Shares, trade.Ticker))
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s |\n",
			entry.Time.Format("15:04:05"),
			strings.Join(actions, ", "),
			entry.Recommendation.NetOutlay(),
			entry.Cash,
		)
	}
	return b.String()
}
