package advisor

import (
	"fmt"

	"github.com/paycheckai/paycheck"
)

// Sentiment and risk labels used in the analysis.
const (
	Bullish = "bullish"
	Bearish = "bearish"
	Neutral = "neutral"

	RiskLow    = "low"
	RiskMedium = "medium"
	RiskHigh   = "high"

	StanceAggressiveBuy = "aggressive_buy"
	StanceDefensive     = "defensive"
	StanceBalanced      = "balanced"
)

// ClassPerformance summarizes one asset class in a snapshot.
type ClassPerformance struct {
	Performance   paycheck.Percent `json:"performance"`
	DividendYield paycheck.Percent `json:"dividend_yield"`
	Sentiment     string           `json:"sentiment"` // strong, weak or neutral
}

// Analysis is a deterministic read of market conditions, used both as
// context for the remote model and as rationale text for the user.
type Analysis struct {
	Sentiment string                                   `json:"sentiment"`
	Risk      string                                   `json:"risk_level"`
	Stance    string                                   `json:"recommendation"`
	Classes   map[paycheck.AssetClass]ClassPerformance `json:"class_performance"`
	Insights  []string                                 `json:"key_insights"`
}

// Analyze derives market conditions from a snapshot: overall sentiment from
// the share of positive movers, per-class average performance and yield,
// and a volatility-based risk band. It is a pure function.
func Analyze(cfg *paycheck.Config, snapshot paycheck.MarketSnapshot) Analysis {
	analysis := Analysis{
		Sentiment: Neutral,
		Risk:      RiskMedium,
		Stance:    StanceBalanced,
		Classes:   make(map[paycheck.AssetClass]ClassPerformance, len(cfg.TargetAllocation)),
	}

	positive, total := 0, 0
	var volatility float64
	for _, ticker := range cfg.Tickers {
		quote, ok := snapshot.Quote(ticker)
		if !ok {
			continue
		}
		total++
		if quote.Change > 0 {
			positive++
		}
		change := float64(quote.Change)
		if change < 0 {
			change = -change
		}
		volatility += change
	}
	if total == 0 {
		return analysis
	}

	switch ratio := float64(positive) / float64(total); {
	case ratio > 0.7:
		analysis.Sentiment = Bullish
		analysis.Insights = append(analysis.Insights, "Strong positive momentum across major indices")
	case ratio < 0.3:
		analysis.Sentiment = Bearish
		analysis.Insights = append(analysis.Insights, "Widespread selling pressure in markets")
	default:
		analysis.Insights = append(analysis.Insights, "Mixed signals with sector rotation")
	}

	for _, class := range cfg.AssetClasses() {
		var change, yield float64
		n := 0
		for _, ticker := range cfg.Candidates[class] {
			quote, ok := snapshot.Quote(ticker)
			if !ok {
				continue
			}
			change += float64(quote.Change)
			yield += float64(quote.DividendYield)
			n++
		}
		if n == 0 {
			continue
		}
		avg := change / float64(n)
		sentiment := Neutral
		if avg > 1 {
			sentiment = "strong"
		} else if avg < -1 {
			sentiment = "weak"
		}
		analysis.Classes[class] = ClassPerformance{
			Performance:   paycheck.Percent(avg),
			DividendYield: paycheck.Percent(yield / float64(n)),
			Sentiment:     sentiment,
		}
	}

	switch avg := volatility / float64(total); {
	case avg > 2:
		analysis.Risk = RiskHigh
		analysis.Insights = append(analysis.Insights, "High volatility detected - markets are unstable")
	case avg < 0.5:
		analysis.Risk = RiskLow
		analysis.Insights = append(analysis.Insights, "Low volatility - stable market conditions")
	}

	switch {
	case analysis.Sentiment == Bullish && analysis.Risk == RiskLow:
		analysis.Stance = StanceAggressiveBuy
		analysis.Insights = append(analysis.Insights, "Favorable conditions for aggressive investment")
	case analysis.Sentiment == Bearish || analysis.Risk == RiskHigh:
		analysis.Stance = StanceDefensive
		analysis.Insights = append(analysis.Insights, "Consider defensive positioning with bonds")
	default:
		analysis.Insights = append(analysis.Insights, "Balanced approach recommended")
	}

	return analysis
}

// Summary renders the analysis as a short sentence for rationale text.
func (a Analysis) Summary() string {
	return fmt.Sprintf("market %s, %s risk, stance %s", a.Sentiment, a.Risk, a.Stance)
}
