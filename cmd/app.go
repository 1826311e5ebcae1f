package cmd

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/charmbracelet/glamour"
	"google.golang.org/genai"

	"github.com/paycheckai/paycheck"
	"github.com/paycheckai/paycheck/advisor"
	"github.com/paycheckai/paycheck/yahoo"
)

// session builds and validates the demo session configuration.
func session() (*paycheck.Config, error) {
	cfg := paycheck.DefaultConfig()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newProvider returns the market-data feed client.
func newProvider() paycheck.MarketDataProvider {
	return yahoo.NewClient()
}

// newRecommender wires the Gemini strategy when AI is enabled and a
// GEMINI_API_KEY is configured; otherwise every recommendation comes from
// the deterministic fallback rule.
func newRecommender(ctx context.Context, cfg *paycheck.Config, enableAI bool) *paycheck.Recommender {
	var primary paycheck.Strategy
	if enableAI && os.Getenv("GEMINI_API_KEY") != "" {
		client, err := genai.NewClient(ctx, nil)
		if err != nil {
			log.Printf("cannot initialize the Gemini client (%v), using the fallback strategy", err)
		} else {
			primary = advisor.New(cfg, client)
		}
	}
	return paycheck.NewRecommender(cfg, primary)
}

// printMarkdown renders markdown to the terminal through glamour, printing
// the raw text when rendering is not possible.
func printMarkdown(md string) {
	renderer, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(100))
	if err == nil {
		if out, err := renderer.Render(md); err == nil {
			fmt.Print(out)
			return
		}
	}
	fmt.Print(md)
}
