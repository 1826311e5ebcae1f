// Package advisor implements the AI-powered recommendation strategy on top
// of Gemini, together with the deterministic market-condition analysis that
// feeds it.
package advisor

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/paycheckai/paycheck"
	"github.com/paycheckai/paycheck/docs"
)

// Model is the Gemini model used for advisory calls.
const Model = "gemini-2.5-flash"

const systemInstruction = `You are an expert financial advisor managing a small ETF portfolio.
You receive the current portfolio, a market snapshot and a target allocation,
and answer with specific buy/sell recommendations as strict JSON.
Answer ONLY with the JSON object, no explanations or additional text.`

// Strategy asks Gemini for buy/sell recommendations. It implements
// paycheck.Strategy; any transport, schema or validation failure is
// returned as an error so the caller can fall back to the deterministic
// rule.
type Strategy struct {
	cfg    *paycheck.Config
	client *genai.Client
	model  string
}

// New creates the Gemini strategy. The client carries the API credential
// (read from the environment by genai.NewClient).
func New(cfg *paycheck.Config, client *genai.Client) *Strategy {
	return &Strategy{cfg: cfg, client: client, model: Model}
}

// Name identifies the strategy in recommendation sources.
func (s *Strategy) Name() string { return "gemini" }

// Generate implements paycheck.Strategy.
func (s *Strategy) Generate(ctx context.Context, p *paycheck.Portfolio, snapshot paycheck.MarketSnapshot, deposit paycheck.Money) (paycheck.Recommendation, error) {
	analysis := Analyze(s.cfg, snapshot)
	prompt, err := buildPrompt(s.cfg, p, snapshot, analysis, deposit)
	if err != nil {
		return paycheck.Recommendation{}, fmt.Errorf("building prompt: %w", err)
	}

	resp, err := s.client.Models.GenerateContent(ctx, s.model, genai.Text(prompt), s.generateConfig())
	if err != nil {
		return paycheck.Recommendation{}, fmt.Errorf("model call failed: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return paycheck.Recommendation{}, fmt.Errorf("empty response from %s", s.model)
	}

	rec, err := parseResponse(resp.Candidates[0].Content.Parts[0].Text, snapshot)
	if err != nil {
		return paycheck.Recommendation{}, fmt.Errorf("invalid model response: %w", err)
	}
	return rec, nil
}

func (s *Strategy) generateConfig() *genai.GenerateContentConfig {
	instruction := systemInstruction
	if topic, err := docs.GetTopic("allocation"); err == nil {
		instruction += "\n\nThe allocation model in use:\n\n" + topic
	}
	return &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: instruction}},
		},
	}
}
