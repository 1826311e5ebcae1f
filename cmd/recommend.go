package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/subcommands"

	"github.com/paycheckai/paycheck"
	"github.com/paycheckai/paycheck/renderer"
)

// recommendCmd holds the flags for the 'recommend' subcommand.
type recommendCmd struct {
	deposit float64
	ai      bool
	timeout time.Duration
}

func (*recommendCmd) Name() string { return "recommend" }
func (*recommendCmd) Synopsis() string {
	return "generate an investment recommendation for a paycheck deposit"
}
func (*recommendCmd) Usage() string {
	return `pay recommend [-deposit <amount>] [-ai=false]

  Fetches live quotes and generates a recommendation for investing the
  deposit, without executing it.
`
}

func (c *recommendCmd) SetFlags(f *flag.FlagSet) {
	f.Float64Var(&c.deposit, "deposit", 0, "Paycheck amount to invest (defaults to the configured paycheck)")
	f.BoolVar(&c.ai, "ai", true, "Use the Gemini strategy when GEMINI_API_KEY is set")
	f.DurationVar(&c.timeout, "timeout", 90*time.Second, "Timeout for the fetch and generate calls")
}

func (c *recommendCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	cfg, err := session()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	deposit := cfg.DefaultPaycheck
	if c.deposit > 0 {
		deposit = paycheck.M(c.deposit, cfg.Currency)
	}

	portfolio := paycheck.NewPortfolio(cfg)
	snapshot, err := newProvider().Fetch(ctx, cfg.Tickers)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	rec, err := newRecommender(ctx, cfg, c.ai).Generate(ctx, portfolio, snapshot, deposit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	printMarkdown(renderer.Recommendation(rec))
	return subcommands.ExitSuccess
}
