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

// runCmd holds the flags for the 'run' subcommand.
type runCmd struct {
	deposit float64
	ai      bool
	timeout time.Duration
}

func (*runCmd) Name() string { return "run" }
func (*runCmd) Synopsis() string {
	return "run a full session: deposit, recommend, execute, report"
}
func (*runCmd) Usage() string {
	return `pay run [-deposit <amount>] [-ai=false]

  Deposits a paycheck, fetches live quotes, generates a recommendation,
  executes it, and displays the resulting holdings and history.
`
}

func (c *runCmd) SetFlags(f *flag.FlagSet) {
	f.Float64Var(&c.deposit, "deposit", 0, "Paycheck amount to deposit (defaults to the configured paycheck)")
	f.BoolVar(&c.ai, "ai", true, "Use the Gemini strategy when GEMINI_API_KEY is set")
	f.DurationVar(&c.timeout, "timeout", 90*time.Second, "Timeout for the fetch and generate calls")
}

func (c *runCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
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
	if err := portfolio.Deposit(deposit); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	fmt.Printf("Deposited %s, cash balance is %s.\n\n", deposit, portfolio.Cash())

	snapshot, err := newProvider().Fetch(ctx, cfg.Tickers)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.Snapshot(snapshot))

	rec, err := newRecommender(ctx, cfg, c.ai).Generate(ctx, portfolio, snapshot, deposit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.Recommendation(rec))

	if _, err := portfolio.Apply(rec); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	printMarkdown(renderer.Holdings(cfg, portfolio, snapshot))
	printMarkdown(renderer.History(portfolio.History()))
	return subcommands.ExitSuccess
}
