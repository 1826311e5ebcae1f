package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/subcommands"

	"github.com/paycheckai/paycheck/renderer"
)

// quotesCmd holds the flags for the 'quotes' subcommand.
type quotesCmd struct {
	timeout time.Duration
}

func (*quotesCmd) Name() string     { return "quotes" }
func (*quotesCmd) Synopsis() string { return "fetch and display live quotes for the tracked tickers" }
func (*quotesCmd) Usage() string {
	return `pay quotes [-timeout <duration>]

  Fetches a market snapshot for all tracked tickers and displays it.
`
}

func (c *quotesCmd) SetFlags(f *flag.FlagSet) {
	f.DurationVar(&c.timeout, "timeout", 30*time.Second, "Timeout for the market data fetch")
}

func (c *quotesCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	cfg, err := session()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	snapshot, err := newProvider().Fetch(ctx, cfg.Tickers)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	printMarkdown(renderer.Snapshot(snapshot))
	return subcommands.ExitSuccess
}
