package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/subcommands"
	"github.com/rs/zerolog"

	"github.com/paycheckai/paycheck"
	"github.com/paycheckai/paycheck/server"
)

// serveCmd holds the flags for the 'serve' subcommand.
type serveCmd struct {
	port int
	ai   bool
}

func (*serveCmd) Name() string     { return "serve" }
func (*serveCmd) Synopsis() string { return "serve the session over a JSON API" }
func (*serveCmd) Usage() string {
	return `pay serve [-port <port>] [-ai=false]

  Starts the HTTP server backing the dashboard. The session lives in
  memory and ends with the process.
`
}

func (c *serveCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.port, "port", 8080, "Port to listen on")
	f.BoolVar(&c.ai, "ai", true, "Use the Gemini strategy when GEMINI_API_KEY is set")
}

func (c *serveCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	cfg, err := session()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		With().Timestamp().Logger()

	srv := server.New(server.Config{
		Port:        c.port,
		Log:         logger,
		Session:     cfg,
		Portfolio:   paycheck.NewPortfolio(cfg),
		Provider:    newProvider(),
		Recommender: newRecommender(ctx, cfg, c.ai),
	})

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("shutdown")
		}
	}()

	if err := srv.Start(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
