// Command pay is the paycheck-to-portfolio demo CLI.
package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"
	"github.com/joho/godotenv"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"

	"github.com/paycheckai/paycheck/cmd"
)

func main() {
	// pick up GEMINI_API_KEY from a local .env, if any
	_ = godotenv.Load()

	// shell completion, installed with COMP_INSTALL=1 pay
	completion()

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))

	for _, c := range cmd.Commands {
		commander.Register(c, "")
	}

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}

func completion() {
	strategyFlags := map[string]complete.Predictor{
		"deposit": predict.Something,
		"ai":      predict.Set{"true", "false"},
		"timeout": predict.Something,
	}
	pay := &complete.Command{
		Sub: map[string]*complete.Command{
			"quotes":    {Flags: map[string]complete.Predictor{"timeout": predict.Something}},
			"recommend": {Flags: strategyFlags},
			"run":       {Flags: strategyFlags},
			"serve": {Flags: map[string]complete.Predictor{
				"port": predict.Something,
				"ai":   predict.Set{"true", "false"},
			}},
			"topic": {Args: predict.Set{"readme", "allocation", "strategy"}},
		},
	}
	pay.Complete("pay")
}
