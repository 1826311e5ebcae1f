// Package cmd implements the pay CLI: one in-memory session per invocation,
// driven by subcommands.
package cmd

import (
	"github.com/google/subcommands"
)

// Commands lists the subcommands of the pay CLI.
// A main package registers them all and executes the user-selected one.
var Commands = []subcommands.Command{
	&quotesCmd{},
	&recommendCmd{},
	&runCmd{},
	&serveCmd{},
	&topicCmd{},
}
