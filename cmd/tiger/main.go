// Command tiger is the case processing CLI.
package main

import (
	"os"

	"github.com/caselens/tiger/internal/interfaces/cli"
)

// Build-time variables injected via ldflags.
var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

func init() {
	cli.Version = version
	cli.GitCommit = commit
	cli.BuildDate = buildDate
}

func main() {
	// Execute prints the failure to stderr before returning it.
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
