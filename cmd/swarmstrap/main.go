// Package main is the entry point for the swarmstrap CLI.
//
// swarmstrap bootstraps a fixed set of freshly provisioned hosts into a
// Docker Swarm cluster: one leader, optional redundant managers, and
// workers. Every mutating step is idempotent, so the command can be re-run
// safely after partial failures.
//
// Commands: init, apply, status, version, completion.
//
// For detailed usage information, run:
//
//	swarmstrap --help
package main

import (
	"fmt"
	"os"

	"github.com/acuto/swarmstrap/cmd/swarmstrap/commands"
)

// Version information set by goreleaser at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	commands.SetVersionInfo(version, commit, date)
	if err := commands.Root().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
