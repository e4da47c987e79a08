// Package sshexec executes named commands on inventory hosts over SSH.
//
// The executor is the only component that touches the network. Everything
// above it treats a command's exit code as data: a command that ran and
// exited non-zero is a successful execution with ExitCode set, while a
// transport problem (unreachable host, bad key, lost session) is an error.
package sshexec

import (
	"context"

	"github.com/acuto/swarmstrap/internal/config"
)

// Result is the outcome of a command that reached the host and ran.
type Result struct {
	Stdout   string
	ExitCode int
}

// Executor runs a command on a specific host, blocking until the remote side
// responds or the context/timeout expires.
type Executor interface {
	Execute(ctx context.Context, host config.Host, command string) (Result, error)
}
