// Package sshexectest provides a scripted in-memory Executor for tests.
package sshexectest

import (
	"context"
	"strings"
	"sync"

	"github.com/acuto/swarmstrap/internal/config"
	"github.com/acuto/swarmstrap/internal/sshexec"
)

// Call records one command dispatched to the fake.
type Call struct {
	Host    string
	Command string
}

// Responder produces the result for a matched command.
type Responder func(host config.Host, command string) (sshexec.Result, error)

// Exit returns a Responder with a fixed exit code and stdout.
func Exit(code int, stdout string) Responder {
	return func(config.Host, string) (sshexec.Result, error) {
		return sshexec.Result{Stdout: stdout, ExitCode: code}, nil
	}
}

// Err returns a Responder that fails at the transport level.
func Err(err error) Responder {
	return func(config.Host, string) (sshexec.Result, error) {
		return sshexec.Result{}, err
	}
}

type rule struct {
	host    string // empty matches any host
	substr  string
	respond Responder
}

// Fake is a scripted sshexec.Executor. Rules are matched in registration
// order against the command string; unmatched commands succeed with exit 0.
// It is safe for concurrent use.
type Fake struct {
	mu    sync.Mutex
	calls []Call
	rules []rule
}

// New returns an empty Fake where every command succeeds.
func New() *Fake {
	return &Fake{}
}

// On registers a responder for any host whose command contains substr.
func (f *Fake) On(substr string, respond Responder) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rules = append(f.rules, rule{substr: substr, respond: respond})
}

// OnHost registers a responder for one host whose command contains substr.
func (f *Fake) OnHost(hostName, substr string, respond Responder) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rules = append(f.rules, rule{host: hostName, substr: substr, respond: respond})
}

// Execute implements sshexec.Executor.
func (f *Fake) Execute(ctx context.Context, host config.Host, command string) (sshexec.Result, error) {
	if err := ctx.Err(); err != nil {
		return sshexec.Result{}, err
	}

	f.mu.Lock()
	f.calls = append(f.calls, Call{Host: host.Name, Command: command})
	var matched Responder
	for _, r := range f.rules {
		if r.host != "" && r.host != host.Name {
			continue
		}
		if strings.Contains(command, r.substr) {
			matched = r.respond
			break
		}
	}
	f.mu.Unlock()

	if matched != nil {
		return matched(host, command)
	}
	return sshexec.Result{ExitCode: 0}, nil
}

// Calls returns a copy of every recorded call in dispatch order.
func (f *Fake) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Call, len(f.calls))
	copy(out, f.calls)
	return out
}

// CommandsFor returns the commands dispatched to one host, in order.
func (f *Fake) CommandsFor(hostName string) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for _, c := range f.calls {
		if c.Host == hostName {
			out = append(out, c.Command)
		}
	}
	return out
}

// CountContaining returns how many dispatched commands contain substr.
func (f *Fake) CountContaining(substr string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if strings.Contains(c.Command, substr) {
			n++
		}
	}
	return n
}
