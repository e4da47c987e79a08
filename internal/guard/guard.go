// Package guard enforces at-most-once execution of mutating steps.
//
// Every mutating operation the orchestrator performs on a host is bracketed
// by this guard: consulted before, marked after. The ground truth is a marker
// file on the host itself, not local bookkeeping, so a re-run after a crash
// or partial failure resumes from the first genuinely incomplete step.
package guard

import (
	"context"
	"fmt"
	"path"
	"sync"

	"github.com/acuto/swarmstrap/internal/config"
	"github.com/acuto/swarmstrap/internal/sshexec"
)

// Operation names a mutating step tracked per host.
type Operation string

// Tracked operations. The marker filename is derived from the operation name.
const (
	OpInstall Operation = "install"
	OpInit    Operation = "swarm-init"
	OpJoin    Operation = "swarm-join"
)

// MarkerDir is where completion markers live on each host.
const MarkerDir = "/var/lib/swarmstrap"

// Guard answers whether a (host, operation) pair already ran and records
// completion. Implementations must be safe for concurrent use across hosts.
type Guard interface {
	IsDone(ctx context.Context, host config.Host, op Operation) (bool, error)
	MarkDone(ctx context.Context, host config.Host, op Operation) error
}

// MarkerGuard probes marker files on the target host through the executor.
// Positive answers are memoized for the run; negative answers never are,
// because another invocation may complete the step at any time.
type MarkerGuard struct {
	exec sshexec.Executor

	mu   sync.Mutex
	done map[string]bool
}

// NewMarkerGuard returns a guard backed by marker files under MarkerDir.
func NewMarkerGuard(exec sshexec.Executor) *MarkerGuard {
	return &MarkerGuard{
		exec: exec,
		done: make(map[string]bool),
	}
}

// MarkerPath returns the on-host marker file for an operation.
func MarkerPath(op Operation) string {
	return path.Join(MarkerDir, string(op)+".done")
}

// IsDone reports whether op already completed on host. The remote marker is
// authoritative; the in-memory memo only avoids repeat probes within a run.
func (g *MarkerGuard) IsDone(ctx context.Context, host config.Host, op Operation) (bool, error) {
	key := memoKey(host, op)

	g.mu.Lock()
	memoized := g.done[key]
	g.mu.Unlock()
	if memoized {
		return true, nil
	}

	res, err := g.exec.Execute(ctx, host, fmt.Sprintf("test -e %s", MarkerPath(op)))
	if err != nil {
		return false, fmt.Errorf("host %s: failed to probe %s marker: %w", host.Name, op, err)
	}
	if res.ExitCode != 0 {
		return false, nil
	}

	g.mu.Lock()
	g.done[key] = true
	g.mu.Unlock()
	return true, nil
}

// MarkDone records completion of op on host by creating its marker file.
func (g *MarkerGuard) MarkDone(ctx context.Context, host config.Host, op Operation) error {
	cmd := fmt.Sprintf("sudo mkdir -p %s && sudo touch %s", MarkerDir, MarkerPath(op))
	res, err := g.exec.Execute(ctx, host, cmd)
	if err != nil {
		return fmt.Errorf("host %s: failed to write %s marker: %w", host.Name, op, err)
	}
	if res.ExitCode != 0 {
		return fmt.Errorf("host %s: writing %s marker exited %d: %s", host.Name, op, res.ExitCode, res.Stdout)
	}

	g.mu.Lock()
	g.done[memoKey(host, op)] = true
	g.mu.Unlock()
	return nil
}

func memoKey(host config.Host, op Operation) string {
	return host.Name + "/" + string(op)
}
