package swarm

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-logr/logr"

	"github.com/acuto/swarmstrap/internal/config"
	"github.com/acuto/swarmstrap/internal/guard"
	"github.com/acuto/swarmstrap/internal/sshexec"
)

// swarmStateCommand reports whether the node is an active swarm manager.
const swarmStateCommand = "sudo docker info --format '{{.Swarm.ControlAvailable}}'"

// Initializer bootstraps the swarm on the designated leader. Initialization
// is never retried automatically: re-initializing an existing swarm would
// invalidate membership and every previously distributed join token, so on
// failure the whole orchestrator must be re-invoked and the guard resumes it.
type Initializer struct {
	exec  sshexec.Executor
	guard guard.Guard
	log   logr.Logger
}

// NewInitializer returns an Initializer.
func NewInitializer(exec sshexec.Executor, g guard.Guard, log logr.Logger) *Initializer {
	return &Initializer{exec: exec, guard: g, log: log.WithName("initializer")}
}

// Initialize makes leader the bootstrap root of a new swarm, advertised on
// its declared address. Skips when the init marker exists, or when the
// host's live state already shows an active manager (covers the crash window
// between a successful init and a failed marker write).
func (n *Initializer) Initialize(ctx context.Context, leader config.Host) error {
	done, err := n.guard.IsDone(ctx, leader, guard.OpInit)
	if err != nil {
		return &InitError{Host: leader.Name, Err: err}
	}
	if done {
		n.log.Info("swarm already initialized, skipping", "leader", leader.Name)
		return nil
	}

	if n.isLiveManager(ctx, leader) {
		n.log.Info("leader already runs an active swarm, restoring marker", "leader", leader.Name)
		if err := n.guard.MarkDone(ctx, leader, guard.OpInit); err != nil {
			return &InitError{Host: leader.Name, Err: err}
		}
		return nil
	}

	n.log.Info("initializing swarm", "leader", leader.Name, "advertiseAddr", leader.Address)

	command := fmt.Sprintf("sudo docker swarm init --advertise-addr %s", leader.Address)
	res, err := n.exec.Execute(ctx, leader, command)
	if err != nil {
		return &InitError{Host: leader.Name, Err: err}
	}
	if res.ExitCode != 0 {
		return &InitError{
			Host: leader.Name,
			Err:  fmt.Errorf("swarm init exited %d: %s", res.ExitCode, lastLine(res.Stdout)),
		}
	}

	if err := n.guard.MarkDone(ctx, leader, guard.OpInit); err != nil {
		return &InitError{Host: leader.Name, Err: err}
	}

	n.log.Info("swarm initialized", "leader", leader.Name)
	return nil
}

// isLiveManager probes the leader's runtime state. Probe failures are
// treated as "not a manager": initialization proceeds and reports its own,
// more precise error if the runtime is genuinely broken.
func (n *Initializer) isLiveManager(ctx context.Context, leader config.Host) bool {
	res, err := n.exec.Execute(ctx, leader, swarmStateCommand)
	if err != nil || res.ExitCode != 0 {
		return false
	}
	return strings.TrimSpace(res.Stdout) == "true"
}
