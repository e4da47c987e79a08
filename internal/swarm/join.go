package swarm

import (
	"context"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/go-logr/logr"

	"github.com/acuto/swarmstrap/internal/config"
	"github.com/acuto/swarmstrap/internal/guard"
	"github.com/acuto/swarmstrap/internal/sshexec"
	"github.com/acuto/swarmstrap/internal/util/async"
)

// swarmPort is the fixed Docker Swarm management port.
const swarmPort = "2377"

// Coordinator delivers the role-matching join credential to every non-leader
// host and drives each to join exactly once. Joins run concurrently; one
// host's failure never blocks another's.
type Coordinator struct {
	exec        sshexec.Executor
	guard       guard.Guard
	log         logr.Logger
	joinTimeout time.Duration
}

// NewCoordinator returns a Coordinator whose join commands run under the
// join timeout rather than the generic per-command budget; a join blocks on
// raft membership changes and may legitimately outlast other commands.
func NewCoordinator(exec sshexec.Executor, g guard.Guard, log logr.Logger, timeouts *config.Timeouts) *Coordinator {
	return &Coordinator{
		exec:        exec,
		guard:       g,
		log:         log.WithName("coordinator"),
		joinTimeout: timeouts.Join,
	}
}

// JoinAll joins every follower to the swarm at the leader's address. The
// returned report holds one entry per follower; it never aborts early.
func (c *Coordinator) JoinAll(ctx context.Context, followers []config.Host, leader config.Host, creds Credentials) *Report {
	entries := make([]Entry, len(followers))

	tasks := make([]async.Task, 0, len(followers))
	for i, host := range followers {
		tasks = append(tasks, async.Task{
			Name: host.Name,
			Func: func(ctx context.Context) error {
				entries[i] = c.joinOne(ctx, host, leader, creds)
				return nil
			},
		})
	}
	async.RunAll(ctx, tasks)

	report := &Report{LeaderInitialized: true}
	for _, e := range entries {
		report.Add(e)
	}
	return report
}

// joinOne drives a single host through its one-shot join. The join is never
// auto-retried past the idempotency recheck: a second attempt with a live
// membership would fail anyway, and the caller can safely re-run the whole
// orchestrator instead.
func (c *Coordinator) joinOne(ctx context.Context, host, leader config.Host, creds Credentials) Entry {
	entry := Entry{Host: host.Name, Role: host.Role}

	done, err := c.guard.IsDone(ctx, host, guard.OpJoin)
	if err != nil {
		entry.Status = StatusFailed
		entry.Err = &JoinError{Host: host.Name, Err: err}
		return entry
	}
	if done {
		c.log.Info("host already joined, skipping", "host", host.Name)
		entry.Status = StatusAlreadyJoined
		return entry
	}

	cred, err := creds.ForRole(host.Role)
	if err != nil {
		entry.Status = StatusFailed
		entry.Err = &JoinError{Host: host.Name, Err: err}
		return entry
	}

	c.log.Info("joining swarm", "host", host.Name, "credential", cred)

	command := fmt.Sprintf("sudo docker swarm join --token %s %s",
		cred.Secret, net.JoinHostPort(leader.Address, swarmPort))

	joinCtx, cancel := context.WithTimeout(ctx, c.joinTimeout)
	defer cancel()

	res, err := c.exec.Execute(joinCtx, host, command)
	switch {
	case err != nil:
		entry.Status = StatusFailed
		entry.Err = &JoinError{Host: host.Name, Err: err}
		return entry
	case res.ExitCode != 0 && isAlreadyMember(res.Stdout):
		// Joined in an earlier run that crashed before writing the marker.
		// The live membership is authoritative; restore the marker.
		entry.Status = StatusAlreadyJoined
	case res.ExitCode != 0:
		entry.Status = StatusFailed
		entry.Err = &JoinError{
			Host: host.Name,
			Err:  fmt.Errorf("swarm join exited %d: %s", res.ExitCode, lastLine(res.Stdout)),
		}
		return entry
	default:
		entry.Status = StatusJoined
	}

	if err := c.guard.MarkDone(ctx, host, guard.OpJoin); err != nil {
		entry.Status = StatusFailed
		entry.Err = &JoinError{Host: host.Name, Err: err}
		return entry
	}

	if entry.Status == StatusJoined {
		c.log.Info("host joined", "host", host.Name, "role", host.Role)
	}
	return entry
}

func isAlreadyMember(output string) bool {
	return strings.Contains(output, "This node is already part of a swarm")
}
