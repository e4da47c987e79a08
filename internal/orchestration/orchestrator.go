package orchestration

import (
	"context"
	"fmt"

	"github.com/go-logr/logr"

	"github.com/acuto/swarmstrap/internal/config"
	"github.com/acuto/swarmstrap/internal/guard"
	"github.com/acuto/swarmstrap/internal/sshexec"
	"github.com/acuto/swarmstrap/internal/swarm"
	"github.com/acuto/swarmstrap/internal/util/async"
)

// Orchestrator drives a host inventory to a converged swarm.
type Orchestrator struct {
	cfg   *config.Config
	guard guard.Guard
	log   logr.Logger

	installer   *swarm.Installer
	initializer *swarm.Initializer
	broker      *swarm.Broker
	coordinator *swarm.Coordinator
}

// New wires an Orchestrator from its collaborators.
func New(cfg *config.Config, exec sshexec.Executor, g guard.Guard, timeouts *config.Timeouts, log logr.Logger) *Orchestrator {
	return &Orchestrator{
		cfg:         cfg,
		guard:       g,
		log:         log,
		installer:   swarm.NewInstaller(exec, g, log, cfg.Install, timeouts),
		initializer: swarm.NewInitializer(exec, g, log),
		broker:      swarm.NewBroker(exec, log, timeouts),
		coordinator: swarm.NewCoordinator(exec, g, log, timeouts),
	}
}

// Run executes the full pipeline and reports every host's terminal state.
// The report is non-nil whenever the run got past leader initialization;
// the error is non-nil whenever anything failed, including partial success.
func (o *Orchestrator) Run(ctx context.Context) (*swarm.Report, error) {
	o.log.Info("bootstrapping cluster",
		"cluster", o.cfg.ClusterName, "hosts", len(o.cfg.Hosts))

	installFailures := o.installAll(ctx)

	leader := o.cfg.Leader()
	if err := installFailures[leader.Name]; err != nil {
		return nil, fmt.Errorf("leader cannot initialize without a runtime: %w", err)
	}

	if err := o.initializer.Initialize(ctx, leader); err != nil {
		return nil, err
	}

	creds, err := o.broker.IssueCredentials(ctx, leader)
	if err != nil {
		return nil, err
	}

	joinable := make([]config.Host, 0, len(o.cfg.Followers()))
	for _, host := range o.cfg.Followers() {
		if installFailures[host.Name] == nil {
			joinable = append(joinable, host)
		}
	}

	report := o.coordinator.JoinAll(ctx, joinable, leader, creds)

	// Hosts that failed installation never reached the join stage; they
	// still belong in the report.
	for _, host := range o.cfg.Followers() {
		if installErr := installFailures[host.Name]; installErr != nil {
			report.Add(swarm.Entry{
				Host:   host.Name,
				Role:   host.Role,
				Status: swarm.StatusSkipped,
				Err:    installErr,
			})
		}
	}

	if failed := report.Failed(); len(failed) > 0 {
		return report, fmt.Errorf("%d of %d hosts failed to converge", len(failed), len(report.Entries))
	}

	o.log.Info("cluster converged", "cluster", o.cfg.ClusterName)
	return report, nil
}

// installAll runs the runtime installer on every host concurrently, one
// task per host. Install has no cross-host ordering constraint.
func (o *Orchestrator) installAll(ctx context.Context) map[string]error {
	tasks := make([]async.Task, 0, len(o.cfg.Hosts))
	for _, host := range o.cfg.Hosts {
		tasks = append(tasks, async.Task{
			Name: host.Name,
			Func: func(ctx context.Context) error {
				return o.installer.Install(ctx, host)
			},
		})
	}
	return async.RunAll(ctx, tasks)
}

// HostStatus is one host's guard-marker state, probed read-only.
type HostStatus struct {
	Host        config.Host
	Installed   bool
	Initialized bool // leader only
	Joined      bool // followers only
}

// Status probes every host's completion markers without mutating anything.
// Probe errors surface per host so one unreachable machine does not hide
// the rest.
func (o *Orchestrator) Status(ctx context.Context) ([]HostStatus, map[string]error) {
	statuses := make([]HostStatus, len(o.cfg.Hosts))

	tasks := make([]async.Task, 0, len(o.cfg.Hosts))
	for i, host := range o.cfg.Hosts {
		tasks = append(tasks, async.Task{
			Name: host.Name,
			Func: func(ctx context.Context) error {
				status, err := o.probeHost(ctx, host)
				statuses[i] = status
				return err
			},
		})
	}
	failures := async.RunAll(ctx, tasks)
	return statuses, failures
}

func (o *Orchestrator) probeHost(ctx context.Context, host config.Host) (HostStatus, error) {
	status := HostStatus{Host: host}

	var err error
	if status.Installed, err = o.guard.IsDone(ctx, host, guard.OpInstall); err != nil {
		return status, err
	}

	if host.IsLeader() {
		status.Initialized, err = o.guard.IsDone(ctx, host, guard.OpInit)
		return status, err
	}
	status.Joined, err = o.guard.IsDone(ctx, host, guard.OpJoin)
	return status, err
}
