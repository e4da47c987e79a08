package swarm

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-logr/logr"

	"github.com/acuto/swarmstrap/internal/config"
	"github.com/acuto/swarmstrap/internal/guard"
	"github.com/acuto/swarmstrap/internal/sshexec"
	"github.com/acuto/swarmstrap/internal/util/retry"
)

// Installer ensures the container runtime is present and usable on a host,
// regardless of its role. Installation is order-independent across hosts and
// safe to run concurrently for all of them.
type Installer struct {
	exec      sshexec.Executor
	guard     guard.Guard
	log       logr.Logger
	cfg       config.InstallConfig
	retryOpts []retry.Option
}

// NewInstaller returns an Installer for the inventory's install settings.
func NewInstaller(exec sshexec.Executor, g guard.Guard, log logr.Logger, cfg config.InstallConfig, timeouts *config.Timeouts) *Installer {
	return &Installer{
		exec:  exec,
		guard: g,
		log:   log.WithName("installer"),
		cfg:   cfg,
		retryOpts: []retry.Option{
			retry.WithMaxRetries(timeouts.RetryMaxAttempts),
			retry.WithInitialDelay(timeouts.RetryInitialDelay),
		},
	}
}

type installStep struct {
	name    string
	command string
	// retryable marks steps whose failures are usually transient, like apt
	// racing an unattended-upgrades lock on a fresh host.
	retryable bool
}

func (i *Installer) steps() []installStep {
	steps := make([]installStep, 0, 4)

	if i.cfg.AptRepo != "" {
		steps = append(steps, installStep{
			name: "add-package-source",
			command: fmt.Sprintf("echo %q | sudo tee /etc/apt/sources.list.d/swarmstrap.list >/dev/null",
				i.cfg.AptRepo),
		})
	}

	steps = append(steps,
		installStep{
			name:      "refresh-package-index",
			command:   "sudo apt-get update -q",
			retryable: true,
		},
		installStep{
			name: "install-packages",
			command: fmt.Sprintf("sudo DEBIAN_FRONTEND=noninteractive apt-get install -y -q %s",
				strings.Join(i.cfg.Packages, " ")),
			retryable: true,
		},
		installStep{
			name:    "grant-docker-group",
			command: fmt.Sprintf("sudo usermod -aG docker %s", i.cfg.OperatorUser),
		},
	)
	return steps
}

// Install runs the installation sub-steps on host, skipping entirely when
// the host already carries the install marker. Each sub-step failure names
// the step in the returned InstallError.
func (i *Installer) Install(ctx context.Context, host config.Host) error {
	done, err := i.guard.IsDone(ctx, host, guard.OpInstall)
	if err != nil {
		return &InstallError{Host: host.Name, Step: "probe-marker", Err: err}
	}
	if done {
		i.log.Info("runtime already installed, skipping", "host", host.Name)
		return nil
	}

	i.log.Info("installing container runtime", "host", host.Name, "packages", i.cfg.Packages)

	for _, step := range i.steps() {
		if err := i.runStep(ctx, host, step); err != nil {
			return &InstallError{Host: host.Name, Step: step.name, Err: err}
		}
	}

	if err := i.guard.MarkDone(ctx, host, guard.OpInstall); err != nil {
		return &InstallError{Host: host.Name, Step: "record-completion", Err: err}
	}

	i.log.Info("runtime installed", "host", host.Name)
	return nil
}

func (i *Installer) runStep(ctx context.Context, host config.Host, step installStep) error {
	run := func() error {
		res, err := i.exec.Execute(ctx, host, step.command)
		if err != nil {
			return err
		}
		if res.ExitCode != 0 {
			return fmt.Errorf("exited %d: %s", res.ExitCode, lastLine(res.Stdout))
		}
		return nil
	}

	if step.retryable {
		return retry.Do(ctx, run, i.retryOpts...)
	}
	return run()
}

// lastLine returns the final non-empty output line, which for apt and
// usermod is where the actual complaint lives.
func lastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	for idx := len(lines) - 1; idx >= 0; idx-- {
		if line := strings.TrimSpace(lines[idx]); line != "" {
			return line
		}
	}
	return ""
}
