// Package handlers implements the business logic for CLI commands.
//
// This package contains handler functions that are called by command
// definitions in the commands package. Handlers are framework-agnostic and
// can be tested independently of the CLI framework.
package handlers

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/go-logr/logr"
	"github.com/go-logr/logr/funcr"

	"github.com/acuto/swarmstrap/internal/config"
	"github.com/acuto/swarmstrap/internal/guard"
	"github.com/acuto/swarmstrap/internal/orchestration"
	"github.com/acuto/swarmstrap/internal/sshexec"
	"github.com/acuto/swarmstrap/internal/swarm"
)

// Runner matches orchestration.Orchestrator for testing.
type Runner interface {
	Run(ctx context.Context) (*swarm.Report, error)
}

// Prober matches the read-only side of orchestration.Orchestrator.
type Prober interface {
	Status(ctx context.Context) ([]orchestration.HostStatus, map[string]error)
}

// Factory function variables - can be replaced in tests for dependency injection.
var (
	// loadConfigFile loads the inventory from a file.
	loadConfigFile = config.Load

	// findConfigFile locates the default inventory file.
	findConfigFile = config.FindConfigFile

	// loadTimeouts loads remote-operation timeouts from the environment.
	loadTimeouts = config.LoadTimeouts

	// newExecutor builds the SSH executor for the inventory's hosts.
	newExecutor = func(sshCfg config.SSHConfig, commandTimeout time.Duration) (sshexec.Executor, error) {
		return sshexec.NewClient(sshCfg, commandTimeout)
	}

	// newRunner builds the bootstrap orchestrator.
	newRunner = func(cfg *config.Config, exec sshexec.Executor, timeouts *config.Timeouts, logger logr.Logger) Runner {
		return orchestration.New(cfg, exec, guard.NewMarkerGuard(exec), timeouts, logger)
	}

	// newProber builds the read-only status prober.
	newProber = func(cfg *config.Config, exec sshexec.Executor, timeouts *config.Timeouts, logger logr.Logger) Prober {
		return orchestration.New(cfg, exec, guard.NewMarkerGuard(exec), timeouts, logger)
	}

	// printf writes operator-facing output (for testing injection).
	printf = func(format string, args ...any) {
		fmt.Printf(format, args...)
	}
)

// Apply converges the inventory into a running swarm cluster.
//
// The workflow:
//  1. Loads and validates the inventory (exactly one leader, unique hosts)
//  2. Builds the SSH executor from the inventory's credentials
//  3. Runs the bootstrap pipeline: install, init, credentials, joins
//  4. Prints the per-host report and returns an error unless every host
//     converged, so the process exits non-zero on any failure
func Apply(ctx context.Context, configPath string) error {
	cfg, err := loadInventory(configPath)
	if err != nil {
		return err
	}

	timeouts := loadTimeouts()
	exec, err := newExecutor(cfg.SSH, timeouts.Remote)
	if err != nil {
		return err
	}

	report, runErr := newRunner(cfg, exec, timeouts, newLogger()).Run(ctx)
	if report != nil {
		printf("\nCluster %s:\n%s", cfg.ClusterName, report.Summary())
	}
	if runErr != nil {
		return fmt.Errorf("bootstrap failed: %w", runErr)
	}

	printf("\nCluster %s converged: leader %s initialized, %d hosts joined.\n",
		cfg.ClusterName, cfg.Leader().Name, len(report.Entries))
	return nil
}

// loadInventory resolves the inventory path and loads it. An empty path
// falls back to swarmstrap.yaml in the current directory.
func loadInventory(configPath string) (*config.Config, error) {
	if configPath == "" {
		path, err := findConfigFile()
		if err != nil {
			return nil, fmt.Errorf("no inventory file found: %w\nRun 'swarmstrap init' to create one", err)
		}
		configPath = path
	}

	cfg, err := loadConfigFile(configPath)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// newLogger adapts the standard logger into a logr.Logger so internal
// components get structured key/value logging without a second sink.
func newLogger() logr.Logger {
	return funcr.New(func(prefix, args string) {
		if prefix != "" {
			log.Printf("[%s] %s", prefix, args)
			return
		}
		log.Print(args)
	}, funcr.Options{})
}
