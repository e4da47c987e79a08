package handlers

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/go-logr/logr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/acuto/swarmstrap/internal/config"
	"github.com/acuto/swarmstrap/internal/orchestration"
	"github.com/acuto/swarmstrap/internal/sshexec"
	"github.com/acuto/swarmstrap/internal/sshexec/sshexectest"
	"github.com/acuto/swarmstrap/internal/swarm"
)

type outputBuffer struct {
	b strings.Builder
}

func (o *outputBuffer) printf(format string, args ...any) {
	fmt.Fprintf(&o.b, format, args...)
}

func (o *outputBuffer) String() string { return o.b.String() }

type fakeRunner struct {
	report *swarm.Report
	err    error
}

func (f *fakeRunner) Run(context.Context) (*swarm.Report, error) { return f.report, f.err }

func testInventory() *config.Config {
	cfg, err := config.LoadFromBytes([]byte(`
cluster_name: demo
ssh:
  private_key: /keys/id_rsa
hosts:
  - name: leader
    address: 10.0.0.1
    role: leader
  - name: worker1
    address: 10.0.0.3
    role: worker
`))
	if err != nil {
		panic(err)
	}
	return cfg
}

func stubLoaders(cfg *config.Config) {
	loadConfigFile = func(string) (*config.Config, error) { return cfg, nil }
	loadTimeouts = func() *config.Timeouts {
		return &config.Timeouts{Remote: time.Minute, Join: time.Minute, RetryMaxAttempts: 1, RetryInitialDelay: time.Millisecond}
	}
	newExecutor = func(config.SSHConfig, time.Duration) (sshexec.Executor, error) {
		return sshexectest.New(), nil
	}
}

func TestLoadInventory_NoDefaultFile(t *testing.T) {
	saveAndRestoreFactories(t)

	findConfigFile = func() (string, error) {
		return "", errors.New("inventory file swarmstrap.yaml not found")
	}

	_, err := loadInventory("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no inventory file found")
	assert.Contains(t, err.Error(), "swarmstrap init")
}

func TestLoadInventory_ExplicitPath(t *testing.T) {
	saveAndRestoreFactories(t)

	var loadedPath string
	loadConfigFile = func(path string) (*config.Config, error) {
		loadedPath = path
		return testInventory(), nil
	}
	findConfigFile = func() (string, error) {
		t.Fatal("explicit path must not trigger discovery")
		return "", nil
	}

	cfg, err := loadInventory("prod.yaml")
	require.NoError(t, err)
	assert.Equal(t, "prod.yaml", loadedPath)
	assert.Equal(t, "demo", cfg.ClusterName)
}

func TestApply_Converged(t *testing.T) {
	saveAndRestoreFactories(t)
	out := captureOutput(t)
	stubLoaders(testInventory())

	report := &swarm.Report{LeaderInitialized: true}
	report.Add(swarm.Entry{Host: "worker1", Role: config.RoleWorker, Status: swarm.StatusJoined})
	newRunner = func(*config.Config, sshexec.Executor, *config.Timeouts, logr.Logger) Runner {
		return &fakeRunner{report: report}
	}

	err := Apply(context.Background(), "inventory.yaml")
	require.NoError(t, err)
	assert.Contains(t, out.String(), "worker1")
	assert.Contains(t, out.String(), "converged")
}

func TestApply_PartialFailureStillPrintsReport(t *testing.T) {
	saveAndRestoreFactories(t)
	out := captureOutput(t)
	stubLoaders(testInventory())

	report := &swarm.Report{LeaderInitialized: true}
	report.Add(swarm.Entry{Host: "worker1", Role: config.RoleWorker, Status: swarm.StatusFailed, Err: errors.New("no route to host")})
	newRunner = func(*config.Config, sshexec.Executor, *config.Timeouts, logr.Logger) Runner {
		return &fakeRunner{report: report, err: errors.New("1 of 1 hosts failed to converge")}
	}

	err := Apply(context.Background(), "inventory.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bootstrap failed")
	assert.Contains(t, out.String(), "no route to host", "partial successes and failures must still be reported")
}

func TestApply_FatalInitFailureHasNoReport(t *testing.T) {
	saveAndRestoreFactories(t)
	out := captureOutput(t)
	stubLoaders(testInventory())

	newRunner = func(*config.Config, sshexec.Executor, *config.Timeouts, logr.Logger) Runner {
		return &fakeRunner{err: &swarm.InitError{Host: "leader", Err: errors.New("unreachable")}}
	}

	err := Apply(context.Background(), "inventory.yaml")
	require.Error(t, err)

	var initErr *swarm.InitError
	assert.True(t, errors.As(err, &initErr))
	assert.NotContains(t, out.String(), "joined")
}

func TestApply_ExecutorConstructionFailure(t *testing.T) {
	saveAndRestoreFactories(t)
	stubLoaders(testInventory())

	newExecutor = func(config.SSHConfig, time.Duration) (sshexec.Executor, error) {
		return nil, errors.New("failed to read ssh private key")
	}
	newRunner = func(*config.Config, sshexec.Executor, *config.Timeouts, logr.Logger) Runner {
		t.Fatal("runner must not be built without an executor")
		return nil
	}

	err := Apply(context.Background(), "inventory.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ssh private key")
}

type fakeProber struct {
	statuses []orchestration.HostStatus
	failures map[string]error
}

func (f *fakeProber) Status(context.Context) ([]orchestration.HostStatus, map[string]error) {
	return f.statuses, f.failures
}

func TestStatus_PrintsPerHostState(t *testing.T) {
	saveAndRestoreFactories(t)
	out := captureOutput(t)
	cfg := testInventory()
	stubLoaders(cfg)

	newProber = func(*config.Config, sshexec.Executor, *config.Timeouts, logr.Logger) Prober {
		return &fakeProber{statuses: []orchestration.HostStatus{
			{Host: cfg.Hosts[0], Installed: true, Initialized: true},
			{Host: cfg.Hosts[1], Installed: true, Joined: false},
		}}
	}

	err := Status(context.Background(), "inventory.yaml")
	require.NoError(t, err)
	assert.Contains(t, out.String(), "initialized")
	assert.Contains(t, out.String(), "pending")
}

func TestStatus_ProbeFailureIsNonZero(t *testing.T) {
	saveAndRestoreFactories(t)
	out := captureOutput(t)
	cfg := testInventory()
	stubLoaders(cfg)

	newProber = func(*config.Config, sshexec.Executor, *config.Timeouts, logr.Logger) Prober {
		return &fakeProber{
			statuses: []orchestration.HostStatus{
				{Host: cfg.Hosts[0], Installed: true, Initialized: true},
				{Host: cfg.Hosts[1]},
			},
			failures: map[string]error{"worker1": errors.New("connection refused")},
		}
	}

	err := Status(context.Background(), "inventory.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to probe 1 of 2 hosts")
	assert.Contains(t, out.String(), "unreachable")
}
