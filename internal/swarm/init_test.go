package swarm

import (
	"context"
	"errors"
	"testing"

	"github.com/go-logr/logr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/acuto/swarmstrap/internal/config"
	"github.com/acuto/swarmstrap/internal/guard"
	"github.com/acuto/swarmstrap/internal/sshexec/sshexectest"
)

var leaderHost = config.Host{Name: "leader", Address: "10.0.0.1", Role: config.RoleLeader}

func newInitializer(fake *sshexectest.Fake) *Initializer {
	return NewInitializer(fake, guard.NewMarkerGuard(fake), logr.Discard())
}

func TestInitialize_SkipsWhenMarkerPresent(t *testing.T) {
	t.Parallel()

	fake := sshexectest.New()
	fake.On("test -e", sshexectest.Exit(0, ""))

	err := newInitializer(fake).Initialize(context.Background(), leaderHost)
	require.NoError(t, err)
	assert.Zero(t, fake.CountContaining("swarm init"), "re-initializing would invalidate existing join tokens")
}

func TestInitialize_LiveSwarmStateIsAuthoritative(t *testing.T) {
	t.Parallel()

	// Marker missing but docker already reports an active manager: the run
	// crashed between swarm init and the marker write.
	fake := sshexectest.New()
	fake.On("test -e", sshexectest.Exit(1, ""))
	fake.On("docker info", sshexectest.Exit(0, "true\n"))

	err := newInitializer(fake).Initialize(context.Background(), leaderHost)
	require.NoError(t, err)
	assert.Zero(t, fake.CountContaining("swarm init"))
	assert.Equal(t, 1, fake.CountContaining("touch /var/lib/swarmstrap/swarm-init.done"), "marker must be restored")
}

func TestInitialize_BootstrapsNewSwarm(t *testing.T) {
	t.Parallel()

	fake := sshexectest.New()
	fake.On("test -e", sshexectest.Exit(1, ""))
	fake.On("docker info", sshexectest.Exit(0, "false\n"))

	err := newInitializer(fake).Initialize(context.Background(), leaderHost)
	require.NoError(t, err)

	assert.Equal(t, 1, fake.CountContaining("docker swarm init --advertise-addr 10.0.0.1"))
	assert.Equal(t, 1, fake.CountContaining("touch /var/lib/swarmstrap/swarm-init.done"))
}

func TestInitialize_FailureIsInitError(t *testing.T) {
	t.Parallel()

	fake := sshexectest.New()
	fake.On("test -e", sshexectest.Exit(1, ""))
	fake.On("docker info", sshexectest.Exit(0, "false\n"))
	fake.On("swarm init", sshexectest.Exit(1, "Error response from daemon: could not choose an IP address to advertise"))

	err := newInitializer(fake).Initialize(context.Background(), leaderHost)
	require.Error(t, err)

	var initErr *InitError
	require.True(t, errors.As(err, &initErr))
	assert.Equal(t, "leader", initErr.Host)
	assert.Contains(t, err.Error(), "could not choose an IP address")
	assert.Equal(t, 1, fake.CountContaining("swarm init"), "initialization is never auto-retried")
}

func TestInitialize_TransportFailureIsInitError(t *testing.T) {
	t.Parallel()

	fake := sshexectest.New()
	fake.On("test -e", sshexectest.Exit(1, ""))
	fake.On("docker info", sshexectest.Exit(0, "false\n"))
	fake.On("swarm init", sshexectest.Err(errors.New("dial tcp 10.0.0.1:22: i/o timeout")))

	err := newInitializer(fake).Initialize(context.Background(), leaderHost)
	var initErr *InitError
	require.True(t, errors.As(err, &initErr))
}

func TestInitialize_StateProbeFailureFallsThroughToInit(t *testing.T) {
	t.Parallel()

	fake := sshexectest.New()
	fake.On("test -e", sshexectest.Exit(1, ""))
	fake.On("docker info", sshexectest.Err(errors.New("docker not running yet")))

	err := newInitializer(fake).Initialize(context.Background(), leaderHost)
	require.NoError(t, err)
	assert.Equal(t, 1, fake.CountContaining("swarm init"))
}
