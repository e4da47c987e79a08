package swarm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-logr/logr"

	"github.com/acuto/swarmstrap/internal/config"
	"github.com/acuto/swarmstrap/internal/sshexec"
	"github.com/acuto/swarmstrap/internal/util/retry"
)

// CredentialClass distinguishes control-plane joins from worker joins.
type CredentialClass string

// Credential classes, matching the token classes Docker Swarm mints.
const (
	ManagerJoin CredentialClass = "manager"
	WorkerJoin  CredentialClass = "worker"
)

// JoinCredential is an opaque, role-scoped secret authorizing a host to
// join the cluster. It lives in memory for the duration of one run and is
// never persisted by the orchestrator.
type JoinCredential struct {
	Class    CredentialClass
	Secret   string
	IssuedBy string
}

// String redacts the secret so credentials are safe to log.
func (c JoinCredential) String() string {
	return fmt.Sprintf("%s join credential issued by %s [redacted]", c.Class, c.IssuedBy)
}

// GoString redacts the secret under %#v as well.
func (c JoinCredential) GoString() string { return c.String() }

// Credentials is the pair of join tokens the leader holds after
// initialization. Read-only once issued.
type Credentials struct {
	Manager JoinCredential
	Worker  JoinCredential
}

// ForRole selects the credential matching a host's declared role.
func (c Credentials) ForRole(role config.Role) (JoinCredential, error) {
	switch role {
	case config.RoleManager:
		return c.Manager, nil
	case config.RoleWorker:
		return c.Worker, nil
	default:
		return JoinCredential{}, fmt.Errorf("no join credential for role %q", role)
	}
}

// Broker fetches the leader's live join tokens. It never mints or stores
// them: Docker Swarm already holds both tokens after initialization, so the
// broker is pass-through. Asking too early is a transient condition and is
// retried with backoff.
type Broker struct {
	exec      sshexec.Executor
	log       logr.Logger
	retryOpts []retry.Option
}

// NewBroker returns a Broker using the given retry budget for token queries.
func NewBroker(exec sshexec.Executor, log logr.Logger, timeouts *config.Timeouts) *Broker {
	return &Broker{
		exec: exec,
		log:  log.WithName("broker"),
		retryOpts: []retry.Option{
			retry.WithMaxRetries(timeouts.RetryMaxAttempts),
			retry.WithInitialDelay(timeouts.RetryInitialDelay),
		},
	}
}

// IssueCredentials queries the leader for both token classes. The leader
// must already be initialized; markers guarantee we never re-initialize and
// thereby invalidate tokens distributed in an earlier partial run.
func (b *Broker) IssueCredentials(ctx context.Context, leader config.Host) (Credentials, error) {
	manager, err := b.fetchToken(ctx, leader, ManagerJoin)
	if err != nil {
		return Credentials{}, err
	}
	worker, err := b.fetchToken(ctx, leader, WorkerJoin)
	if err != nil {
		return Credentials{}, err
	}

	b.log.Info("join credentials issued", "leader", leader.Name)
	return Credentials{Manager: manager, Worker: worker}, nil
}

func (b *Broker) fetchToken(ctx context.Context, leader config.Host, class CredentialClass) (JoinCredential, error) {
	command := fmt.Sprintf("sudo docker swarm join-token -q %s", class)

	var secret string
	err := retry.Do(ctx, func() error {
		res, execErr := b.exec.Execute(ctx, leader, command)
		if execErr != nil {
			return execErr
		}
		if res.ExitCode != 0 {
			return fmt.Errorf("join-token query exited %d: %s", res.ExitCode, firstLine(res.Stdout))
		}
		secret = strings.TrimSpace(res.Stdout)
		if secret == "" {
			return errors.New("leader returned an empty join token")
		}
		return nil
	}, b.retryOpts...)
	if err != nil {
		return JoinCredential{}, &CredentialError{Host: leader.Name, Class: class, Err: err}
	}

	return JoinCredential{Class: class, Secret: secret, IssuedBy: leader.Name}, nil
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
