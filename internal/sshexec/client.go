package sshexec

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"golang.org/x/crypto/ssh"

	"github.com/acuto/swarmstrap/internal/config"
)

const dialTimeout = 10 * time.Second

// Client executes commands over SSH using private-key authentication.
// A fresh connection is dialed per command; the orchestrator issues few
// commands per host, so connection reuse is not worth the bookkeeping.
type Client struct {
	user           string
	port           int
	commandTimeout time.Duration
	signer         ssh.Signer
}

// NewClient builds a Client from the inventory's SSH settings. The private
// key is read and parsed once, up front, so key problems surface before any
// host is contacted.
func NewClient(sshCfg config.SSHConfig, commandTimeout time.Duration) (*Client, error) {
	keyPath, err := expandHome(sshCfg.PrivateKeyPath)
	if err != nil {
		return nil, err
	}

	keyData, err := os.ReadFile(keyPath) // #nosec G304 -- path comes from the operator
	if err != nil {
		return nil, fmt.Errorf("failed to read ssh private key: %w", err)
	}

	signer, err := ssh.ParsePrivateKey(keyData)
	if err != nil {
		return nil, fmt.Errorf("failed to parse ssh private key: %w", err)
	}

	return &Client{
		user:           sshCfg.User,
		port:           sshCfg.Port,
		commandTimeout: commandTimeout,
		signer:         signer,
	}, nil
}

// Execute runs command on host. A non-zero exit status is reported through
// Result.ExitCode with a nil error; only transport failures return an error.
// The default per-command timeout applies only when the caller set no
// deadline of its own, so longer budgets like the join timeout are honored.
func (c *Client) Execute(ctx context.Context, host config.Host, command string) (Result, error) {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.commandTimeout)
		defer cancel()
	}

	client, err := c.dial(ctx, host)
	if err != nil {
		return Result{}, err
	}
	defer client.Close()

	session, err := client.NewSession()
	if err != nil {
		return Result{}, fmt.Errorf("host %s: failed to open session: %w", host.Name, err)
	}
	defer session.Close()

	type outcome struct {
		output []byte
		err    error
	}
	done := make(chan outcome, 1)
	go func() {
		output, runErr := session.CombinedOutput(command)
		done <- outcome{output: output, err: runErr}
	}()

	select {
	case <-ctx.Done():
		// Closing the client unblocks the session goroutine.
		client.Close()
		return Result{}, fmt.Errorf("host %s: command timed out: %w", host.Name, ctx.Err())
	case res := <-done:
		if res.err != nil {
			var exitErr *ssh.ExitError
			if errors.As(res.err, &exitErr) {
				return Result{Stdout: string(res.output), ExitCode: exitErr.ExitStatus()}, nil
			}
			return Result{}, fmt.Errorf("host %s: command failed in transit: %w", host.Name, res.err)
		}
		return Result{Stdout: string(res.output), ExitCode: 0}, nil
	}
}

func (c *Client) dial(ctx context.Context, host config.Host) (*ssh.Client, error) {
	clientCfg := &ssh.ClientConfig{
		User: c.user,
		Auth: []ssh.AuthMethod{ssh.PublicKeys(c.signer)},
		// Hosts are freshly provisioned lab machines with generated host
		// keys; there is no known_hosts baseline to verify against.
		HostKeyCallback: ssh.InsecureIgnoreHostKey(), // #nosec G106
		Timeout:         dialTimeout,
	}

	addr := net.JoinHostPort(host.Address, strconv.Itoa(c.port))
	dialer := net.Dialer{Timeout: dialTimeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("host %s: failed to dial %s: %w", host.Name, addr, err)
	}

	sshConn, chans, reqs, err := ssh.NewClientConn(conn, addr, clientCfg)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("host %s: ssh handshake failed: %w", host.Name, err)
	}
	return ssh.NewClient(sshConn, chans, reqs), nil
}

func expandHome(path string) (string, error) {
	if len(path) < 2 || path[:2] != "~/" {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, path[2:]), nil
}
