package swarm

import "fmt"

// InstallError reports a failed runtime installation on one host. It is
// isolated to that host: other hosts' installs proceed, but the failed host
// cannot initialize or join and counts as failed overall.
type InstallError struct {
	Host string
	Step string
	Err  error
}

func (e *InstallError) Error() string {
	return fmt.Sprintf("host %s: install step %q failed: %v", e.Host, e.Step, e.Err)
}

func (e *InstallError) Unwrap() error { return e.Err }

// InitError reports that the leader failed to initialize the swarm. It is
// fatal to the whole run: no credentials can be issued and no host can join.
type InitError struct {
	Host string
	Err  error
}

func (e *InitError) Error() string {
	return fmt.Sprintf("host %s: swarm initialization failed: %v", e.Host, e.Err)
}

func (e *InitError) Unwrap() error { return e.Err }

// CredentialError reports that the leader's join tokens could not be
// fetched after bounded retries.
type CredentialError struct {
	Host  string
	Class CredentialClass
	Err   error
}

func (e *CredentialError) Error() string {
	return fmt.Sprintf("host %s: failed to fetch %s join token: %v", e.Host, e.Class, e.Err)
}

func (e *CredentialError) Unwrap() error { return e.Err }

// JoinError reports a failed join on one host. It is isolated to that host.
type JoinError struct {
	Host string
	Err  error
}

func (e *JoinError) Error() string {
	return fmt.Sprintf("host %s: swarm join failed: %v", e.Host, e.Err)
}

func (e *JoinError) Unwrap() error { return e.Err }
