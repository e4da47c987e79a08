package config

import (
	"fmt"
	"net"
	"strings"
)

// ConfigError reports a malformed or inconsistent inventory. It is fatal:
// no remote operation is attempted when the inventory does not validate.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string {
	return "invalid inventory: " + e.Reason
}

func configErrorf(format string, args ...any) error {
	return &ConfigError{Reason: fmt.Sprintf(format, args...)}
}

// Validate checks the inventory for the invariants the orchestrator relies
// on: exactly one leader, unique identities and addresses, known roles.
func (c *Config) Validate() error {
	if c.ClusterName == "" {
		return configErrorf("cluster_name is required")
	}
	if len(c.Hosts) == 0 {
		return configErrorf("at least one host is required")
	}
	if c.SSH.PrivateKeyPath == "" {
		return configErrorf("ssh.private_key is required")
	}

	names := make(map[string]bool, len(c.Hosts))
	addresses := make(map[string]bool, len(c.Hosts))
	leaders := 0

	for i, h := range c.Hosts {
		if h.Name == "" {
			return configErrorf("host %d has no name", i)
		}
		if h.Address == "" {
			return configErrorf("host %q has no address", h.Name)
		}
		if names[h.Name] {
			return configErrorf("duplicate host name %q", h.Name)
		}
		names[h.Name] = true

		if addresses[h.Address] {
			return configErrorf("duplicate host address %q", h.Address)
		}
		addresses[h.Address] = true

		if err := validateAddress(h.Address); err != nil {
			return configErrorf("host %q: %v", h.Name, err)
		}

		switch h.Role {
		case RoleLeader:
			leaders++
		case RoleManager, RoleWorker:
		default:
			return configErrorf("host %q has unknown role %q (want leader, manager or worker)", h.Name, h.Role)
		}
	}

	if leaders == 0 {
		return configErrorf("no host has role leader; exactly one is required")
	}
	if leaders > 1 {
		return configErrorf("%d hosts have role leader; exactly one is allowed", leaders)
	}

	return nil
}

// validateAddress accepts an IP address or a plain hostname. Ports are not
// allowed: the swarm management port is fixed by the join protocol.
func validateAddress(addr string) error {
	if strings.Contains(addr, ":") {
		return fmt.Errorf("address %q must not contain a port", addr)
	}
	if net.ParseIP(addr) != nil {
		return nil
	}
	// Loose hostname check: non-empty labels of allowed characters.
	for _, label := range strings.Split(addr, ".") {
		if label == "" {
			return fmt.Errorf("address %q is not a valid IP or hostname", addr)
		}
		for _, r := range label {
			if r != '-' && (r < '0' || r > '9') && (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') {
				return fmt.Errorf("address %q is not a valid IP or hostname", addr)
			}
		}
	}
	return nil
}
