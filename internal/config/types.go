package config

import (
	"strings"

	"gopkg.in/yaml.v3"
)

// Role describes the part a host plays in the cluster.
type Role string

// UnmarshalYAML normalizes the role as written in the inventory, so
// "Leader" or " worker " validate the same as their canonical forms.
func (r *Role) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	*r = Role(strings.ToLower(strings.TrimSpace(raw)))
	return nil
}

// Host roles. Exactly one host per inventory carries RoleLeader; it
// bootstraps the swarm and mints join tokens. Managers join as additional
// control-plane peers, workers join as task executors.
const (
	RoleLeader  Role = "leader"
	RoleManager Role = "manager"
	RoleWorker  Role = "worker"
)

// Host is one entry of the inventory: a freshly provisioned machine with a
// known identity and reachable address.
type Host struct {
	Name    string `yaml:"name"`
	Address string `yaml:"address"`
	Role    Role   `yaml:"role"`
}

// IsLeader reports whether this host bootstraps the cluster.
func (h Host) IsLeader() bool { return h.Role == RoleLeader }

// SSHConfig holds the credentials used to reach every host.
type SSHConfig struct {
	User           string `yaml:"user"`
	PrivateKeyPath string `yaml:"private_key"`
	Port           int    `yaml:"port"`
}

// InstallConfig describes how the container runtime is installed.
type InstallConfig struct {
	// Packages is the fixed package set installed on every host.
	Packages []string `yaml:"packages"`

	// OperatorUser is added to the docker group so the runtime is usable
	// without elevation. Defaults to the SSH user.
	OperatorUser string `yaml:"operator_user"`

	// AptRepo is an optional apt source line written before installing.
	// Empty means the distribution's stock packages are used as-is.
	AptRepo string `yaml:"apt_repo"`
}

// Config is the root of the inventory file.
type Config struct {
	ClusterName string        `yaml:"cluster_name"`
	SSH         SSHConfig     `yaml:"ssh"`
	Install     InstallConfig `yaml:"install"`
	Hosts       []Host        `yaml:"hosts"`
}

// Leader returns the single leader host. Call only after Validate.
func (c *Config) Leader() Host {
	for _, h := range c.Hosts {
		if h.IsLeader() {
			return h
		}
	}
	return Host{}
}

// Followers returns every non-leader host in inventory order.
func (c *Config) Followers() []Host {
	followers := make([]Host, 0, len(c.Hosts))
	for _, h := range c.Hosts {
		if !h.IsLeader() {
			followers = append(followers, h)
		}
	}
	return followers
}
