package config

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/charmbracelet/huh"
)

// clusterNameRegex validates cluster names: 1-32 lowercase alphanumeric
// characters or hyphens, not starting or ending with a hyphen.
var clusterNameRegex = regexp.MustCompile(`^[a-z0-9](?:[a-z0-9-]{0,30}[a-z0-9])?$`)

// WizardResult holds the answers from the interactive inventory wizard.
type WizardResult struct {
	ClusterName    string
	SSHUser        string
	PrivateKeyPath string
	LeaderAddress  string
	ManagerList    string // comma-separated addresses
	WorkerList     string // comma-separated addresses
}

// RunWizard prompts for a minimal inventory: cluster identity, SSH access
// and the host topology. The context cancels the form (Ctrl+C).
func RunWizard(ctx context.Context) (*WizardResult, error) {
	result := &WizardResult{
		SSHUser:        "vagrant",
		PrivateKeyPath: "~/.ssh/id_rsa",
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Cluster name").
				Description("1-32 lowercase alphanumeric characters or hyphens").
				Placeholder("my-swarm").
				Value(&result.ClusterName).
				Validate(validateClusterName),
		).Title("Cluster Identity"),

		huh.NewGroup(
			huh.NewInput().
				Title("SSH user").
				Description("Unprivileged user with sudo on every host").
				Value(&result.SSHUser),
			huh.NewInput().
				Title("SSH private key path").
				Value(&result.PrivateKeyPath),
		).Title("SSH Access"),

		huh.NewGroup(
			huh.NewInput().
				Title("Leader address").
				Description("The host that initializes the swarm").
				Placeholder("10.0.0.1").
				Value(&result.LeaderAddress).
				Validate(requireValue("leader address")),
			huh.NewInput().
				Title("Manager addresses (optional)").
				Description("Comma-separated addresses of redundant control-plane peers").
				Placeholder("10.0.0.2").
				Value(&result.ManagerList),
			huh.NewInput().
				Title("Worker addresses (optional)").
				Description("Comma-separated addresses of worker hosts").
				Placeholder("10.0.0.3, 10.0.0.4").
				Value(&result.WorkerList),
		).Title("Hosts"),
	)

	if err := form.RunWithContext(ctx); err != nil {
		return nil, err
	}
	return result, nil
}

// BuildConfig turns wizard answers into an inventory. Host names are derived
// from the role and position: leader, manager1..n, worker1..n.
func BuildConfig(result *WizardResult) *Config {
	cfg := &Config{
		ClusterName: result.ClusterName,
		SSH: SSHConfig{
			User:           result.SSHUser,
			PrivateKeyPath: result.PrivateKeyPath,
		},
		Hosts: []Host{
			{Name: "leader", Address: strings.TrimSpace(result.LeaderAddress), Role: RoleLeader},
		},
	}

	for i, addr := range splitAddresses(result.ManagerList) {
		cfg.Hosts = append(cfg.Hosts, Host{
			Name:    fmt.Sprintf("manager%d", i+1),
			Address: addr,
			Role:    RoleManager,
		})
	}
	for i, addr := range splitAddresses(result.WorkerList) {
		cfg.Hosts = append(cfg.Hosts, Host{
			Name:    fmt.Sprintf("worker%d", i+1),
			Address: addr,
			Role:    RoleWorker,
		})
	}

	cfg.applyDefaults()
	return cfg
}

func splitAddresses(list string) []string {
	var out []string
	for _, part := range strings.Split(list, ",") {
		if addr := strings.TrimSpace(part); addr != "" {
			out = append(out, addr)
		}
	}
	return out
}

func validateClusterName(name string) error {
	if !clusterNameRegex.MatchString(name) {
		return fmt.Errorf("must be 1-32 lowercase alphanumeric characters or hyphens")
	}
	return nil
}

func requireValue(field string) func(string) error {
	return func(v string) error {
		if strings.TrimSpace(v) == "" {
			return fmt.Errorf("%s is required", field)
		}
		return nil
	}
}
