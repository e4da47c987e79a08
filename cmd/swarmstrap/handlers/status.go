package handlers

import (
	"context"
	"fmt"

	"github.com/acuto/swarmstrap/internal/orchestration"
)

// Status prints each host's bootstrap progress by probing its completion
// markers. It is read-only and returns an error if any probe failed.
func Status(ctx context.Context, configPath string) error {
	cfg, err := loadInventory(configPath)
	if err != nil {
		return err
	}

	timeouts := loadTimeouts()
	exec, err := newExecutor(cfg.SSH, timeouts.Remote)
	if err != nil {
		return err
	}

	statuses, failures := newProber(cfg, exec, timeouts, newLogger()).Status(ctx)

	printf("Cluster %s:\n", cfg.ClusterName)
	printf("%-12s %-8s %-10s %s\n", "HOST", "ROLE", "INSTALLED", "STATE")
	for _, s := range statuses {
		if err := failures[s.Host.Name]; err != nil {
			printf("%-12s %-8s %-10s unreachable (%v)\n", s.Host.Name, s.Host.Role, "?", err)
			continue
		}
		printf("%-12s %-8s %-10s %s\n", s.Host.Name, s.Host.Role, yesNo(s.Installed), stateOf(s))
	}

	if len(failures) > 0 {
		return fmt.Errorf("failed to probe %d of %d hosts", len(failures), len(cfg.Hosts))
	}
	return nil
}

func stateOf(s orchestration.HostStatus) string {
	switch {
	case s.Host.IsLeader() && s.Initialized:
		return "initialized"
	case !s.Host.IsLeader() && s.Joined:
		return "joined"
	default:
		return "pending"
	}
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
