package commands

import (
	"github.com/spf13/cobra"

	"github.com/acuto/swarmstrap/cmd/swarmstrap/handlers"
)

// Apply returns the command that converges the inventory into a swarm.
//
// Optional flags:
//
//	--config, -c: Path to the inventory YAML file (default: auto-detect swarmstrap.yaml)
func Apply() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Bootstrap or resume bootstrapping the cluster",
		Long: `Bootstrap the cluster described by the inventory file.

Installs the container runtime on every host, initializes the swarm on the
leader, and joins every manager and worker with its role's join token.

The command is idempotent: completed steps leave markers on the hosts
themselves and are skipped on re-runs, so apply can be safely re-invoked
after a partial failure and resumes from the first incomplete step.

Examples:
  # Bootstrap using swarmstrap.yaml in the current directory
  swarmstrap apply

  # Bootstrap using a specific inventory
  swarmstrap apply -c production.yaml

  # Resume after a partial failure
  swarmstrap apply`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Apply(cmd.Context(), configPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to inventory file (default: swarmstrap.yaml)")

	return cmd
}
