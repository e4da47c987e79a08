package commands

import (
	"github.com/spf13/cobra"

	"github.com/acuto/swarmstrap/cmd/swarmstrap/handlers"
)

// Status returns the command that reports per-host bootstrap progress.
func Status() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show per-host bootstrap progress",
		Long: `Probe every host's completion markers and print its progress.

This is read-only: it only checks which steps already completed on each
host and never mutates anything.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Status(cmd.Context(), configPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to inventory file (default: swarmstrap.yaml)")

	return cmd
}
