package commands

import (
	"github.com/spf13/cobra"

	"github.com/acuto/swarmstrap/cmd/swarmstrap/handlers"
)

// Init returns the command that creates an inventory file.
func Init() *cobra.Command {
	var (
		force   bool
		noInput bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create an inventory file",
		Long: `Create a swarmstrap.yaml inventory in the current directory.

Runs an interactive wizard when attached to a terminal; otherwise (or with
--no-input) writes a commented scaffold to edit by hand.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Init(cmd.Context(), force, noInput)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing inventory file")
	cmd.Flags().BoolVar(&noInput, "no-input", false, "Skip the wizard and write a scaffold")

	return cmd
}
