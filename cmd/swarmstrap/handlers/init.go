package handlers

import (
	"context"
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"gopkg.in/yaml.v3"

	"github.com/acuto/swarmstrap/internal/config"
)

// inventoryScaffold is written when no terminal is attached: a commented
// starting point the operator edits by hand.
const inventoryScaffold = `# swarmstrap inventory
#
# Exactly one host must have role "leader"; it initializes the swarm and
# mints the join tokens. Managers join as redundant control-plane peers,
# workers join as task executors.

cluster_name: my-swarm

ssh:
  user: vagrant
  private_key: ~/.ssh/id_rsa
  # port: 22

# install:
#   packages: [docker.io]
#   operator_user: vagrant
#   apt_repo: ""

hosts:
  - name: leader
    address: 10.0.0.1
    role: leader
  - name: manager1
    address: 10.0.0.2
    role: manager
  - name: worker1
    address: 10.0.0.3
    role: worker
  - name: worker2
    address: 10.0.0.4
    role: worker
`

// Factory variables for testing injection.
var (
	runWizard  = config.RunWizard
	isTerminal = func() bool {
		return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
	}
	writeFile = os.WriteFile
	statFile  = os.Stat
)

// Init creates swarmstrap.yaml in the current directory, interactively when
// attached to a terminal, otherwise as a commented scaffold.
func Init(ctx context.Context, force, noInput bool) error {
	path := config.DefaultConfigFilename
	if _, err := statFile(path); err == nil && !force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}

	if noInput || !isTerminal() {
		if err := writeFile(path, []byte(inventoryScaffold), 0o600); err != nil {
			return fmt.Errorf("failed to write inventory scaffold: %w", err)
		}
		printf("Wrote %s. Edit the host addresses, then run 'swarmstrap apply'.\n", path)
		return nil
	}

	result, err := runWizard(ctx)
	if err != nil {
		return fmt.Errorf("wizard aborted: %w", err)
	}

	cfg := config.BuildConfig(result)
	if err := cfg.Validate(); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to render inventory: %w", err)
	}
	if err := writeFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write inventory: %w", err)
	}

	printf("Wrote %s with %d hosts. Run 'swarmstrap apply' to bootstrap.\n", path, len(cfg.Hosts))
	return nil
}
