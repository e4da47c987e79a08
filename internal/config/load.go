package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFilename is the inventory filename looked up when no explicit
// path is given.
const DefaultConfigFilename = "swarmstrap.yaml"

// Load reads, defaults and validates an inventory file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- path comes from the operator
	if err != nil {
		return nil, fmt.Errorf("failed to read inventory file: %w", err)
	}
	return LoadFromBytes(data)
}

// LoadFromBytes parses, defaults and validates inventory data.
func LoadFromBytes(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse inventory YAML: %w", err)
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("inventory validation failed: %w", err)
	}
	return &cfg, nil
}

// applyDefaults fills unset fields with working defaults for a stock
// Ubuntu/Debian host reachable as the vagrant user.
func (c *Config) applyDefaults() {
	if c.SSH.User == "" {
		c.SSH.User = "vagrant"
	}
	if c.SSH.Port == 0 {
		c.SSH.Port = 22
	}
	if len(c.Install.Packages) == 0 {
		c.Install.Packages = []string{"docker.io"}
	}
	if c.Install.OperatorUser == "" {
		c.Install.OperatorUser = c.SSH.User
	}
}

// FindConfigFile looks for the default inventory file in the current
// working directory.
func FindConfigFile() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get current directory: %w", err)
	}

	path := filepath.Join(cwd, DefaultConfigFilename)
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("inventory file %s not found", DefaultConfigFilename)
	}
	return path, nil
}
