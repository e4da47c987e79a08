// Package config defines the host inventory and orchestrator settings.
//
// The inventory is a static YAML file declaring every host's identity,
// address and role. It is loaded once at startup, validated, and never
// mutated afterwards: the rest of the program treats hosts as immutable
// values.
package config
