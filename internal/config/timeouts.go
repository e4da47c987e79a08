package config

import (
	"os"
	"strconv"
	"time"
)

// Timeouts holds bounded-wait values for remote operations. Every remote
// command blocks until the remote side responds or its timeout elapses.
// Values can be customized via environment variables.
type Timeouts struct {
	Remote            time.Duration // per-command execution timeout
	Join              time.Duration // timeout for a host's swarm join
	RetryMaxAttempts  int           // retry budget for transient failures
	RetryInitialDelay time.Duration // initial backoff delay
}

// LoadTimeouts loads timeout configuration from environment variables,
// falling back to defaults when unset or unparsable.
//
// Environment variables:
//   - SWARMSTRAP_TIMEOUT_REMOTE (default: 90s)
//   - SWARMSTRAP_TIMEOUT_JOIN (default: 120s)
//   - SWARMSTRAP_RETRY_MAX_ATTEMPTS (default: 4)
//   - SWARMSTRAP_RETRY_INITIAL_DELAY (default: 2s)
func LoadTimeouts() *Timeouts {
	return &Timeouts{
		Remote:            parseDuration("SWARMSTRAP_TIMEOUT_REMOTE", 90*time.Second),
		Join:              parseDuration("SWARMSTRAP_TIMEOUT_JOIN", 120*time.Second),
		RetryMaxAttempts:  parseInt("SWARMSTRAP_RETRY_MAX_ATTEMPTS", 4),
		RetryInitialDelay: parseDuration("SWARMSTRAP_RETRY_INITIAL_DELAY", 2*time.Second),
	}
}

func parseDuration(envVar string, defaultVal time.Duration) time.Duration {
	val := os.Getenv(envVar)
	if val == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return defaultVal
	}
	return d
}

func parseInt(envVar string, defaultVal int) int {
	val := os.Getenv(envVar)
	if val == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(val)
	if err != nil || n < 0 {
		return defaultVal
	}
	return n
}
