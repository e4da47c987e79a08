// Package swarm drives Docker Swarm bootstrap steps on inventory hosts:
// runtime installation, leader initialization, join-token brokering and
// role-specific joins. Every mutating step is bracketed by the idempotency
// guard so re-running the orchestrator never repeats completed work.
package swarm
