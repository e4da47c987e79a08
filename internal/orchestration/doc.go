// Package orchestration coordinates the cluster bootstrap pipeline.
//
// The Orchestrator executes four stages with declared data dependencies:
//
//  1. Install - container runtime on every host, in parallel, order-free
//  2. Initialize - swarm init on the single leader
//  3. Issue - fetch both join tokens from the live leader
//  4. Join - every non-leader host joins with its role's token, in parallel
//
// Stages 2 and 3 are strictly sequential; stage 4 starts only after stage 3
// completed because it consumes the credentials stage 3 produced. Every
// mutating step is guarded by on-host completion markers, so the whole run
// is idempotent: re-invoking the orchestrator resumes from the first
// incomplete step per host and issues no repeat mutations.
package orchestration
