package swarm

import (
	"fmt"
	"sort"
	"strings"

	"github.com/acuto/swarmstrap/internal/config"
)

// Status is the terminal outcome of one host in a run.
type Status string

// Per-host outcomes. Skipped means the host never got to join because an
// earlier step (installation) failed on it.
const (
	StatusJoined        Status = "joined"
	StatusAlreadyJoined Status = "already-joined"
	StatusFailed        Status = "failed"
	StatusSkipped       Status = "skipped"
)

// Entry is one host's outcome.
type Entry struct {
	Host   string
	Role   config.Role
	Status Status
	Err    error
}

// Report enumerates the outcome of every non-leader host, plus whether the
// leader initialized. Entries are kept sorted by host name so output and
// tests are deterministic regardless of join concurrency.
type Report struct {
	LeaderInitialized bool
	Entries           []Entry
}

// Add inserts an entry keeping name order. Not safe for concurrent use;
// callers assemble the report after their parallel phase completes.
func (r *Report) Add(e Entry) {
	i := sort.Search(len(r.Entries), func(i int) bool { return r.Entries[i].Host >= e.Host })
	r.Entries = append(r.Entries, Entry{})
	copy(r.Entries[i+1:], r.Entries[i:])
	r.Entries[i] = e
}

// Failed returns the entries that did not converge.
func (r *Report) Failed() []Entry {
	var out []Entry
	for _, e := range r.Entries {
		if e.Status == StatusFailed || e.Status == StatusSkipped {
			out = append(out, e)
		}
	}
	return out
}

// Ok reports whether the whole cluster converged: leader initialized and
// every other host joined (now or in an earlier run).
func (r *Report) Ok() bool {
	if !r.LeaderInitialized {
		return false
	}
	return len(r.Failed()) == 0
}

// Summary renders one line per host for the operator.
func (r *Report) Summary() string {
	var b strings.Builder
	for _, e := range r.Entries {
		if e.Err != nil {
			fmt.Fprintf(&b, "%-12s %-8s %s (%v)\n", e.Host, e.Role, e.Status, e.Err)
			continue
		}
		fmt.Fprintf(&b, "%-12s %-8s %s\n", e.Host, e.Role, e.Status)
	}
	return b.String()
}
