package smon

import "sync"

// CheckRegistry accumulates Check values produced by the configuration
// loader and hands them to a Scheduler at startup. It replaces the
// original's process-wide global list that every Checker constructor
// appended itself to: here, nothing is registered implicitly, and there is
// no package-level mutable state.
type CheckRegistry struct {
	mu     sync.Mutex
	checks []*Check
}

// NewCheckRegistry returns an empty registry.
func NewCheckRegistry() *CheckRegistry {
	return &CheckRegistry{}
}

// Register adds a check to the registry. It is safe to call from multiple
// goroutines, though in practice the configuration loader runs it
// single-threaded at startup.
func (r *CheckRegistry) Register(c *Check) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.checks = append(r.checks, c)
}

// Checks returns a snapshot of all registered checks.
func (r *CheckRegistry) Checks() []*Check {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*Check, len(r.checks))
	copy(out, r.checks)
	return out
}

// Len reports how many checks are currently registered.
func (r *CheckRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.checks)
}
