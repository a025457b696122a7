package smon

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	// minBackoff is the floor of the adaptive back-off applied after a
	// failing check (see Check.NextDue).
	minBackoff = 10 * time.Second
	// maxBackoff is the ceiling of the adaptive back-off.
	maxBackoff = 120 * time.Second
	// scheduleDriftTolerance is how far past interval a check's actual run
	// may lag before it is logged as behind schedule.
	scheduleDriftTolerance = 1 * time.Second
)

// unsetOutcome is what Check.LastOutcome reports before the check has ever
// run.
var unsetOutcome = Outcome{Status: StatusOK, Text: "<no checks were performed yet>"}

// Check is a scheduled wrapper around a Probe: it owns the polling interval,
// display metadata, last-run bookkeeping, and a bounded history of recent
// outcomes. A Check is mutated only by the worker that currently holds it
// (single-writer discipline); everything else — the HTTP front-end, the
// dispatcher — only reads.
type Check struct {
	// Name is a display name; it need not be unique.
	Name string
	// Description is optional free-form text shown alongside Name.
	Description string
	// Interval is the nominal polling period. Must be strictly positive.
	Interval time.Duration
	// Timeout bounds a single probe invocation. Zero means no per-check
	// timeout is applied beyond whatever the caller's context carries.
	Timeout time.Duration
	// Probe produces a fresh Outcome when invoked.
	Probe Probe
	// Logger receives schedule-drift diagnostics. A nil Logger disables
	// logging for this check.
	Logger logrus.FieldLogger

	mu          sync.RWMutex
	lastChecked time.Time
	lastOutcome Outcome
	history     *checkHistory
	historyLen  int
}

// CheckOption configures optional Check parameters at construction time.
type CheckOption func(*Check)

// WithHistorySize overrides the default per-check history capacity (10).
func WithHistorySize(n int) CheckOption {
	return func(c *Check) { c.historyLen = n }
}

// WithTimeout sets a per-check probe timeout.
func WithTimeout(d time.Duration) CheckOption {
	return func(c *Check) { c.Timeout = d }
}

// WithLogger attaches a logger used for schedule-drift diagnostics.
func WithLogger(l logrus.FieldLogger) CheckOption {
	return func(c *Check) { c.Logger = l }
}

// NewCheck constructs a Check ready for scheduling. interval must be
// strictly positive; NewCheck panics otherwise, since a non-positive
// interval can never produce a sane NextDue.
func NewCheck(name string, interval time.Duration, probe Probe, opts ...CheckOption) *Check {
	if interval <= 0 {
		panic("smon: Check interval must be strictly positive")
	}
	c := &Check{
		Name:        name,
		Interval:    interval,
		Probe:       probe,
		lastOutcome: unsetOutcome,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.history = newCheckHistory(c.historyLen)
	return c
}

// LastChecked returns the timestamp of the most recent completed run, or
// the zero time if the check has never run.
func (c *Check) LastChecked() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastChecked
}

// LastOutcome returns the most recently recorded outcome.
func (c *Check) LastOutcome() Outcome {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastOutcome
}

// History returns a snapshot of the recent outcomes, oldest first.
func (c *Check) History() []Outcome {
	return c.history.snapshot()
}

// Run invokes the probe once, synchronously, updates the check's
// bookkeeping, and returns the resulting outcome. Run never panics and
// never returns an error: any probe failure (including a probe panic) is
// captured as a StatusErr outcome.
func (c *Check) Run(ctx context.Context) Outcome {
	c.logDriftIfBehind()

	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	outcome := c.invokeSafely(ctx)
	outcome.Text = NormalizeText(outcome.Text)

	c.mu.Lock()
	c.lastChecked = time.Now()
	c.lastOutcome = outcome
	c.mu.Unlock()

	c.history.push(outcome)

	return outcome
}

func (c *Check) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.Timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, c.Timeout)
}

// invokeSafely runs the probe and converts a panic into a StatusErr
// outcome, mirroring the original's bare "except Exception" around the
// check function.
func (c *Check) invokeSafely(ctx context.Context) (outcome Outcome) {
	defer func() {
		if r := recover(); r != nil {
			outcome = Outcome{Status: StatusErr, Text: panicText(r)}
		}
	}()
	return c.Probe.Invoke(ctx)
}

func panicText(r interface{}) string {
	if err, ok := r.(error); ok {
		return err.Error()
	}
	if s, ok := r.(string); ok {
		return "panic: " + s
	}
	return "panic: unknown"
}

func (c *Check) logDriftIfBehind() {
	c.mu.RLock()
	lastChecked := c.lastChecked
	c.mu.RUnlock()

	if lastChecked.IsZero() {
		return
	}
	delay := time.Since(lastChecked) - c.Interval
	if delay <= scheduleDriftTolerance {
		return
	}
	if c.Logger != nil {
		c.Logger.WithFields(logrus.Fields{
			"check":    c.Name,
			"interval": c.Interval,
			"delay":    delay,
		}).Error("check is behind schedule")
	}
}

// NextDue returns the timestamp at which this check should next execute.
// A check that has never run is due immediately. A check whose last
// outcome was OK is due one Interval after its last run. A check whose
// last outcome was an error backs off: it is due after
// clamp(Interval/3, 10s, 120s), so that persistent failures are probed
// more eagerly than the nominal interval (to notice recovery) but never
// pathologically often, nor too rarely for a long interval.
func (c *Check) NextDue() time.Time {
	c.mu.RLock()
	lastChecked := c.lastChecked
	lastOutcome := c.lastOutcome
	c.mu.RUnlock()

	if lastChecked.IsZero() {
		return time.Now()
	}
	if lastOutcome.Status == StatusOK {
		return lastChecked.Add(c.Interval)
	}
	return lastChecked.Add(clampDuration(c.Interval/3, minBackoff, maxBackoff))
}

func clampDuration(d, lo, hi time.Duration) time.Duration {
	if d < lo {
		return lo
	}
	if d > hi {
		return hi
	}
	return d
}
