package smon

import (
	"container/heap"
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Scheduler keeps a min-priority queue of pending (due time, check) entries
// and runs a single dispatch goroutine that sleeps until the earliest one
// is due, then releases it on the Ready channel for a worker to pick up.
type Scheduler struct {
	logger logrus.FieldLogger

	mu    sync.Mutex
	cond  *sync.Cond
	pq    pendingHeap
	seq   uint64
	timer *cancellableTimer

	// pendingFlushAck, when non-nil, is closed by the dispatch loop the
	// moment it observes the poison entry pushed by Flush. Concurrent
	// Flush calls are not defended against; callers must serialize their
	// own calls to Flush.
	pendingFlushAck chan struct{}

	closed bool

	ready   chan *Check
	history *GlobalHistory

	startOnce sync.Once
}

// SchedulerOption configures optional Scheduler parameters.
type SchedulerOption func(*Scheduler)

// WithSchedulerLogger attaches a logger used for dispatcher diagnostics
// (sleep durations and preemptions). Flush is not logged.
func WithSchedulerLogger(l logrus.FieldLogger) SchedulerOption {
	return func(s *Scheduler) { s.logger = l }
}

// WithGlobalHistorySize overrides the default global history capacity
// (10 000 entries).
func WithGlobalHistorySize(n int) SchedulerOption {
	return func(s *Scheduler) { s.history = NewGlobalHistory(n) }
}

// NewScheduler constructs a Scheduler. It is born with a pre-canceled
// zero-duration timer so the very first Schedule call can uniformly call
// timer.Cancel() without a special case for "no timer yet".
func NewScheduler(opts ...SchedulerOption) *Scheduler {
	s := &Scheduler{
		ready: make(chan *Check),
		timer: newCanceledTimer(),
	}
	s.cond = sync.NewCond(&s.mu)
	for _, opt := range opts {
		opt(s)
	}
	if s.history == nil {
		s.history = NewGlobalHistory(DefaultGlobalHistorySize)
	}
	if s.logger == nil {
		s.logger = logrus.StandardLogger()
	}
	return s
}

// Ready returns the channel workers consume from.
func (s *Scheduler) Ready() <-chan *Check {
	return s.ready
}

// GlobalHistory returns the scheduler-wide ring of recently completed
// checks.
func (s *Scheduler) GlobalHistory() *GlobalHistory {
	return s.history
}

// RecordOutcome appends an outcome to the global history. Called by
// workers after a check completes.
func (s *Scheduler) RecordOutcome(o Outcome) {
	s.history.PushFront(HistoryEntry{Timestamp: time.Now(), Status: o.Status, Text: o.Text})
}

// PendingDepth returns the number of entries currently in the pending
// queue, including any transient duplicate created by a timer preemption.
func (s *Scheduler) PendingDepth() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pq)
}

// Start launches the dispatch loop in a background goroutine. It is safe
// to call more than once; only the first call has any effect. The loop
// runs until ctx is canceled.
func (s *Scheduler) Start(ctx context.Context) {
	s.startOnce.Do(func() {
		go s.watchShutdown(ctx)
		go s.dispatchLoop(ctx)
	})
}

func (s *Scheduler) watchShutdown(ctx context.Context) {
	<-ctx.Done()
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	s.cond.Broadcast()
	s.timer.Cancel()
}

// Schedule computes check.NextDue() and enrolls the check in the pending
// set, then preempts the dispatcher's current sleep. After Schedule
// returns, the dispatcher is guaranteed to observe the new entry within
// one scheduling round, even when the new entry's due time is earlier
// than the timer the dispatcher is currently waiting on.
func (s *Scheduler) Schedule(c *Check) {
	s.enqueue(pendingEntry{due: c.NextDue(), check: c})
}

// ScheduleAll enrolls every check produced by a CheckRegistry.
func (s *Scheduler) ScheduleAll(r *CheckRegistry) {
	for _, c := range r.Checks() {
		s.Schedule(c)
	}
}

func (s *Scheduler) enqueue(e pendingEntry) {
	s.mu.Lock()
	s.seq++
	e.seq = s.seq
	heap.Push(&s.pq, e)
	s.cond.Signal()
	timer := s.timer
	s.mu.Unlock()

	timer.Cancel()
}

// Flush forces every currently pending entry — including the dispatcher's
// in-flight head, if any — onto the ready channel immediately, then
// returns once all of them have been handed off.
func (s *Scheduler) Flush() {
	ack := make(chan struct{})

	s.mu.Lock()
	s.pendingFlushAck = ack
	heap.Push(&s.pq, pendingEntry{}) // poison marker: zero Check, zero due time sorts first
	s.cond.Signal()
	timer := s.timer
	s.mu.Unlock()

	timer.Cancel()
	<-ack

	s.mu.Lock()
	drained := make([]*Check, 0, len(s.pq))
	for len(s.pq) > 0 {
		e := heap.Pop(&s.pq).(pendingEntry)
		if !e.isPoison() {
			drained = append(drained, e.check)
		}
	}
	s.mu.Unlock()

	for _, c := range drained {
		s.ready <- c
	}
}

// dispatchLoop is the scheduler's single dispatcher goroutine.
func (s *Scheduler) dispatchLoop(ctx context.Context) {
	for {
		entry, timer, ok := s.popAndArm()
		if !ok {
			return
		}
		if entry.isPoison() {
			s.ackFlush()
			continue
		}

		s.logger.WithFields(logrus.Fields{"check": entry.check.Name, "sleep": time.Until(entry.due)}).Debug("dispatcher sleeping")

		switch timer.Wait() {
		case timerExpired:
			select {
			case s.ready <- entry.check:
			case <-ctx.Done():
				return
			}
		case timerCanceled:
			s.logger.WithField("check", entry.check.Name).Debug("timer preempted, recalculating")
			s.mu.Lock()
			heap.Push(&s.pq, entry)
			s.cond.Signal()
			s.mu.Unlock()
		}
	}
}

// popAndArm blocks until the pending set is non-empty or the scheduler has
// been shut down, then pops the earliest entry and installs its timer as
// s.timer, all under the same critical section. Popping the entry and
// arming its timer must happen atomically with respect to enqueue: if the
// timer were built and assigned after releasing the lock, a concurrent
// Schedule call could read the stale, already-fired timer in the gap and
// cancel that instead of the one actually guarding the new sleep, silently
// losing its preemption.
func (s *Scheduler) popAndArm() (pendingEntry, *cancellableTimer, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for len(s.pq) == 0 && !s.closed {
		s.cond.Wait()
	}
	if s.closed {
		return pendingEntry{}, nil, false
	}

	entry := heap.Pop(&s.pq).(pendingEntry)
	if entry.isPoison() {
		return entry, nil, true
	}

	delta := time.Until(entry.due)
	if delta < 0 {
		delta = 0
	}
	timer := newCancellableTimer(delta)
	s.timer = timer

	return entry, timer, true
}

func (s *Scheduler) ackFlush() {
	s.mu.Lock()
	ack := s.pendingFlushAck
	s.pendingFlushAck = nil
	s.mu.Unlock()
	if ack != nil {
		close(ack)
	}
}
