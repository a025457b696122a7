package smon

import (
	"sync"
	"sync/atomic"
	"time"
)

// timerResult is the outcome of waiting on a cancellableTimer: whether it
// expired on its own or was canceled by a concurrent reschedule.
type timerResult int

const (
	timerExpired timerResult = iota
	timerCanceled
)

// cancellableTimer is a one-shot timer that can be interrupted by a
// concurrent call to Cancel. Cancel is idempotent: calling it more than
// once, or after the timer has already fired, has no further effect.
type cancellableTimer struct {
	t        *time.Timer
	cancelCh chan struct{}
	once     sync.Once
	canceled atomic.Bool
}

// newCancellableTimer starts a timer that fires after d. A negative d is
// clamped to zero, per the "negative computed sleep is clamped to zero"
// boundary behavior.
func newCancellableTimer(d time.Duration) *cancellableTimer {
	if d < 0 {
		d = 0
	}
	return &cancellableTimer{
		t:        time.NewTimer(d),
		cancelCh: make(chan struct{}),
	}
}

// newCanceledTimer returns a timer that is already canceled. It is used to
// seed the scheduler's very first iteration, so Schedule can uniformly call
// Cancel on whatever timer currently exists without a special case for "no
// timer yet".
func newCanceledTimer() *cancellableTimer {
	ct := newCancellableTimer(0)
	ct.Cancel()
	return ct
}

// Cancel aborts the timer. Safe to call multiple times and safe to call
// concurrently with Wait.
func (ct *cancellableTimer) Cancel() {
	ct.once.Do(func() {
		ct.canceled.Store(true)
		ct.t.Stop()
		close(ct.cancelCh)
	})
}

// Canceled reports whether Cancel has been called.
func (ct *cancellableTimer) Canceled() bool {
	return ct.canceled.Load()
}

// Wait blocks until the timer fires or is canceled. A cancellation that
// happened-before the call to Wait always wins over a timer that also
// happens to be ready, so Cancel() followed by Wait() deterministically
// reports timerCanceled.
func (ct *cancellableTimer) Wait() timerResult {
	select {
	case <-ct.cancelCh:
		return timerCanceled
	default:
	}
	select {
	case <-ct.cancelCh:
		return timerCanceled
	case <-ct.t.C:
		return timerExpired
	}
}
