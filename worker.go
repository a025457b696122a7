package smon

import (
	"context"

	"github.com/sirupsen/logrus"
)

// DefaultWorkerCount is the default number of concurrent worker goroutines,
// matching the original's five threads.
const DefaultWorkerCount = 5

// WorkerPool is a fixed-size set of goroutines that consume checks released
// by a Scheduler, run them, record their outcome, and re-enroll them. A
// WorkerPool is stateless: all state lives on the Scheduler and the Checks
// themselves. Nothing in the pool prevents two workers from running the same
// check; that does not happen in practice because a check is re-enrolled
// only after its Run returns.
type WorkerPool struct {
	scheduler *Scheduler
	size      int
	logger    logrus.FieldLogger
}

// NewWorkerPool constructs a pool of size workers draining s.Ready(). A
// non-positive size falls back to DefaultWorkerCount.
func NewWorkerPool(s *Scheduler, size int, logger logrus.FieldLogger) *WorkerPool {
	if size <= 0 {
		size = DefaultWorkerCount
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &WorkerPool{scheduler: s, size: size, logger: logger}
}

// Start launches the worker goroutines. They run until ctx is canceled.
func (wp *WorkerPool) Start(ctx context.Context) {
	for i := 0; i < wp.size; i++ {
		go wp.run(ctx)
	}
}

func (wp *WorkerPool) run(ctx context.Context) {
	for {
		select {
		case c := <-wp.scheduler.Ready():
			outcome := c.Run(ctx)
			wp.logger.WithFields(logrus.Fields{
				"check":  c.Name,
				"status": outcome.Status,
			}).Debug("check completed")
			wp.scheduler.RecordOutcome(outcome)
			wp.scheduler.Schedule(c)
		case <-ctx.Done():
			return
		}
	}
}
