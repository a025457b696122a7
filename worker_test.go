package smon

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWorkerPoolRunsAndReschedulesChecks(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s := NewScheduler()
	s.Start(ctx)

	pool := NewWorkerPool(s, 2, nil)
	pool.Start(ctx)

	var runs int32
	c := NewCheck("counted", 20*time.Millisecond, FromError(func(ctx context.Context) error {
		atomic.AddInt32(&runs, 1)
		return nil
	}))
	s.Schedule(c)

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) && atomic.LoadInt32(&runs) < 3 {
		time.Sleep(10 * time.Millisecond)
	}
	assert.GreaterOrEqual(t, atomic.LoadInt32(&runs), int32(3), "expected check to be rescheduled and run repeatedly")
}

func TestNewWorkerPoolDefaultsSize(t *testing.T) {
	s := NewScheduler()
	pool := NewWorkerPool(s, 0, nil)
	assert.Equal(t, DefaultWorkerCount, pool.size)
}
