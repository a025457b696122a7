package smon

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCheckPanicsOnNonPositiveInterval(t *testing.T) {
	probe := FromError(func(ctx context.Context) error { return nil })
	assert.Panics(t, func() { NewCheck("x", 0, probe) })
	assert.Panics(t, func() { NewCheck("x", -time.Second, probe) })
}

func TestCheckNextDueNeverRunIsImmediate(t *testing.T) {
	c := NewCheck("never-run", time.Minute, FromError(func(ctx context.Context) error { return nil }))
	due := c.NextDue()
	assert.WithinDuration(t, time.Now(), due, 50*time.Millisecond)
}

func TestCheckRunRecordsOutcomeAndHistory(t *testing.T) {
	c := NewCheck("ok-check", time.Minute, FromError(func(ctx context.Context) error { return nil }))
	outcome := c.Run(context.Background())
	assert.Equal(t, StatusOK, outcome.Status)
	assert.False(t, c.LastChecked().IsZero())
	assert.Equal(t, StatusOK, c.LastOutcome().Status)
	require.Len(t, c.History(), 1)
}

func TestCheckNextDueAfterOKRunIsIntervalLater(t *testing.T) {
	c := NewCheck("ok-check", time.Minute, FromError(func(ctx context.Context) error { return nil }))
	c.Run(context.Background())
	due := c.NextDue()
	assert.WithinDuration(t, time.Now().Add(time.Minute), due, 50*time.Millisecond)
}

func TestCheckNextDueAfterFailureBacksOff(t *testing.T) {
	c := NewCheck("failing", 9*time.Minute, FromError(func(ctx context.Context) error { return errors.New("nope") }))
	c.Run(context.Background())
	due := c.NextDue()
	// interval/3 == 3 minutes, above the [10s, 120s] range -> clamps to 120s
	assert.WithinDuration(t, time.Now().Add(120*time.Second), due, 500*time.Millisecond)
}

func TestCheckNextDueBackoffFloor(t *testing.T) {
	c := NewCheck("failing-fast", 3*time.Second, FromError(func(ctx context.Context) error { return errors.New("nope") }))
	c.Run(context.Background())
	due := c.NextDue()
	assert.WithinDuration(t, time.Now().Add(minBackoff), due, 500*time.Millisecond)
}

func TestCheckRunRecoversFromPanic(t *testing.T) {
	c := NewCheck("panicky", time.Minute, ProbeFunc(func(ctx context.Context) Outcome {
		panic("kaboom")
	}))
	outcome := c.Run(context.Background())
	assert.Equal(t, StatusErr, outcome.Status)
	assert.Contains(t, outcome.Text, "kaboom")
}

func TestCheckRunAppliesTimeout(t *testing.T) {
	c := NewCheck("slow", time.Minute, ProbeFunc(func(ctx context.Context) Outcome {
		<-ctx.Done()
		return Outcome{Status: StatusErr, Text: ctx.Err().Error()}
	}), WithTimeout(10*time.Millisecond))

	start := time.Now()
	outcome := c.Run(context.Background())
	assert.Less(t, time.Since(start), time.Second)
	assert.Equal(t, StatusErr, outcome.Status)
}

func TestCheckHistoryRespectsWithHistorySize(t *testing.T) {
	c := NewCheck("bounded", time.Minute, FromError(func(ctx context.Context) error { return nil }), WithHistorySize(2))
	for i := 0; i < 5; i++ {
		c.Run(context.Background())
	}
	assert.Len(t, c.History(), 2)
}

func TestClampDuration(t *testing.T) {
	assert.Equal(t, minBackoff, clampDuration(time.Second, minBackoff, maxBackoff))
	assert.Equal(t, maxBackoff, clampDuration(time.Hour, minBackoff, maxBackoff))
	assert.Equal(t, 30*time.Second, clampDuration(30*time.Second, minBackoff, maxBackoff))
}
