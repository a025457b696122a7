package smon

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAggregateStatusAllOK(t *testing.T) {
	c1 := NewCheck("a", time.Minute, FromError(func(ctx context.Context) error { return nil }))
	c2 := NewCheck("b", time.Minute, FromError(func(ctx context.Context) error { return nil }))
	c1.Run(context.Background())
	c2.Run(context.Background())
	assert.Equal(t, StatusOK, AggregateStatus([]*Check{c1, c2}))
}

func TestAggregateStatusOneFailing(t *testing.T) {
	c1 := NewCheck("a", time.Minute, FromError(func(ctx context.Context) error { return nil }))
	c2 := NewCheck("b", time.Minute, FromError(func(ctx context.Context) error { return errors.New("down") }))
	c1.Run(context.Background())
	c2.Run(context.Background())
	assert.Equal(t, StatusErr, AggregateStatus([]*Check{c1, c2}))
}

func TestAggregateStatusNeverRunIsOK(t *testing.T) {
	c1 := NewCheck("never-run", time.Minute, FromError(func(ctx context.Context) error { return nil }))
	assert.Equal(t, StatusOK, AggregateStatus([]*Check{c1}))
}

func TestAggregateStatusEmpty(t *testing.T) {
	assert.Equal(t, StatusOK, AggregateStatus(nil))
}
