package goroutinecount

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kopchik/smon"
)

func TestNewPassesUnderThreshold(t *testing.T) {
	probe := New(1_000_000)
	outcome := probe.Invoke(context.Background())
	assert.Equal(t, smon.StatusOK, outcome.Status)
}

func TestNewFailsOverThreshold(t *testing.T) {
	probe := New(0)
	outcome := probe.Invoke(context.Background())
	assert.Equal(t, smon.StatusErr, outcome.Status)
}
