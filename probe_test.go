package smon

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromErrorOK(t *testing.T) {
	probe := FromError(func(ctx context.Context) error { return nil })
	outcome := probe.Invoke(context.Background())
	assert.Equal(t, StatusOK, outcome.Status)
	assert.Equal(t, noOutputPlaceholder, outcome.Text)
}

func TestFromErrorFailure(t *testing.T) {
	probe := FromError(func(ctx context.Context) error { return errors.New("boom") })
	outcome := probe.Invoke(context.Background())
	assert.Equal(t, StatusErr, outcome.Status)
	assert.Equal(t, "boom", outcome.Text)
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "ok", StatusOK.String())
	assert.Equal(t, "err", StatusErr.String())
}

func TestProbeFuncImplementsProbe(t *testing.T) {
	var p Probe = ProbeFunc(func(ctx context.Context) Outcome {
		return Outcome{Status: StatusOK, Text: "fine"}
	})
	outcome := p.Invoke(context.Background())
	assert.Equal(t, StatusOK, outcome.Status)
	assert.Equal(t, "fine", outcome.Text)
}
