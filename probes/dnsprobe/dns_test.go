package dnsprobe

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/kopchik/smon"
)

func TestNewResolvesLocalhost(t *testing.T) {
	probe := New("localhost")
	outcome := probe.Invoke(context.Background())
	assert.Equal(t, smon.StatusOK, outcome.Status)
}

func TestNewFailsOnUnresolvableHost(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	probe := New("this.name.is.reserved.invalid")
	outcome := probe.Invoke(ctx)
	assert.Equal(t, smon.StatusErr, outcome.Status)
}
