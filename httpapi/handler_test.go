package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kopchik/smon"
)

func newTestHandler(t *testing.T) (*Handler, *smon.CheckRegistry, *smon.Scheduler, context.CancelFunc) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	registry := smon.NewCheckRegistry()
	scheduler := smon.NewScheduler()
	scheduler.Start(ctx)

	okCheck := smon.NewCheck("ok", time.Hour, smon.FromError(func(ctx context.Context) error { return nil }))
	okCheck.Run(context.Background())
	registry.Register(okCheck)

	return New(scheduler, registry), registry, scheduler, cancel
}

func TestHandleHealthReturnsOK(t *testing.T) {
	h, _, _, cancel := newTestHandler(t)
	defer cancel()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	h.Mux().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var snap snapshot
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snap))
	assert.Equal(t, "ok", snap.Status)
	require.Len(t, snap.Checks, 1)
	assert.Equal(t, "ok", snap.Checks[0].Name)
}

func TestHandleHealthReturnsDownStatusCode(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	registry := smon.NewCheckRegistry()
	scheduler := smon.NewScheduler()
	scheduler.Start(ctx)

	failing := smon.NewCheck("failing", time.Hour, smon.FromError(func(ctx context.Context) error {
		return errors.New("down")
	}))
	failing.Run(context.Background())
	registry.Register(failing)

	h := New(scheduler, registry)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	h.Mux().ServeHTTP(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestHandleFlushRejectsGet(t *testing.T) {
	h, _, _, cancel := newTestHandler(t)
	defer cancel()

	req := httptest.NewRequest(http.MethodGet, "/flush", nil)
	w := httptest.NewRecorder()
	h.Mux().ServeHTTP(w, req)

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestHandleFlushPostTriggersFlush(t *testing.T) {
	h, _, _, cancel := newTestHandler(t)
	defer cancel()

	req := httptest.NewRequest(http.MethodPost, "/flush", nil)
	w := httptest.NewRecorder()
	h.Mux().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"flushed":true}`, w.Body.String())
}

func TestWithStatusCodesOverride(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	registry := smon.NewCheckRegistry()
	scheduler := smon.NewScheduler()
	scheduler.Start(ctx)

	h := New(scheduler, registry, WithStatusCodes(201, 418))
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	h.Mux().ServeHTTP(w, req)

	assert.Equal(t, 201, w.Code)
}
