// Package httpapi is a read-only HTTP view of scheduler and check state,
// plus a flush endpoint.
package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/kopchik/smon"
)

// Middleware allows pre- and post-processing of HTTP requests.
type Middleware func(next http.Handler) http.Handler

// Handler serves the scheduler's state over HTTP.
type Handler struct {
	scheduler *smon.Scheduler
	registry  *smon.CheckRegistry
	logger    logrus.FieldLogger

	statusCodeUp   int
	statusCodeDown int
}

// Option configures a Handler.
type Option func(*Handler)

// WithLogger attaches a logger used for request diagnostics.
func WithLogger(l logrus.FieldLogger) Option {
	return func(h *Handler) { h.logger = l }
}

// WithStatusCodes overrides the HTTP status codes returned for an overall
// ok / err aggregate status. Defaults are 200 and 503.
func WithStatusCodes(up, down int) Option {
	return func(h *Handler) { h.statusCodeUp, h.statusCodeDown = up, down }
}

// New constructs a Handler over the given scheduler and registry.
func New(scheduler *smon.Scheduler, registry *smon.CheckRegistry, opts ...Option) *Handler {
	h := &Handler{
		scheduler:      scheduler,
		registry:       registry,
		statusCodeUp:   http.StatusOK,
		statusCodeDown: http.StatusServiceUnavailable,
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.logger == nil {
		h.logger = logrus.StandardLogger()
	}
	return h
}

// Mux returns an *http.ServeMux wired with all of this package's routes:
// GET /health, POST /flush, GET /stream.
func (h *Handler) Mux(mw ...Middleware) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/health", chain(http.HandlerFunc(h.handleHealth), mw))
	mux.Handle("/flush", chain(http.HandlerFunc(h.handleFlush), mw))
	mux.Handle("/stream", chain(http.HandlerFunc(h.handleStream), mw))
	return mux
}

func chain(h http.Handler, mw []Middleware) http.Handler {
	for i := len(mw) - 1; i >= 0; i-- {
		h = mw[i](h)
	}
	return h
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	snap := newSnapshot(h.registry, h.scheduler)

	body, err := json.Marshal(snap)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	disableResponseCache(w)
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(h.mapStatus(snap.Status))
	_, _ = w.Write(body)
}

func (h *Handler) handleFlush(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	h.scheduler.Flush()
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	_, _ = w.Write([]byte(`{"flushed":true}`))
}

// handleStream opens a text/event-stream connection and pushes a fresh
// snapshot on a fixed cadence until the client disconnects, standing in
// for the original's websocket LIST command without introducing a
// websocket dependency (see DESIGN.md).
func (h *Handler) handleStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()

	ctx := r.Context()
	for {
		snap := newSnapshot(h.registry, h.scheduler)
		body, err := json.Marshal(snap)
		if err == nil {
			_, _ = w.Write([]byte("event: snapshot\ndata: "))
			_, _ = w.Write(body)
			_, _ = w.Write([]byte("\n\n"))
			flusher.Flush()
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func disableResponseCache(w http.ResponseWriter) {
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Pragma", "no-cache")
	w.Header().Set("Expires", "-1")
}

func (h *Handler) mapStatus(status string) int {
	if status == "ok" {
		return h.statusCodeUp
	}
	return h.statusCodeDown
}
