package httpapi

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// RequestLogging returns a Middleware that logs each request's method,
// path, status code, and latency, tagging that log line with a freshly
// generated request id. The id is not passed on to the wrapped handler.
func RequestLogging(logger logrus.FieldLogger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqID := uuid.NewString()
			start := time.Now()

			sw := &statusCapturingWriter{ResponseWriter: w, status: http.StatusOK}
			r = r.WithContext(r.Context())
			next.ServeHTTP(sw, r)

			logger.WithFields(logrus.Fields{
				"request_id": reqID,
				"method":     r.Method,
				"path":       r.URL.Path,
				"status":     sw.status,
				"duration":   time.Since(start),
			}).Info("handled request")
		})
	}
}

type statusCapturingWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusCapturingWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// Flush forwards to the underlying writer when it supports flushing, so
// streaming handlers such as /stream keep working behind RequestLogging.
func (w *statusCapturingWriter) Flush() {
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// BasicAuth denies the request outright when the supplied credentials
// don't match username/password, for callers who want access prevented
// rather than merely detail-redacted.
func BasicAuth(username, password string) Middleware {
	return CustomAuth(func(r *http.Request) bool {
		reqUser, reqPassword, ok := r.BasicAuth()
		return ok && username == reqUser && password == reqPassword
	})
}

// CustomAuth denies the request with 401 Unauthorized unless authFunc
// reports success.
func CustomAuth(authFunc func(r *http.Request) bool) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !authFunc(r) {
				w.Header().Set("WWW-Authenticate", `Basic realm="smon"`)
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
