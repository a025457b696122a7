package smon

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics exposes scheduler and check state as Prometheus gauges: per-check
// status, queue depth, and global history length, so a running smond can be
// scraped the same way as any other service on the cluster.
type Metrics struct {
	checkStatus   *prometheus.GaugeVec
	pendingDepth  prometheus.Gauge
	globalHistLen prometheus.Gauge
}

// NewMetrics registers the scheduler's gauges against reg. Passing a
// dedicated *prometheus.Registry (rather than the global default) keeps
// repeated construction in tests from panicking on duplicate registration.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		checkStatus: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "smon",
			Name:      "check_status",
			Help:      "Current status of a check (1 = ok, 0 = err).",
		}, []string{"check"}),
		pendingDepth: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "smon",
			Name:      "pending_depth",
			Help:      "Number of entries currently in the scheduler's pending queue.",
		}),
		globalHistLen: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "smon",
			Name:      "global_history_length",
			Help:      "Number of entries currently held in the global outcome history.",
		}),
	}
}

// ObserveCheck records a check's current status.
func (m *Metrics) ObserveCheck(name string, status Status) {
	v := 0.0
	if status == StatusOK {
		v = 1.0
	}
	m.checkStatus.WithLabelValues(name).Set(v)
}

// ObservePendingDepth records the scheduler's current pending-queue depth.
func (m *Metrics) ObservePendingDepth(n int) {
	m.pendingDepth.Set(float64(n))
}

// ObserveGlobalHistoryLength records the global history's current size.
func (m *Metrics) ObserveGlobalHistoryLength(n int) {
	m.globalHistLen.Set(float64(n))
}
