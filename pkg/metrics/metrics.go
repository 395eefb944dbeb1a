// Package metrics exposes Prometheus instrumentation for tool dispatch.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ToolMetrics counts tool invocations and measures their latency.
type ToolMetrics struct {
	Invocations *prometheus.CounterVec
	Duration    *prometheus.HistogramVec
}

// NewToolMetrics creates and registers tool dispatch metrics on reg.
// Pass prometheus.NewRegistry() in tests to avoid global registration
// conflicts.
func NewToolMetrics(reg prometheus.Registerer) *ToolMetrics {
	invocations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "flowerbridge",
		Name:      "tool_invocations_total",
		Help:      "Total number of tool invocations by tool name and outcome.",
	}, []string{"tool", "outcome"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "flowerbridge",
		Name:      "tool_invocation_duration_seconds",
		Help:      "Tool invocation latency in seconds, including the upstream round trip.",
		Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
	}, []string{"tool"})

	reg.MustRegister(invocations, duration)
	return &ToolMetrics{Invocations: invocations, Duration: duration}
}

// Observe records one invocation of tool with the given outcome and duration.
func (m *ToolMetrics) Observe(tool, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.Invocations.WithLabelValues(tool, outcome).Inc()
	m.Duration.WithLabelValues(tool).Observe(elapsed.Seconds())
}

// Handler returns the HTTP handler serving metrics from reg.
func Handler(reg prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}
