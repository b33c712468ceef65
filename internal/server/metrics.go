package server

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/junaid-mahmood/base-agent/internal/toolkit"
)

var (
	toolInvocations = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "agent",
		Subsystem: "tools",
		Name:      "invocations_total",
		Help:      "Total tool invocations by tool and outcome.",
	}, []string{"tool", "outcome"}) // outcome: "ok", "invalid_input", "handler_error"

	toolLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "agent",
		Subsystem: "tools",
		Name:      "invocation_latency_seconds",
		Help:      "Tool invocation latency in seconds.",
		Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
	}, []string{"tool"})
)

func init() {
	prometheus.MustRegister(
		toolInvocations,
		toolLatency,
	)
}

// MeteredRecorder observes every dispatch and forwards the record to the
// next recorder, typically the audit sink.
type MeteredRecorder struct {
	Next toolkit.Recorder
}

var _ toolkit.Recorder = MeteredRecorder{}

func (m MeteredRecorder) Record(ctx context.Context, inv toolkit.Invocation) {
	toolInvocations.WithLabelValues(inv.Tool, inv.Outcome).Inc()
	toolLatency.WithLabelValues(inv.Tool).Observe(inv.Duration.Seconds())
	if m.Next != nil {
		m.Next.Record(ctx, inv)
	}
}
