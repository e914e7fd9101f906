package provisioning

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the executor's collectors. Each composition gets its own
// set so concurrent runs in one process do not share counters.
type Metrics struct {
	submissions        *prometheus.CounterVec
	submissionDuration *prometheus.HistogramVec
	nodesResolved      prometheus.Counter
}

// NewMetrics creates the collectors and registers them with reg, when given.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		submissions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "eksgraph",
				Subsystem: "executor",
				Name:      "submissions_total",
				Help:      "Total number of provider submissions by node kind and result",
			},
			[]string{"kind", "result"},
		),
		submissionDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "eksgraph",
				Subsystem: "executor",
				Name:      "submission_duration_seconds",
				Help:      "Duration of provider submissions in seconds",
				Buckets:   prometheus.ExponentialBuckets(0.01, 2, 14), // 10ms to ~80s
			},
			[]string{"kind"},
		),
		nodesResolved: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: "eksgraph",
				Subsystem: "executor",
				Name:      "nodes_resolved",
				Help:      "Number of graph nodes whose attributes were resolved",
			},
		),
	}
	if reg != nil {
		reg.MustRegister(m.submissions, m.submissionDuration, m.nodesResolved)
	}
	return m
}

func (m *Metrics) recordSubmission(kind, result string, d time.Duration) {
	if m == nil {
		return
	}
	m.submissions.WithLabelValues(kind, result).Inc()
	m.submissionDuration.WithLabelValues(kind).Observe(d.Seconds())
}

func (m *Metrics) recordResolved() {
	if m == nil {
		return
	}
	m.nodesResolved.Inc()
}
