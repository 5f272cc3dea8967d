package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the ledger anchoring pipeline.
type Metrics struct {
	Submissions     *prometheus.CounterVec
	SubmissionTimes prometheus.Histogram
	QueueDepth      prometheus.Gauge
}

// New creates and registers the anchor metrics.
func New() *Metrics {
	return &Metrics{
		Submissions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "orbit_anchor_submissions_total",
			Help: "Total ledger anchor attempts, by outcome",
		}, []string{"outcome"}), // outcome: "anchored", "failed", "skipped"

		SubmissionTimes: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "orbit_anchor_submission_duration_seconds",
			Help:    "Time spent submitting and confirming a ledger transaction",
			Buckets: prometheus.ExponentialBuckets(0.25, 2, 10),
		}),

		QueueDepth: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "orbit_anchor_queue_depth",
			Help: "Entries currently queued for anchoring",
		}),
	}
}

// RecordSubmission records one anchor attempt outcome and its duration.
func (m *Metrics) RecordSubmission(outcome string, seconds float64) {
	if m != nil {
		m.Submissions.WithLabelValues(outcome).Inc()
		m.SubmissionTimes.Observe(seconds)
	}
}

// SetQueueDepth updates the queued-entry gauge.
func (m *Metrics) SetQueueDepth(n int) {
	if m != nil {
		m.QueueDepth.Set(float64(n))
	}
}
