package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for release versioning.
type Metrics struct {
	Bumps        *prometheus.CounterVec
	AutoBumpRuns *prometheus.CounterVec
}

// New creates and registers the release metrics.
func New() *Metrics {
	return &Metrics{
		Bumps: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "orbit_release_bumps_total",
			Help: "Total release version bumps, by tenant and bump type",
		}, []string{"tenant", "bump"}),

		AutoBumpRuns: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "orbit_release_auto_bump_tenants_total",
			Help: "Per-tenant outcomes of auto deploy bumps",
		}, []string{"outcome"}), // outcome: "bumped", "skipped", "failed"
	}
}

// IncrementBump records one release bump.
func (m *Metrics) IncrementBump(tenant, bump string) {
	if m != nil {
		m.Bumps.WithLabelValues(tenant, bump).Inc()
	}
}

// IncrementAutoBump records one per-tenant auto-bump outcome.
func (m *Metrics) IncrementAutoBump(outcome string) {
	if m != nil {
		m.AutoBumpRuns.WithLabelValues(outcome).Inc()
	}
}
