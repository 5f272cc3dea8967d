package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for hallmark issuance and lookups.
type Metrics struct {
	Issued        *prometheus.CounterVec
	Verifications prometheus.Counter
}

// New creates and registers the hallmark metrics.
func New() *Metrics {
	return &Metrics{
		Issued: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "orbit_hallmarks_issued_total",
			Help: "Total hallmarks issued, by asset type and numbering scheme",
		}, []string{"asset_type", "scheme"}), // scheme: "date", "master"

		Verifications: promauto.NewCounter(prometheus.CounterOpts{
			Name: "orbit_hallmark_verifications_total",
			Help: "Total public verification lookups",
		}),
	}
}

// IncrementIssued records one issued hallmark.
func (m *Metrics) IncrementIssued(assetType, scheme string) {
	if m != nil {
		m.Issued.WithLabelValues(assetType, scheme).Inc()
	}
}

// IncrementVerifications records one public verification.
func (m *Metrics) IncrementVerifications() {
	if m != nil {
		m.Verifications.Inc()
	}
}
