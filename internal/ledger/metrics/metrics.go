package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the scan ledger.
type Metrics struct {
	// Scan outcomes by resource type and outcome
	ScanOutcome *prometheus.CounterVec

	// End-to-end scan latency including entitlement resolution
	ScanLatency prometheus.Histogram

	// Records transitioned to voided
	VoidedRecords prometheus.Counter
}

// New creates a Metrics instance with all ledger metrics registered.
func New() *Metrics {
	return &Metrics{
		ScanOutcome: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "symposia_ledger_scan_outcomes_total",
			Help: "Total scan outcomes by resource type and outcome",
		}, []string{"resource_type", "outcome"}), // outcome: "recorded", "duplicate", "denied", "reprint"

		ScanLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "symposia_ledger_scan_duration_seconds",
			Help:    "Duration of full scan processing including entitlement resolution",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),

		VoidedRecords: promauto.NewCounter(prometheus.CounterOpts{
			Name: "symposia_ledger_voided_records_total",
			Help: "Total ledger records transitioned to voided",
		}),
	}
}

// IncrementOutcome records a scan outcome.
func (m *Metrics) IncrementOutcome(resourceType, outcome string) {
	if m != nil {
		m.ScanOutcome.WithLabelValues(resourceType, outcome).Inc()
	}
}

// ObserveScanLatency records the total scan duration.
func (m *Metrics) ObserveScanLatency(d time.Duration) {
	if m != nil {
		m.ScanLatency.Observe(d.Seconds())
	}
}

// AddVoided records how many ledger rows one void call cleared.
func (m *Metrics) AddVoided(count int64) {
	if m != nil && count > 0 {
		m.VoidedRecords.Add(float64(count))
	}
}
