package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for certificate rendering.
type Metrics struct {
	// Render outcomes: "rendered", "template_error", "failed"
	Renders *prometheus.CounterVec

	// Full render duration including context assembly
	RenderDuration prometheus.Histogram

	// Bytes of the produced PDFs
	PDFSize prometheus.Histogram
}

// New creates a Metrics instance with all certificate metrics registered.
func New() *Metrics {
	return &Metrics{
		Renders: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "symposia_certificate_renders_total",
			Help: "Total certificate render attempts by outcome",
		}, []string{"outcome"}),

		RenderDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "symposia_certificate_render_duration_seconds",
			Help:    "Duration of certificate rendering including data assembly",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}),

		PDFSize: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "symposia_certificate_pdf_bytes",
			Help:    "Size distribution of rendered certificate PDFs",
			Buckets: prometheus.ExponentialBuckets(16*1024, 2, 8),
		}),
	}
}

// IncrementRender records one render attempt.
func (m *Metrics) IncrementRender(outcome string) {
	if m != nil {
		m.Renders.WithLabelValues(outcome).Inc()
	}
}

// ObserveRender records a successful render's duration and output size.
func (m *Metrics) ObserveRender(d time.Duration, pdfBytes int) {
	if m != nil {
		m.RenderDuration.Observe(d.Seconds())
		m.PDFSize.Observe(float64(pdfBytes))
	}
}
