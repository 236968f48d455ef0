package verify

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	Verifications *prometheus.CounterVec
	CheckFailures *prometheus.CounterVec
	Duration      prometheus.Histogram
}

// NewMetrics registers the service metrics on the default registry. Call it
// once per process.
func NewMetrics() *Metrics {
	return &Metrics{
		Verifications: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "invoice_verifications_total",
			Help: "Total invoice verifications by verdict",
		}, []string{"verdict"}),
		CheckFailures: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "invoice_check_failures_total",
			Help: "Total failed checks by check name",
		}, []string{"check"}),
		Duration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "invoice_verification_duration_seconds",
			Help:    "Duration of verification calls",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
	}
}

func (m *Metrics) ObserveVerification(result VerifyResponse, start time.Time) {
	m.Verifications.WithLabelValues(result.Verdict).Inc()
	for _, c := range result.Checks {
		if c.Status == StatusFail {
			m.CheckFailures.WithLabelValues(c.Name).Inc()
		}
	}
	m.Duration.Observe(time.Since(start).Seconds())
}
