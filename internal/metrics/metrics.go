package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	ResultOK           = "ok"
	ResultInvalid      = "invalid"
	ResultNetwork      = "network"
	ResultRejected     = "rejected"
	ResultNotFound     = "not_found"
	ResultAlreadyDone  = "already_attached"
	ResultSessionTaken = "session_taken"
)

// Metrics tracks the registration handoff: kiosk submissions, device
// attachments and backing store latency.
type Metrics struct {
	Submissions   *prometheus.CounterVec
	Attachments   *prometheus.CounterVec
	StoreDuration *prometheus.HistogramVec
}

// New registers the collectors on reg. Pass prometheus.DefaultRegisterer in
// production and a fresh registry in tests.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		Submissions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "enrollment_submissions_total",
			Help: "Kiosk registration submissions by result",
		}, []string{"result"}),
		Attachments: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "enrollment_attachments_total",
			Help: "Device attachments by result",
		}, []string{"result"}),
		StoreDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "enrollment_store_duration_seconds",
			Help:    "Duration of backing store operations",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"operation"}),
	}
}

func (m *Metrics) IncSubmission(result string) {
	m.Submissions.WithLabelValues(result).Inc()
}

func (m *Metrics) IncAttachment(result string) {
	m.Attachments.WithLabelValues(result).Inc()
}

// ObserveStore records the duration of a store operation.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObserveStore(operation string, start time.Time) {
	m.StoreDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}
