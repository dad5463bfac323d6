package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hrflow_http_requests_total",
			Help: "Total number of handled HTTP requests.",
		},
		[]string{"method", "route", "status"},
	)
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "hrflow_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
	ApplicationTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hrflow_application_transitions_total",
			Help: "Total number of application status transitions.",
		},
		[]string{"from", "to"},
	)
	PositionTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hrflow_position_transitions_total",
			Help: "Total number of job position status transitions.",
		},
		[]string{"from", "to"},
	)
	ApplicationsSubmitted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "hrflow_applications_submitted_total",
			Help: "Total number of applications received through the public form.",
		},
	)
	EmailsSent = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hrflow_emails_total",
			Help: "Total number of emails by kind and outcome.",
		},
		[]string{"kind", "outcome"},
	)
	ScoringDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "hrflow_ai_scoring_duration_seconds",
			Help:    "Duration of a single AI CV scoring call in seconds.",
			Buckets: []float64{1, 2, 5, 10, 30, 60},
		},
	)
	WorkerErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hrflow_worker_errors_total",
			Help: "Total number of background worker errors.",
		},
		[]string{"worker"},
	)
)

var registerOnce sync.Once

// Register регистрирует коллекторы в default registry; повторные вызовы безопасны
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(HTTPRequestsTotal)
		prometheus.MustRegister(HTTPRequestDuration)
		prometheus.MustRegister(ApplicationTransitions)
		prometheus.MustRegister(PositionTransitions)
		prometheus.MustRegister(ApplicationsSubmitted)
		prometheus.MustRegister(EmailsSent)
		prometheus.MustRegister(ScoringDuration)
		prometheus.MustRegister(WorkerErrors)
	})
}
