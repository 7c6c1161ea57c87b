// Package metrics holds the Prometheus collectors for backend traffic,
// workflow outcomes and login attempts.
package metrics

import (
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	backendRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "copilot_backend_requests_total",
			Help: "Backend calls per endpoint and outcome (success/request_error/malformed).",
		},
		[]string{"endpoint", "outcome"},
	)

	backendLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "copilot_backend_request_duration_seconds",
			Help:    "Backend call latency per endpoint.",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20, 40, 80},
		},
		[]string{"endpoint"},
	)

	workflowSubmissions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "copilot_workflow_submissions_total",
			Help: "Workflow submit cycles by outcome (success/failure/rejected).",
		},
		[]string{"workflow", "outcome"},
	)

	loginAttempts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "copilot_login_attempts_total",
			Help: "Login attempts by outcome (success/failure/no_frame).",
		},
		[]string{"outcome"},
	)
)

// MustRegister registers collectors with the default registry (idempotent).
func MustRegister() {
	once.Do(func() {
		prometheus.MustRegister(
			backendRequests, backendLatency,
			workflowSubmissions, loginAttempts,
		)
	})
}

func norm(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

func ObserveBackendRequest(endpoint, outcome string, elapsed time.Duration) {
	backendRequests.WithLabelValues(norm(endpoint), norm(outcome)).Inc()
	backendLatency.WithLabelValues(norm(endpoint)).Observe(elapsed.Seconds())
}

func IncWorkflowSubmission(workflow, outcome string) {
	workflowSubmissions.WithLabelValues(norm(workflow), norm(outcome)).Inc()
}

func IncLoginAttempt(outcome string) {
	loginAttempts.WithLabelValues(norm(outcome)).Inc()
}
