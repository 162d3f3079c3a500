// Package metrics registers the Prometheus instruments for the edge tier.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	Logins            prometheus.Counter
	GuardRedirects    prometheus.Counter
	MutationRollbacks prometheus.Counter
	UpstreamDuration  *prometheus.HistogramVec
	UpstreamErrors    *prometheus.CounterVec
}

// New creates and registers all metrics on reg. Pass a fresh registry in
// tests to avoid duplicate registration.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Logins: factory.NewCounter(prometheus.CounterOpts{
			Name: "glimpse_logins_total",
			Help: "Total number of successful logins.",
		}),
		GuardRedirects: factory.NewCounter(prometheus.CounterOpts{
			Name: "glimpse_guard_redirects_total",
			Help: "Requests redirected to /login by the route guard.",
		}),
		MutationRollbacks: factory.NewCounter(prometheus.CounterOpts{
			Name: "glimpse_mutation_rollbacks_total",
			Help: "Optimistic mutations rolled back after upstream failure.",
		}),
		UpstreamDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "glimpse_upstream_request_duration_seconds",
			Help:    "Latency of server-side calls to the backend API.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		UpstreamErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "glimpse_upstream_errors_total",
			Help: "Backend calls that ended in a non-2xx or transport error.",
		}, []string{"method", "route"}),
	}
}
