package transport

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome label values of the requests counter.
const (
	outcomeSuccess = "success"
	outcomeError   = "error"
)

type metrics struct {
	requests      *prometheus.CounterVec
	retries       *prometheus.CounterVec
	invalidations prometheus.Counter
}

// newMetrics creates the client counters. A nil registerer leaves them
// unregistered.
func newMetrics(reg prometheus.Registerer) *metrics {
	f := promauto.With(reg)
	return &metrics{
		requests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "posadmin",
			Subsystem: "api",
			Name:      "requests_total",
			Help:      "Logical API calls by HTTP method and final outcome.",
		}, []string{"method", "outcome"}),
		retries: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "posadmin",
			Subsystem: "api",
			Name:      "retries_total",
			Help:      "Repeated attempts after a failed attempt, by HTTP method.",
		}, []string{"method"}),
		invalidations: f.NewCounter(prometheus.CounterOpts{
			Namespace: "posadmin",
			Subsystem: "api",
			Name:      "session_invalidations_total",
			Help:      "Session tokens cleared after an unauthorized response.",
		}),
	}
}
