package analysis

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for the analysis pipeline. Registered on the
// default registry and exposed by the server's /metrics endpoint.
var (
	providerCalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "oratio_provider_calls_total",
		Help: "Model provider calls by provider and outcome.",
	}, []string{"provider", "outcome"})

	providerFailovers = promauto.NewCounter(prometheus.CounterOpts{
		Name: "oratio_provider_failovers_total",
		Help: "Permanent switches away from the primary provider.",
	})

	analyzeRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "oratio_analyze_requests_total",
		Help: "Analysis requests by result.",
	}, []string{"result"})
)

// callOutcome buckets an adapter error for metrics.
func callOutcome(err error, isQuota, isUnavailable bool) string {
	switch {
	case err == nil:
		return "ok"
	case isQuota:
		return "quota"
	case isUnavailable:
		return "unavailable"
	default:
		return "error"
	}
}
