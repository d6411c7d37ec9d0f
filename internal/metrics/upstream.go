package metrics

import "github.com/prometheus/client_golang/prometheus"

// Recipe API Prometheus metrics.
var (
	UpstreamRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "recipedex",
			Name:      "upstream_requests_total",
			Help:      "Total number of recipe API requests",
		},
		[]string{"op", "status"},
	)

	UpstreamRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "recipedex",
			Name:      "upstream_request_duration_seconds",
			Help:      "Recipe API request duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"op"},
	)

	UpstreamErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "recipedex",
			Name:      "upstream_errors_total",
			Help:      "Total recipe API errors",
		},
		[]string{"op", "error_type"},
	)
)

var upstreamMetricsRegistered bool

// RegisterUpstreamMetrics registers recipe API metrics. Must be called once from main.
func RegisterUpstreamMetrics() {
	if upstreamMetricsRegistered {
		return
	}
	prometheus.MustRegister(UpstreamRequestsTotal)
	prometheus.MustRegister(UpstreamRequestDuration)
	prometheus.MustRegister(UpstreamErrorsTotal)
	upstreamMetricsRegistered = true
}
