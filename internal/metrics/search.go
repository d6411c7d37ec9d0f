package metrics

import "github.com/prometheus/client_golang/prometheus"

// Search session Prometheus metrics.
var (
	SearchEventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "recipedex",
			Name:      "search_events_total",
			Help:      "Search controller events by type and outcome",
		},
		[]string{"event", "outcome"}, // outcome: ok, error, skipped, stale
	)

	SearchPageRecipes = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "recipedex",
			Name:      "search_page_recipes",
			Help:      "Number of recipes returned per fetched page",
			Buckets:   []float64{0, 1, 5, 10, 20, 30},
		},
	)

	ActiveSessions = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "recipedex",
			Name:      "active_sessions",
			Help:      "Search sessions currently held in memory",
		},
	)
)

var searchMetricsRegistered bool

// RegisterSearchMetrics registers search session metrics. Must be called once from main.
func RegisterSearchMetrics() {
	if searchMetricsRegistered {
		return
	}
	prometheus.MustRegister(SearchEventsTotal)
	prometheus.MustRegister(SearchPageRecipes)
	prometheus.MustRegister(ActiveSessions)
	searchMetricsRegistered = true
}
