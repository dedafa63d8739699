package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	DBQueryDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "db_query_duration_seconds",
			Help:      "SQL statement duration in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"operation"},
	)

	DBQueryErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "db_query_errors_total",
			Help:      "Failed SQL statements",
		},
		[]string{"operation"},
	)

	DBSlowQueriesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "db_slow_queries_total",
			Help:      "SQL statements slower than the configured threshold",
		},
	)

	CacheCommandDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "cache_command_duration_seconds",
			Help:      "Redis command duration in seconds",
			Buckets:   []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25},
		},
		[]string{"command"},
	)

	CacheCommandErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_command_errors_total",
			Help:      "Failed Redis commands, misses excluded",
		},
		[]string{"command"},
	)
)

var dbMetricsRegistered bool

// RegisterDBMetrics registers SQL and Redis metrics. Must be called once from main.
func RegisterDBMetrics() {
	if dbMetricsRegistered {
		return
	}
	prometheus.MustRegister(
		DBQueryDuration, DBQueryErrorsTotal, DBSlowQueriesTotal,
		CacheCommandDuration, CacheCommandErrorsTotal,
	)
	dbMetricsRegistered = true
}
