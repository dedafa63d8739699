package metrics

import "github.com/prometheus/client_golang/prometheus"

const namespace = "gigmarket"

// Assistant Prometheus metrics.
var (
	AssistantRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "assistant_requests_total",
			Help:      "Total number of language model completions",
		},
		[]string{"provider", "model", "task", "status"},
	)

	AssistantRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "assistant_request_duration_seconds",
			Help:      "Language model completion duration in seconds",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 4, 8, 16, 30},
		},
		[]string{"provider", "model", "task"},
	)

	AssistantTokensTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "assistant_tokens_total",
			Help:      "Total language model tokens consumed",
		},
		[]string{"provider", "model", "type"}, // type: prompt / completion
	)

	AssistantErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "assistant_errors_total",
			Help:      "Total language model errors",
		},
		[]string{"provider", "model", "error_type"},
	)

	AssistantBudgetTokensRemaining = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "assistant_budget_tokens_remaining",
			Help:      "Remaining token budget",
		},
		[]string{"provider", "period"},
	)

	AssistantCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "assistant_cache_total",
			Help:      "Completion cache hits and misses",
		},
		[]string{"task", "result"}, // result: hit / miss
	)

	RecommendationKeywords = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "recommendation_keywords",
			Help:      "Keywords extracted per recommendation request",
			Buckets:   []float64{0, 1, 2, 3, 5, 8, 13, 21},
		},
	)

	RecommendationResults = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "recommendation_results",
			Help:      "Rows returned per recommendation request",
			Buckets:   []float64{0, 1, 5, 10, 25, 50, 100, 250},
		},
		[]string{"kind"}, // gigs / users
	)
)

var assistantMetricsRegistered bool

// RegisterAssistantMetrics registers Prometheus assistant metrics. Must be called once from main.
func RegisterAssistantMetrics() {
	if assistantMetricsRegistered {
		return
	}
	prometheus.MustRegister(
		AssistantRequestsTotal,
		AssistantRequestDuration,
		AssistantTokensTotal,
		AssistantErrorsTotal,
		AssistantBudgetTokensRemaining,
		AssistantCacheTotal,
		RecommendationKeywords,
		RecommendationResults,
	)
	assistantMetricsRegistered = true
}
