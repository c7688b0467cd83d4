package metrics

import "github.com/prometheus/client_golang/prometheus"

// Embedding Prometheus metrics.
var (
	EmbeddingRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "dinemite",
			Name:      "embedding_requests_total",
			Help:      "Total number of remote embedding requests",
		},
		[]string{"provider", "model", "status"},
	)

	EmbeddingRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "dinemite",
			Name:      "embedding_request_duration_seconds",
			Help:      "Remote embedding request duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"provider", "model"},
	)

	EmbeddingErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "dinemite",
			Name:      "embedding_errors_total",
			Help:      "Total remote embedding errors",
		},
		[]string{"provider", "model", "error_type"},
	)

	EmbeddingTokensTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "dinemite",
			Name:      "embedding_tokens_total",
			Help:      "Tokens reported by providers that return usage",
		},
		[]string{"provider", "model", "type"}, // type: "prompt" / "total"
	)

	// EmbeddingFallbackTotal counts vectors produced by the local fallback, by reason.
	EmbeddingFallbackTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "dinemite",
			Name:      "embedding_fallback_total",
			Help:      "Embeddings served by the deterministic fallback",
		},
		[]string{"reason"}, // missing_credential / transient_failure / circuit_open
	)

	EmbeddingCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "dinemite",
			Name:      "embedding_cache_total",
			Help:      "Embedding cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)

	// CircuitBreakerState is 0 closed, 1 half-open, 2 open.
	CircuitBreakerState = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "dinemite",
			Name:      "embedding_circuit_breaker_state",
			Help:      "Embedding provider circuit breaker state",
		},
		[]string{"name"},
	)
)

var embMetricsRegistered bool

// RegisterEmbeddingMetrics registers Prometheus embedding metrics. Must be called once from main.
func RegisterEmbeddingMetrics() {
	if embMetricsRegistered {
		return
	}
	prometheus.MustRegister(EmbeddingRequestsTotal)
	prometheus.MustRegister(EmbeddingRequestDuration)
	prometheus.MustRegister(EmbeddingErrorsTotal)
	prometheus.MustRegister(EmbeddingTokensTotal)
	prometheus.MustRegister(EmbeddingFallbackTotal)
	prometheus.MustRegister(EmbeddingCacheTotal)
	prometheus.MustRegister(CircuitBreakerState)
	embMetricsRegistered = true
}
