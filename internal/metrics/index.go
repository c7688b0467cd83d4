package metrics

import "github.com/prometheus/client_golang/prometheus"

// Collection and query metrics.
var (
	CollectionDocuments = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "dinemite",
			Name:      "collection_documents",
			Help:      "Documents currently held by the in-memory collection",
		},
		[]string{"collection"},
	)

	UpsertRejectedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "dinemite",
			Name:      "collection_upsert_rejected_total",
			Help:      "Upserts rejected by the collection",
		},
		[]string{"collection", "reason"},
	)

	ReindexDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "dinemite",
			Name:      "reindex_duration_seconds",
			Help:      "Full reindex duration in seconds",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30},
		},
	)

	RecommendDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "dinemite",
			Name:      "recommend_duration_seconds",
			Help:      "Recommendation query duration in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"state"},
	)
)

var indexMetricsRegistered bool

// RegisterIndexMetrics registers collection and query metrics. Must be called once from main.
func RegisterIndexMetrics() {
	if indexMetricsRegistered {
		return
	}
	prometheus.MustRegister(CollectionDocuments)
	prometheus.MustRegister(UpsertRejectedTotal)
	prometheus.MustRegister(ReindexDuration)
	prometheus.MustRegister(RecommendDuration)
	indexMetricsRegistered = true
}
