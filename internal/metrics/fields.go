package metrics

import "github.com/prometheus/client_golang/prometheus"

// Numeric field Prometheus metrics.
var (
	RepresentationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "pointfield",
			Name:      "representations_total",
			Help:      "Total number of indexable representations produced",
		},
		[]string{"kind", "domain"},
	)

	DocumentOpsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "pointfield",
			Name:      "document_operations_total",
			Help:      "Total document writes, reads and deletes",
		},
		[]string{"op", "status"},
	)

	QueriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "pointfield",
			Name:      "queries_total",
			Help:      "Total number of queries by execution path",
		},
		[]string{"path", "domain"},
	)

	QueryErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "pointfield",
			Name:      "query_errors_total",
			Help:      "Total query errors",
		},
		[]string{"error_type"},
	)

	QueryDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "pointfield",
			Name:      "query_duration_seconds",
			Help:      "Query execution duration in seconds",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		},
		[]string{"op", "backend"},
	)
)

var fieldMetricsRegistered bool

// RegisterFieldMetrics registers numeric field metrics. Must be called once from main.
func RegisterFieldMetrics() {
	if fieldMetricsRegistered {
		return
	}
	prometheus.MustRegister(RepresentationsTotal)
	prometheus.MustRegister(DocumentOpsTotal)
	prometheus.MustRegister(QueriesTotal)
	prometheus.MustRegister(QueryErrorsTotal)
	prometheus.MustRegister(QueryDuration)
	fieldMetricsRegistered = true
}
