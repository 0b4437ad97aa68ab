package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// DBPoolConnections is sampled from pgxpool.Stat; state is one of
// acquired, idle, total or max.
var DBPoolConnections = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Name: "bookreviews_db_pool_connections",
		Help: "Database pool connections by state",
	},
	[]string{"state"},
)

var (
	DBQueryDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bookreviews_db_query_duration_seconds",
			Help:    "Duration of database queries in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"operation", "table"},
	)

	DBQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bookreviews_db_query_errors_total",
			Help: "Database query errors by operation and Go error type",
		},
		[]string{"operation", "table", "error_type"},
	)

	DBRetriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bookreviews_db_retries_total",
			Help: "Retried database operations",
		},
		[]string{"operation"},
	)

	DBUniqueViolationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bookreviews_db_unique_violations_total",
			Help: "Writes rejected by a unique constraint",
		},
		[]string{"table", "constraint"},
	)
)
