package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ReviewSubmissionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bookreviews_review_submissions_total",
			Help: "Total number of review submissions by outcome (created, updated, invalid, failed)",
		},
		[]string{"outcome"},
	)

	ReviewListSize = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "bookreviews_review_list_size",
			Help:    "Number of reviews returned per book listing",
			Buckets: []float64{0, 1, 5, 10, 25, 50, 100, 250, 500},
		},
	)
)
