package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SignupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bookreviews_signups_total",
			Help: "Signup attempts by result (success, duplicate, invalid, error)",
		},
		[]string{"result"},
	)

	LoginsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bookreviews_logins_total",
			Help: "Login attempts by result (success, invalid_credentials, error)",
		},
		[]string{"result"},
	)

	ProfileUpdatesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bookreviews_profile_updates_total",
			Help: "Total number of successful profile updates",
		},
	)

	AccessTokensIssued = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bookreviews_access_tokens_issued_total",
			Help: "Total number of access tokens issued",
		},
	)

	JWTValidationsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bookreviews_jwt_validations_total",
			Help: "Total number of JWT validations",
		},
	)

	JWTValidationsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bookreviews_jwt_validations_failed_total",
			Help: "Total number of failed JWT validations by reason",
		},
		[]string{"reason"},
	)
)
