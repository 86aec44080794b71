// Package metrics holds the Prometheus collectors of the service. They are
// registered on the default registry and served by the admin listener.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	svcErr "github.com/oggyb/vidrec/internal/errors"
)

const namespace = "vidrec"

// Outcome labels.
const (
	OutcomeOK       = "ok"
	OutcomeRejected = "rejected"
	OutcomeError    = "error"
)

var (
	// RecommendationRequests counts recommender calls by operation and outcome.
	RecommendationRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "recommendation_requests_total",
			Help:      "Total number of recommendation calls",
		},
		[]string{"op", "outcome"},
	)

	RecommendationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "recommendation_duration_seconds",
			Help:      "Duration of recommendation calls in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"op"},
	)

	// PersonalizedFallbacks counts personalized calls answered with the general ranking.
	PersonalizedFallbacks = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "personalized_fallbacks_total",
			Help:      "Personalized recommendations that fell back to the general ranking",
		},
	)

	FollowerCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "follower_cache_lookups_total",
			Help:      "Follower count cache lookups by result (hit, miss, error)",
		},
		[]string{"result"},
	)

	// GRPCRequests counts finished unary calls by full method and status code.
	GRPCRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "grpc_requests_total",
			Help:      "Total number of unary gRPC calls",
		},
		[]string{"method", "code"},
	)
)

// Outcome classifies err for the outcome label.
func Outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeOK
	case svcErr.IsRejection(err):
		return OutcomeRejected
	default:
		return OutcomeError
	}
}

// ObserveRecommendation records one finished recommender call.
func ObserveRecommendation(op string, start time.Time, err error) {
	RecommendationRequests.WithLabelValues(op, Outcome(err)).Inc()
	RecommendationDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

// Cache lookup results.
const (
	CacheHit   = "hit"
	CacheMiss  = "miss"
	CacheError = "error"
)

func RecordFollowerCacheLookup(result string) {
	FollowerCacheLookups.WithLabelValues(result).Inc()
}
