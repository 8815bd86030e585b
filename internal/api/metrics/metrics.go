// Package metrics defines the custom Prometheus metrics for the marketplace
// API. It is the single source of truth for metric names, labels and help
// strings. All metrics register with the default registry on import.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "marketplace"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// AuthFailuresTotal counts rejected authentication attempts.
// Label:
//   - reason: "invalid_credentials", "invalid_token", "inactive_account", "missing_token"
var AuthFailuresTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_failures_total",
		Help:      "Total number of rejected login, refresh and bearer authentication attempts.",
	},
	[]string{"reason"},
)

// RateLimitedTotal counts requests rejected by the token bucket.
// Label:
//   - route: the matched route path (e.g. "/auth/login")
var RateLimitedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rate_limited_total",
		Help:      "Total number of requests rejected by the rate limiter.",
	},
	[]string{"route"},
)

// ── Request lifecycle metrics ─────────────────────────────────────────────────

// RequestsCreatedTotal counts newly created service requests.
var RequestsCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "service_requests_created_total",
		Help:      "Total number of service requests created.",
	},
)

// RequestTransitionsTotal counts successful status transitions.
// Labels:
//   - to: the new status
//   - role: the role of the caller that drove it
var RequestTransitionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "service_request_transitions_total",
		Help:      "Total number of service request status transitions, by target status and caller role.",
	},
	[]string{"to", "role"},
)

// ── Feedback metrics ──────────────────────────────────────────────────────────

// FeedbackSubmittedTotal counts stored feedback.
// Label:
//   - rating: "1" .. "5"
var FeedbackSubmittedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "feedback_submitted_total",
		Help:      "Total number of feedback entries submitted, by rating.",
	},
	[]string{"rating"},
)

// RatingRecomputeDuration measures the provider rating aggregation, which
// grows with the provider's feedback count.
var RatingRecomputeDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "rating_recompute_duration_seconds",
		Help:      "Duration of provider rating recomputation after a feedback submission.",
		Buckets:   prometheus.DefBuckets,
	},
)

// RatingObserver feeds RatingRecomputeDuration. It implements
// service.RatingObserver.
type RatingObserver struct{}

func (RatingObserver) ObserveRatingRecompute(d time.Duration) {
	RatingRecomputeDuration.Observe(d.Seconds())
}
