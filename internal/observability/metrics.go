package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrorRate counts Redis errors by operation type.
	RedisErrorRate = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "devconnector_redis_error_rate_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// FeedEventsPublished counts feed events handed to Redis, by type and outcome.
	FeedEventsPublished = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "devconnector_feed_events_published_total",
		Help: "Feed events published to Redis by type and result",
	}, []string{"event_type", "result"})

	// GithubRequests counts outbound repository lookups by result.
	GithubRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "devconnector_github_requests_total",
		Help: "Outbound GitHub repository lookups by result",
	}, []string{"result"})

	// AuthFailures counts rejected registrations, logins and tokens by error code.
	AuthFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "devconnector_auth_failures_total",
		Help: "Authentication failures by error code",
	}, []string{"code"})
)
