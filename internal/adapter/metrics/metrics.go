package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ServiceMetrics holds all Prometheus metrics for the log vault service.
type ServiceMetrics struct {
	SubmissionsTotal *prometheus.CounterVec
	EntriesPersisted prometheus.Counter
	UsersProvisioned prometheus.Counter
	TokenRejections  prometheus.Counter
	UserCacheHits    prometheus.Counter
	UserCacheMisses  prometheus.Counter
	RateLimitedTotal prometheus.Counter
}

// NewServiceMetrics initializes and registers the Prometheus metrics.
func NewServiceMetrics() *ServiceMetrics {
	return &ServiceMetrics{
		SubmissionsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "log_vault",
			Subsystem: "ingest",
			Name:      "submissions_total",
			Help:      "Total number of submission requests by outcome.",
		}, []string{"status"}), // status: accepted, rejected_malformed, error_storage
		EntriesPersisted: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: "log_vault",
			Subsystem: "ingest",
			Name:      "entries_persisted_total",
			Help:      "Total number of log entries durably persisted.",
		}),
		UsersProvisioned: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: "log_vault",
			Subsystem: "ingest",
			Name:      "users_provisioned_total",
			Help:      "Total number of users lazily provisioned on first submission.",
		}),
		TokenRejections: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: "log_vault",
			Subsystem: "auth",
			Name:      "token_rejections_total",
			Help:      "Total number of capability tokens that failed validation.",
		}),
		UserCacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: "log_vault",
			Subsystem: "cache",
			Name:      "user_resolution_hits_total",
			Help:      "Total number of user resolutions served from the Redis cache.",
		}),
		UserCacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: "log_vault",
			Subsystem: "cache",
			Name:      "user_resolution_misses_total",
			Help:      "Total number of user resolutions that fell back to the store.",
		}),
		RateLimitedTotal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: "log_vault",
			Subsystem: "ingest",
			Name:      "rate_limited_total",
			Help:      "Total number of submission requests rejected by rate limiting.",
		}),
	}
}
