package middleware

import (
	"log/slog"
	"net"
	"net/http"
	"sync"

	"golang.org/x/time/rate"

	"github.com/user/log-vault/internal/adapter/metrics"
)

// Prevent unbounded map growth when a flood of distinct addresses hits the
// submission path.
const maxTrackedClients = 10000

// RateLimit applies a per-remote-address token bucket to the wrapped
// handler. When the tracked-client cap is reached, unseen addresses share
// a single overflow limiter instead of growing the map.
func RateLimit(rps float64, burst int, logger *slog.Logger, m *metrics.ServiceMetrics) func(http.Handler) http.Handler {
	var mu sync.Mutex
	limiters := make(map[string]*rate.Limiter)
	overflow := rate.NewLimiter(rate.Limit(rps), burst)

	limiterFor := func(addr string) *rate.Limiter {
		host, _, err := net.SplitHostPort(addr)
		if err != nil {
			host = addr
		}

		mu.Lock()
		defer mu.Unlock()
		if l, ok := limiters[host]; ok {
			return l
		}
		if len(limiters) >= maxTrackedClients {
			return overflow
		}
		l := rate.NewLimiter(rate.Limit(rps), burst)
		limiters[host] = l
		return l
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiterFor(r.RemoteAddr).Allow() {
				logger.Warn("rate limited", "remote_addr", r.RemoteAddr)
				if m != nil {
					m.RateLimitedTotal.Inc()
				}
				http.Error(w, "Too Many Requests", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
