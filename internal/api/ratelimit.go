package api

import (
	"net/http"

	"github.com/tidewater-news/newsdex/internal/ratelimit"
	"github.com/tidewater-news/newsdex/pkg/errors"
	"github.com/tidewater-news/newsdex/pkg/metrics"
)

// RateLimit returns middleware enforcing a token bucket per caller
// identity (validated API key id, or remote address when unauthenticated).
func RateLimit(limiter *ratelimit.Limiter, m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := rateLimitKey(r)
			if !limiter.Allow(key) {
				m.RateLimitRejections.Inc()
				w.Header().Set("Retry-After", "1")
				writeError(w, errors.New(errors.ErrRateLimited, http.StatusTooManyRequests, "rate limit exceeded"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
