package api

import (
	"net/http"
	"time"

	"github.com/go-chi/httprate"

	"github.com/okian/usersapi/pkg/metrics"
)

const rateLimitedMessage = "Too many requests, please try again later."

// RateLimit caps each client IP at requests per window. The client IP is
// r.RemoteAddr as rewritten by middleware.RealIP. httprate sets the
// X-RateLimit-* headers on every response and Retry-After once limited.
func RateLimit(requests int, window time.Duration) func(http.Handler) http.Handler {
	return httprate.Limit(requests, window,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			metrics.RecordRateLimited(r.Method)
			writeMessage(w, http.StatusTooManyRequests, rateLimitedMessage)
		}),
	)
}
