package router

import (
	"log/slog"
	"math"
	"net/http"
	"strconv"

	"github.com/shandysiswandi/phoneauth/internal/pkg/ratelimit"
)

// middlewareRateLimit throttles every request per client IP. Limiter
// failures let the request through.
func middlewareRateLimit(limiter ratelimit.Limiter) Middleware {
	return func(next http.Handler) http.Handler {
		if limiter == nil {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			d, err := limiter.Allow(r.Context(), "ip:"+r.RemoteAddr)
			if err != nil {
				slog.WarnContext(r.Context(), "ip rate limiter unavailable", "error", err)
				next.ServeHTTP(w, r)
				return
			}

			if !d.Allowed {
				secs := strconv.Itoa(int(math.Ceil(d.RetryAfter.Seconds())))
				w.Header().Set("Retry-After", secs)
				writeJSON(w, errorResponse{
					Message: "Too many requests",
					Error:   map[string]string{"retry_after_seconds": secs},
				}, http.StatusTooManyRequests)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
