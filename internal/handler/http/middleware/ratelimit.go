package middleware

import (
	"context"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/cmlabs-hris/hrcrm-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hrcrm-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/hrcrm-backend-go/internal/pkg/redis"
	"github.com/go-chi/jwtauth/v5"
)

// RateLimiter counts a request against key within a window.
type RateLimiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (redis.RateLimitResult, error)
}

// RateLimitPerUser limits authenticated callers to limit requests per window
// under the given scope. A limiter failure lets the request through.
func RateLimitPerUser(limiter RateLimiter, scope string, limit int, window time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if limiter == nil || limit <= 0 {
				next.ServeHTTP(w, r)
				return
			}

			_, claims, err := jwtauth.FromContext(r.Context())
			userID, _ := claims["user_id"].(string)
			if err != nil || userID == "" {
				next.ServeHTTP(w, r)
				return
			}

			res, err := limiter.Allow(r.Context(), scope+":"+userID, limit, window)
			if err != nil {
				slog.Warn("Rate limiter unavailable", "scope", scope, "error", err)
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
			if !res.Allowed {
				w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(res.RetryAfter.Seconds()))))
				response.HandleError(w, attendance.ErrRateLimitExceeded)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
