package middleware

import (
	"net/http"
	"time"

	"github.com/qrtag/qrtag-api/internal/apperr"
	"github.com/qrtag/qrtag-api/internal/auth"
	"github.com/qrtag/qrtag-api/internal/cache"
	"github.com/qrtag/qrtag-api/internal/logger"
)

// ThrottleUpdates limits PUT/PATCH requests per authenticated user to
// a fixed window counted in Redis. Other methods and anonymous
// requests pass through untouched.
func ThrottleUpdates(rdb *cache.RedisCache, limit int, window time.Duration, reject func(w http.ResponseWriter, r *http.Request, err error)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPut && r.Method != http.MethodPatch {
				next.ServeHTTP(w, r)
				return
			}

			identity, ok := auth.IdentityFrom(r.Context())
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			allowed, err := rdb.AllowUpdate(r.Context(), identity.UserID, limit, window)
			if err != nil {
				// redis trouble must not take updates down with it
				logger.Warn("update throttle unavailable", "err", err)
				next.ServeHTTP(w, r)
				return
			}
			if !allowed {
				reject(w, r, apperr.ErrThrottled)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
