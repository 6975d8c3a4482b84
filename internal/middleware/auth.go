package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/qrtag/qrtag-api/internal/apperr"
	"github.com/qrtag/qrtag-api/internal/auth"
)

// IdentityResolver turns a verified token subject into a full request
// identity (profile lookup included). Implemented by the account service.
type IdentityResolver interface {
	Identify(ctx context.Context, userID uint64) (auth.Identity, error)
}

// Authenticate validates a Bearer JWT when present and attaches the
// identity to the request context. Requests without a token pass
// through anonymous; handlers decide whether that is acceptable.
// Requests with an invalid token are rejected outright.
func Authenticate(secret string, resolver IdentityResolver, reject func(w http.ResponseWriter, r *http.Request, err error)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				next.ServeHTTP(w, r)
				return
			}

			tokenString, ok := strings.CutPrefix(header, "Bearer ")
			if !ok {
				reject(w, r, apperr.ErrInvalidToken)
				return
			}

			claims, err := auth.ParseAndValidate(secret, tokenString)
			if err != nil {
				reject(w, r, err)
				return
			}

			identity, err := resolver.Identify(r.Context(), claims.UserID)
			if err != nil {
				reject(w, r, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(auth.WithIdentity(r.Context(), identity)))
		})
	}
}
