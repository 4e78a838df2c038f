package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/travelstay/bookings/internal/domain"
	"github.com/travelstay/bookings/internal/http/response"
	"github.com/travelstay/bookings/pkg/auth"
	"github.com/travelstay/bookings/pkg/logger"
)

type contextKey string

const callerKey contextKey = "caller"

// RequireAuth resolves the caller from a bearer token issued by the
// identity provider. The core trusts the token's role flags; it never
// issues or stores credentials itself.
func RequireAuth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				response.Unauthorized(w, "missing or invalid authorization header")
				return
			}

			token := strings.TrimPrefix(authHeader, "Bearer ")
			claims, err := auth.Parse(token, secret)
			if err != nil {
				response.Unauthorized(w, "invalid token")
				return
			}

			caller := domain.Caller{
				ID:        claims.Sub,
				Email:     claims.Email,
				Staff:     claims.Staff,
				Superuser: claims.Superuser,
			}

			ctx := context.WithValue(r.Context(), callerKey, caller)
			ctx = context.WithValue(ctx, logger.UserIDKey, caller.ID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// CallerFrom returns the authenticated caller, if any.
func CallerFrom(r *http.Request) (domain.Caller, bool) {
	caller, ok := r.Context().Value(callerKey).(domain.Caller)
	return caller, ok
}

// WithCaller injects a caller into the request context; used by tests.
func WithCaller(r *http.Request, caller domain.Caller) *http.Request {
	ctx := context.WithValue(r.Context(), callerKey, caller)
	return r.WithContext(ctx)
}
