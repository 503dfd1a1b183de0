package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/diewo77/go-library/httpx"
	"github.com/rs/zerolog"
)

// TokenVerifier validates a raw bearer token.
type TokenVerifier interface {
	Verify(ctx context.Context, raw string) (*Claims, error)
}

// ResolveFunc maps a token subject to the application user. It returns the
// zero value when the subject is unknown.
type ResolveFunc[U comparable] func(ctx context.Context, subject string) (U, error)

// Middleware authenticates bearer tokens and stores the resolved user with
// WithUser. Requests without an Authorization header pass through as
// anonymous; authorization decides what they may do.
//
//   - malformed or invalid token: 401 unauthorized
//   - expired token: 401 token_expired
//   - valid token for an unknown user: 403 forbidden
func Middleware[U comparable](v TokenVerifier, resolve ResolveFunc[U]) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				next.ServeHTTP(w, r)
				return
			}
			raw, ok := bearerToken(header)
			if !ok {
				httpx.JSONError(w, http.StatusUnauthorized, httpx.CodeUnauthorized, "malformed authorization header", nil)
				return
			}

			ctx := r.Context()
			claims, err := v.Verify(ctx, raw)
			if errors.Is(err, ErrTokenExpired) {
				httpx.JSONError(w, http.StatusUnauthorized, httpx.CodeTokenExpired, "token expired", nil)
				return
			}
			if err != nil {
				zerolog.Ctx(ctx).Debug().Err(err).Msg("rejected access token")
				httpx.JSONError(w, http.StatusUnauthorized, httpx.CodeUnauthorized, "invalid token", nil)
				return
			}

			user, err := resolve(ctx, claims.Subject)
			if err != nil {
				zerolog.Ctx(ctx).Error().Err(err).Msg("resolve current user")
				httpx.JSONError(w, http.StatusInternalServerError, httpx.CodeInternal, "internal server error", nil)
				return
			}
			var zero U
			if user == zero {
				httpx.JSONError(w, http.StatusForbidden, httpx.CodeForbidden, "unknown user", nil)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithUser(ctx, user)))
		})
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
