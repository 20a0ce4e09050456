package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/isdelr/ender-auth-be/internal/models"
	"github.com/rs/zerolog"
)

type contextKey string

const principalKey = contextKey("principal")

// PrincipalResolver loads the identity behind a verified token. It returns
// (nil, nil) when the user no longer exists.
type PrincipalResolver interface {
	ResolvePrincipal(ctx context.Context, userID string) (*models.Principal, error)
}

// ErrorWriter renders an error response.
type ErrorWriter func(w http.ResponseWriter, status int, message string)

// WithPrincipal attaches p to ctx.
func WithPrincipal(ctx context.Context, p models.Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

// PrincipalFromContext returns the principal attached by Middleware, if any.
func PrincipalFromContext(ctx context.Context) (models.Principal, bool) {
	p, ok := ctx.Value(principalKey).(models.Principal)
	return p, ok
}

// BearerToken extracts the token from an "Authorization: Bearer <token>" header.
func BearerToken(r *http.Request) string {
	parts := strings.SplitN(r.Header.Get("Authorization"), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// Middleware protects routes with a bearer token. A valid token whose user
// cannot be found passes through without a principal.
func Middleware(issuer *TokenIssuer, resolver PrincipalResolver, log zerolog.Logger, writeError ErrorWriter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr := BearerToken(r)
			if tokenStr == "" {
				writeError(w, http.StatusUnauthorized, "Missing auth token")
				return
			}

			claims, err := issuer.Verify(tokenStr)
			if err != nil {
				log.Warn().Err(err).Msg("Rejected bearer token")
				writeError(w, http.StatusUnauthorized, "Invalid auth token")
				return
			}

			principal, err := resolver.ResolvePrincipal(r.Context(), claims.UserID())
			if err != nil {
				log.Error().Err(err).Str("user_id", claims.UserID()).Msg("Failed to resolve principal")
				writeError(w, http.StatusInternalServerError, err.Error())
				return
			}
			if principal == nil {
				log.Warn().Str("user_id", claims.UserID()).Msg("User from token not found")
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), *principal)))
		})
	}
}
