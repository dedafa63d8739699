package chi

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/kailas-cloud/gigmarket/internal/auth"
	"github.com/kailas-cloud/gigmarket/internal/domain"
	"github.com/kailas-cloud/gigmarket/internal/logger"
)

// TokenVerifier checks session tokens.
type TokenVerifier interface {
	Verify(token string) (auth.Claims, error)
}

type userIDKey struct{}

// UserIDFromContext returns the authenticated user, if any.
func UserIDFromContext(ctx context.Context) (uint, bool) {
	id, ok := ctx.Value(userIDKey{}).(uint)
	return id, ok && id > 0
}

func contextWithUser(ctx context.Context, id uint) context.Context {
	ctx = context.WithValue(ctx, userIDKey{}, id)
	return logger.With(ctx, logger.UserID(id))
}

// bearerToken extracts the session token from the Authorization header.
// Returns "" with ok=true when the header is absent.
func bearerToken(r *http.Request) (token string, ok bool) {
	h := r.Header.Get("Authorization")
	if h == "" {
		return "", true
	}
	const bearerPrefix = "Bearer "
	if !strings.HasPrefix(h, bearerPrefix) {
		return "", false
	}
	return strings.TrimSpace(h[len(bearerPrefix):]), true
}

// RequireUser rejects requests without a valid session token.
// Missing or expired tokens get 401, tokens that fail verification get 403.
func RequireUser(tokens TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				writeError(w, http.StatusUnauthorized, CodeUnauthorized, "authorization header must use Bearer scheme")
				return
			}
			if token == "" {
				writeError(w, http.StatusUnauthorized, CodeUnauthorized, "You are not authenticated!")
				return
			}

			claims, err := tokens.Verify(token)
			switch {
			case errors.Is(err, domain.ErrTokenExpired):
				writeError(w, http.StatusUnauthorized, CodeTokenExpired, "Token has expired.")
				return
			case err != nil:
				writeError(w, http.StatusForbidden, CodeTokenInvalid, "Token is not valid!")
				return
			}

			next.ServeHTTP(w, r.WithContext(contextWithUser(r.Context(), claims.UserID)))
		})
	}
}

// OptionalUser attaches the caller when a valid token is present and lets
// every other request through anonymously.
func OptionalUser(tokens TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok || token == "" {
				next.ServeHTTP(w, r)
				return
			}
			claims, err := tokens.Verify(token)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r.WithContext(contextWithUser(r.Context(), claims.UserID)))
		})
	}
}

// mustUser returns the caller set by RequireUser.
func mustUser(w http.ResponseWriter, r *http.Request) (uint, bool) {
	id, ok := UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, CodeUnauthorized, "You are not authenticated!")
	}
	return id, ok
}
