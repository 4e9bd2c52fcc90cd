package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/camden-git/mediashare/logging"
)

// ContextKey is a custom type for context keys to avoid collisions.
type ContextKey string

const (
	// RequesterContextKey holds the authenticated user id; absent for anonymous requests.
	RequesterContextKey ContextKey = "requester_id"
)

// TokenParser resolves a bearer token to a user id.
type TokenParser interface {
	Parse(token string) (uint, error)
}

// SessionMiddleware resolves an optional Bearer token. Requests without an
// Authorization header continue anonymously; a header that is present but malformed
// or invalid is rejected with 401.
func SessionMiddleware(tokens TokenParser) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				next.ServeHTTP(w, r)
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
				WriteAPIError(w, http.StatusUnauthorized, "not_authenticated", "Authorization header format must be Bearer {token}")
				return
			}

			userID, err := tokens.Parse(strings.TrimSpace(parts[1]))
			if err != nil {
				writeServiceError(w, r, err)
				return
			}

			ctx := context.WithValue(r.Context(), RequesterContextKey, userID)
			l := logging.Ctx(ctx).With().Uint("requester_id", userID).Logger()
			ctx = logging.ContextWithLogger(ctx, l)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireSession rejects anonymous requests before they reach the handler.
func RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if requesterID(r) == 0 {
			WriteAPIError(w, http.StatusUnauthorized, "not_authenticated", "authentication required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// requesterID returns the session's user id, or 0 for an anonymous request.
func requesterID(r *http.Request) uint {
	id, _ := r.Context().Value(RequesterContextKey).(uint)
	return id
}
