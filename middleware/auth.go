package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"foodie-app/session"
	"foodie-app/utils"
)

// Key type for context
type contextKey string

const UserContextKey = contextKey("user")

// Auth returns middleware that verifies the bearer JWT and checks the Redis
// session entry. The session carries a sliding 30-minute expiry, so a valid
// token with no live session means the session expired; the client must
// re-authenticate.
func Auth(sessions *session.Store) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				http.Error(w, "Authorization header missing", http.StatusUnauthorized)
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				http.Error(w, "Invalid Authorization header format", http.StatusUnauthorized)
				return
			}

			claims, err := utils.ParseJWT(parts[1])
			if err != nil {
				http.Error(w, "Invalid token", http.StatusUnauthorized)
				return
			}

			stored, err := sessions.Token(r.Context(), claims.UserID)
			if err != nil || stored != parts[1] {
				http.Error(w, "Session expired, please sign in again", http.StatusUnauthorized)
				return
			}

			// Attach user information to the request context
			ctx := context.WithValue(r.Context(), UserContextKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
