package auth

import (
	"context"
	"net/http"
	"time"

	"github.com/NoteHub-io/notehub/internal/apierr"
	"github.com/NoteHub-io/notehub/internal/store"
)

type contextKey string

const userIDContextKey contextKey = "userID"

// Middleware authenticates requests from the session cookies: it loads the
// session named by the sessionId cookie, exact-matches the access token, and
// rejects access tokens past their validity window. The refresh window is
// deliberately not consulted here; an expired access token must go through
// POST /auth/refresh.
func Middleware(s *store.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sessionCookie, err := r.Cookie(SessionIDCookie)
			if err != nil {
				apierr.Write(w, apierr.Unauthorized("Not authenticated"))
				return
			}
			accessCookie, err := r.Cookie(AccessTokenCookie)
			if err != nil {
				apierr.Write(w, apierr.Unauthorized("Not authenticated"))
				return
			}

			session, err := s.GetSessionByID(sessionCookie.Value)
			if err != nil || session.AccessToken != accessCookie.Value {
				apierr.Write(w, apierr.Unauthorized("Not authenticated"))
				return
			}
			if time.Now().After(session.AccessTokenValidUntil) {
				apierr.Write(w, apierr.Unauthorized("Access token expired"))
				return
			}

			ctx := context.WithValue(r.Context(), userIDContextKey, session.UserID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserIDFromContext retrieves the authenticated user's id from the context.
func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDContextKey).(string)
	return id, ok
}
