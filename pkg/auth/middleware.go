package auth

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"

	"github.com/ghuser/steritrack/pkg/httpx"
	"github.com/ghuser/steritrack/pkg/logger"
)

const sessionName = "steritrack_session"

const (
	sessionUserIDKey   = "user_id"
	sessionUsernameKey = "username"
	sessionRoleKey     = "role"
	sessionRoomKey     = "room"
)

// RequireAuth is a chi middleware that enforces authentication via session cookies.
// It reads the session cookie, extracts the actor, and injects it into the request context.
// Returns 401 Unauthorized if the session is missing, invalid, or lacks a valid user.
//
// After this middleware, handlers can safely call auth.ActorFromCtx(r.Context()).
func RequireAuth(store sessions.Store, log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session, err := store.Get(r, sessionName)
			if err != nil {
				log.WarnContext(r.Context(), "invalid session cookie", "error", err)
				httpx.JSON(w, http.StatusUnauthorized, map[string]string{"error": "authentication required"})
				return
			}

			userIDStr, ok := session.Values[sessionUserIDKey].(string)
			if !ok || userIDStr == "" {
				log.WarnContext(r.Context(), "session missing user_id")
				httpx.JSON(w, http.StatusUnauthorized, map[string]string{"error": "authentication required"})
				return
			}

			userID, err := uuid.Parse(userIDStr)
			if err != nil {
				log.WarnContext(r.Context(), "invalid user_id in session", "user_id", userIDStr, "error", err)
				httpx.JSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid session data"})
				return
			}

			username, _ := session.Values[sessionUsernameKey].(string)
			role, _ := session.Values[sessionRoleKey].(string)
			room, _ := session.Values[sessionRoomKey].(int)

			ctx := WithActor(r.Context(), Actor{
				ID:       userID,
				Username: username,
				Role:     role,
				Room:     room,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
