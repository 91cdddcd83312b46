package auth

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// contextKey is an unexported type to prevent key collisions in context.
type contextKey string

const actorKey contextKey = "actor"

// ErrActorNotFound is returned when no Actor exists in the request context.
// Handlers should return 401 when this error occurs.
var ErrActorNotFound = errors.New("actor not found in context")

// Actor is the authenticated user attached to a request.
// Role is carried as a plain string here; services parse it into their
// own role type where stricter checks apply.
type Actor struct {
	ID       uuid.UUID
	Username string
	Role     string
	Room     int // surgery room number; zero for non-surgery roles
}

// ActorFromCtx extracts the authenticated actor from the request context.
// Returns ErrActorNotFound if no actor is set (unauthenticated request).
func ActorFromCtx(ctx context.Context) (Actor, error) {
	actor, ok := ctx.Value(actorKey).(Actor)
	if !ok || actor.ID == uuid.Nil {
		return Actor{}, ErrActorNotFound
	}
	return actor, nil
}

// WithActor returns a new context with the given actor attached.
// Used by authentication middleware after validating the session.
func WithActor(ctx context.Context, actor Actor) context.Context {
	return context.WithValue(ctx, actorKey, actor)
}
