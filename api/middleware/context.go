package middleware

import (
	"context"

	"github.com/kai890707/my-profile-sub000/internal/moderation"
)

type contextKey string

const ctxActor contextKey = "actor"

// WithActor injects the authenticated caller into the context.
func WithActor(ctx context.Context, actor moderation.Actor) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxActor, actor)
}

// ActorFromContext returns the caller, or the zero Actor for anonymous requests.
func ActorFromContext(ctx context.Context) moderation.Actor {
	if ctx == nil {
		return moderation.Actor{}
	}
	if v, ok := ctx.Value(ctxActor).(moderation.Actor); ok {
		return v
	}
	return moderation.Actor{}
}
