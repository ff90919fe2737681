// Package ctxutil carries the acting reviewer through context for audit
// attribution. It has no internal dependencies to avoid import cycles.
package ctxutil

import "context"

// ActorKey is the context key for the actor ID recorded in the audit log.
type ActorKey struct{}

// WithActorID returns a context with the actor ID embedded.
func WithActorID(ctx context.Context, actorID string) context.Context {
	return context.WithValue(ctx, ActorKey{}, actorID)
}

// ActorFromContext returns the actor ID from context, or empty string if not set.
func ActorFromContext(ctx context.Context) string {
	if v := ctx.Value(ActorKey{}); v != nil {
		return v.(string)
	}
	return ""
}
