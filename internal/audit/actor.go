package audit

import "context"

type actorKey struct{}

// WithActor records who is acting for entries written under ctx.
func WithActor(ctx context.Context, uid string) context.Context {
	return context.WithValue(ctx, actorKey{}, uid)
}

func ActorFrom(ctx context.Context) string {
	if uid, ok := ctx.Value(actorKey{}).(string); ok {
		return uid
	}
	return ""
}
