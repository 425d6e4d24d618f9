package rest

import "context"

type contextKey string

const (
	sessionContextKey  contextKey = "session_id"
	identityContextKey contextKey = "identity"
)

// WithSessionID stores the validated session id in ctx.
func WithSessionID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, sessionContextKey, id)
}

// SessionIDFromContext returns the validated session id, or "".
func SessionIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(sessionContextKey).(string)
	return id
}

// WithIdentity stores the encrypted owner identity in ctx.
func WithIdentity(ctx context.Context, identity string) context.Context {
	return context.WithValue(ctx, identityContextKey, identity)
}

// IdentityFromContext returns the encrypted owner identity, or "".
func IdentityFromContext(ctx context.Context) string {
	v, _ := ctx.Value(identityContextKey).(string)
	return v
}
