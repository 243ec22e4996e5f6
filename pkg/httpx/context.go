package httpx

import "context"

type ctxKey string

// CtxKeyUserID carries the authenticated user's ID once identity has
// been resolved. Rate limiters and handlers read it; only the auth
// middleware writes it.
const CtxKeyUserID ctxKey = "user_id"

// WithUserID attaches the resolved user ID to the context.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, CtxKeyUserID, userID)
}

// UserIDFromContext returns the resolved user ID, or "" when the request
// is anonymous.
func UserIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(CtxKeyUserID).(string); ok {
		return v
	}
	return ""
}
