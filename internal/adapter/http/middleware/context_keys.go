package middleware

import (
	"context"

	"github.com/CkBu3u/DiplomFinal/internal/listing/domain"
)

// ContextKey is the type of request context keys set by this package.
type ContextKey string

const (
	UserIDCtxKey   = ContextKey("user_id")
	UserRoleCtxKey = ContextKey("user_role")
)

// ViewerFromContext returns the authenticated viewer, or the anonymous viewer
// when the request carried no valid token.
func ViewerFromContext(ctx context.Context) domain.Viewer {
	id, _ := ctx.Value(UserIDCtxKey).(string)
	return domain.Viewer{ID: id}
}

func withViewer(ctx context.Context, userID, role string) context.Context {
	ctx = context.WithValue(ctx, UserIDCtxKey, userID)
	if role != "" {
		ctx = context.WithValue(ctx, UserRoleCtxKey, role)
	}
	return ctx
}
