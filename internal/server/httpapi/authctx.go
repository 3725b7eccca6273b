package httpapi

import (
	"context"

	"github.com/avolkhin/noteboard/internal/model"
)

type ctxKey string

const userKey ctxKey = "nb.user"

// WithUser stores the authenticated user record in the context.
func WithUser(ctx context.Context, u *model.User) context.Context {
	return context.WithValue(ctx, userKey, u)
}

// UserFromCtx fetches the authenticated user from the context.
func UserFromCtx(ctx context.Context) (*model.User, bool) {
	u, ok := ctx.Value(userKey).(*model.User)
	return u, ok && u != nil
}
