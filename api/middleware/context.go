package middleware

import (
	"context"

	"github.com/goupromo/goupromo-backend/internal/users"
)

type contextKey string

const ctxCurrentUser contextKey = "current_user"

// CurrentUserFromContext returns the user resolved by Auth, or nil.
func CurrentUserFromContext(ctx context.Context) *users.UserDTO {
	if ctx == nil {
		return nil
	}
	if v, ok := ctx.Value(ctxCurrentUser).(*users.UserDTO); ok {
		return v
	}
	return nil
}

func UserIDFromContext(ctx context.Context) string {
	if user := CurrentUserFromContext(ctx); user != nil {
		return user.ID.String()
	}
	return ""
}

func UsernameFromContext(ctx context.Context) string {
	if user := CurrentUserFromContext(ctx); user != nil {
		return user.Username
	}
	return ""
}

// WithCurrentUser injects the authenticated user into the context.
func WithCurrentUser(ctx context.Context, user *users.UserDTO) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxCurrentUser, user)
}
