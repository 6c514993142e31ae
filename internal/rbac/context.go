package rbac

import "context"

type userContextKey struct{}

// ContextWithUser stores the authorized user in context.
func ContextWithUser(ctx context.Context, user *AuthorizedUser) context.Context {
	return context.WithValue(ctx, userContextKey{}, user)
}

// UserFromContext extracts the authorized user placed by the admin gate.
// It returns nil on requests that never passed the gate.
func UserFromContext(ctx context.Context) *AuthorizedUser {
	user, _ := ctx.Value(userContextKey{}).(*AuthorizedUser)
	return user
}
