package auth

import "context"

type userContextKey struct{}

type scopeContextKey struct{}

// ContextWithUser stores the authenticated user in the context. The stored
// value is the request-scoped resolution; it never outlives the request.
func ContextWithUser(ctx context.Context, user *User) context.Context {
	return context.WithValue(ctx, userContextKey{}, user)
}

// UserFromContext extracts the authenticated user from the context.
func UserFromContext(ctx context.Context) *User {
	user, _ := ctx.Value(userContextKey{}).(*User)
	return user
}

// ContextWithScope stores the scoped target user in the context.
func ContextWithScope(ctx context.Context, user *User) context.Context {
	return context.WithValue(ctx, scopeContextKey{}, user)
}

// ScopeFromContext extracts the scoped target user from the context.
func ScopeFromContext(ctx context.Context) *User {
	user, _ := ctx.Value(scopeContextKey{}).(*User)
	return user
}
