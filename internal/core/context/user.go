// Package context provides request-scoped values extraction.
package context

import (
	"context"
)

// Known roles. The store distinguishes only privileged admins and cashiers.
const (
	RoleAdmin   = "admin"
	RoleCashier = "cashier"
)

// UserContext contains authenticated user information.
type UserContext struct {
	UserID   string
	Username string
	FullName string
	Role     string
	IsAdmin  bool
}

type userContextKey struct{}

// WithUser adds UserContext to context.
func WithUser(ctx context.Context, user *UserContext) context.Context {
	return context.WithValue(ctx, userContextKey{}, user)
}

// GetUser returns UserContext from context.
func GetUser(ctx context.Context) *UserContext {
	if v, ok := ctx.Value(userContextKey{}).(*UserContext); ok {
		return v
	}
	return nil
}

// GetUserID returns user ID from context or empty string.
func GetUserID(ctx context.Context) string {
	if u := GetUser(ctx); u != nil {
		return u.UserID
	}
	return ""
}

// ActorName returns the display name used to attribute documents:
// the full name when set, otherwise the username.
func ActorName(ctx context.Context) string {
	u := GetUser(ctx)
	if u == nil {
		return ""
	}
	if u.FullName != "" {
		return u.FullName
	}
	return u.Username
}

// HasRole checks if user has specific role. Admins pass every check.
func HasRole(ctx context.Context, role string) bool {
	u := GetUser(ctx)
	if u == nil {
		return false
	}
	if u.IsAdmin {
		return true
	}
	return u.Role == role
}

// IsPrivileged reports whether the current user is an admin.
func IsPrivileged(ctx context.Context) bool {
	u := GetUser(ctx)
	return u != nil && u.IsAdmin
}
