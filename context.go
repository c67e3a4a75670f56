package accesskit

import (
	"context"
)

// Context keys for AccessKit values.
type contextKey string

const (
	contextKeyUserID   contextKey = "accesskit:user_id"
	contextKeyAuthorID contextKey = "accesskit:author_id"
	contextKeyLanguage contextKey = "accesskit:language"
	contextKeyChecker  contextKey = "accesskit:checker"
)

// WithUserID adds a user ID to the context.
// This is the user being checked for roles and permissions.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, contextKeyUserID, userID)
}

// GetUserID retrieves the user ID from context.
// Returns empty string if not set.
func GetUserID(ctx context.Context) string {
	if v := ctx.Value(contextKeyUserID); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// MustGetUserID retrieves the user ID from context.
// Panics if not set.
func MustGetUserID(ctx context.Context) string {
	userID := GetUserID(ctx)
	if userID == "" {
		panic("accesskit: user ID not in context")
	}
	return userID
}

// WithAuthorID adds an author ID to the context.
// This is the user writing localized attributes, recorded on each new
// attribute row. Often the same as user ID, but can be different when an
// administrator edits on someone's behalf.
func WithAuthorID(ctx context.Context, authorID string) context.Context {
	return context.WithValue(ctx, contextKeyAuthorID, authorID)
}

// GetAuthorID retrieves the author ID from context.
// Falls back to user ID if author ID is not explicitly set.
func GetAuthorID(ctx context.Context) string {
	if v := ctx.Value(contextKeyAuthorID); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	// Fallback to user ID
	return GetUserID(ctx)
}

// WithLanguage adds a display language code to the context.
func WithLanguage(ctx context.Context, code string) context.Context {
	return context.WithValue(ctx, contextKeyLanguage, code)
}

// GetLanguage retrieves the display language from context.
// Returns DefaultLanguage if not set.
func GetLanguage(ctx context.Context) string {
	if v := ctx.Value(contextKeyLanguage); v != nil {
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	return DefaultLanguage
}

// WithChecker adds a Checker to the context.
// This is set by middleware and can be retrieved in handlers.
func WithChecker(ctx context.Context, checker *Checker) context.Context {
	return context.WithValue(ctx, contextKeyChecker, checker)
}

// GetChecker retrieves the Checker from context.
// Returns nil if not set.
func GetChecker(ctx context.Context) *Checker {
	if v := ctx.Value(contextKeyChecker); v != nil {
		if c, ok := v.(*Checker); ok {
			return c
		}
	}
	return nil
}

// FromContext retrieves the Checker from context.
// Alias for GetChecker for convenience.
func FromContext(ctx context.Context) *Checker {
	return GetChecker(ctx)
}
