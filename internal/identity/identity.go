// Package identity carries the authenticated user id through the request
// context. The core never performs authentication itself — an upstream
// middleware resolves the user and stashes the id here; operations that
// require a user refuse when none is present.
package identity

import (
	"context"

	"github.com/google/uuid"
)

// ctxKey is unexported so no other package can collide with our context key.
type ctxKey struct{}

// WithUserID returns a context carrying the authenticated user's id.
func WithUserID(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// UserID extracts the authenticated user id from ctx.
// The boolean is false when no user is authenticated.
func UserID(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(ctxKey{}).(uuid.UUID)
	if !ok || id == uuid.Nil {
		return uuid.Nil, false
	}
	return id, true
}

// Provider resolves the current user for an operation.
// The context-backed implementation below is the production path; tests may
// substitute a fixed provider.
type Provider interface {
	CurrentUserID(ctx context.Context) (uuid.UUID, bool)
}

// ContextProvider reads the user id placed in the context by the auth middleware.
type ContextProvider struct{}

// CurrentUserID implements Provider.
func (ContextProvider) CurrentUserID(ctx context.Context) (uuid.UUID, bool) {
	return UserID(ctx)
}

var _ Provider = ContextProvider{}
