// ABOUTME: Authentication context for tracking identity through request handlers
// ABOUTME: Provides WithSession/FromContext for propagating session info via context

package auth

import (
	"context"
)

// authContextKey is the key type for storing SessionClaims in context.Context.
type authContextKey struct{}

// WithSession returns a new context with the session claims attached.
func WithSession(ctx context.Context, claims *SessionClaims) context.Context {
	return context.WithValue(ctx, authContextKey{}, claims)
}

// FromContext retrieves the session claims from the context, returning nil
// if the request was not authenticated.
func FromContext(ctx context.Context) *SessionClaims {
	val := ctx.Value(authContextKey{})
	if val == nil {
		return nil
	}
	claims, ok := val.(*SessionClaims)
	if !ok {
		return nil
	}
	return claims
}

// MustFromContext retrieves the session claims from the context, panicking
// if not present. Only call behind the auth middleware.
func MustFromContext(ctx context.Context) *SessionClaims {
	claims := FromContext(ctx)
	if claims == nil {
		panic("auth: session claims not found in context")
	}
	return claims
}
