package core

import (
	"context"
	"fmt"
)

// contextKey is an unexported type for context keys to prevent collisions.
type contextKey int

const (
	identityKey contextKey = iota
)

// SetIdentity returns a copy of ctx carrying the identity. A nil identity
// leaves ctx untouched. Setting an identity on a context that already carries
// one overwrites it for the derived context.
func SetIdentity(ctx context.Context, identity *Identity) context.Context {
	if identity == nil {
		return ctx
	}
	return context.WithValue(ctx, identityKey, identity)
}

// IdentityFromContext answers "who is the current caller". The boolean is
// false when the request is unauthenticated.
func IdentityFromContext(ctx context.Context) (*Identity, bool) {
	identity, ok := ctx.Value(identityKey).(*Identity)
	if !ok || identity == nil {
		return nil, false
	}
	return identity, true
}

// IsAuthenticated reports whether an identity was installed into ctx.
func IsAuthenticated(ctx context.Context) bool {
	_, ok := IdentityFromContext(ctx)
	return ok
}

// GetClaim retrieves a single claim of the current identity with type safety.
//
// Example:
//
//	email, err := core.GetClaim[string](ctx, "email")
//	if err != nil {
//	    return err
//	}
func GetClaim[T any](ctx context.Context, name string) (T, error) {
	var zero T

	identity, ok := IdentityFromContext(ctx)
	if !ok {
		return zero, ErrIdentityNotFound
	}

	raw, ok := identity.Claim(name)
	if !ok {
		return zero, fmt.Errorf("%w: %s", ErrClaimNotFound, name)
	}

	value, ok := raw.(T)
	if !ok {
		return zero, NewValidationError(
			ErrorCodeClaimTypeInvalid,
			fmt.Sprintf("claim %q has type %T", name, raw),
			nil,
		)
	}

	return value, nil
}
