package grpc

import (
	"context"

	"github.com/codesoom/go-jwt-filter/core"
)

// CurrentIdentity returns the identity installed by the interceptor.
//
// Example:
//
//	identity, ok := jwtgrpc.CurrentIdentity(ctx)
//	if !ok {
//	    return nil, status.Error(codes.Unauthenticated, "login required")
//	}
func CurrentIdentity(ctx context.Context) (*core.Identity, bool) {
	return core.IdentityFromContext(ctx)
}

// MustCurrentIdentity returns the identity or panics.
// Use only when you are certain an identity exists, for example behind an
// authorization interceptor that already checked it.
func MustCurrentIdentity(ctx context.Context) *core.Identity {
	identity, ok := core.IdentityFromContext(ctx)
	if !ok {
		panic(core.ErrIdentityNotFound)
	}
	return identity
}

// GetClaim retrieves a single decoded claim with type safety using generics.
func GetClaim[T any](ctx context.Context, name string) (T, error) {
	return core.GetClaim[T](ctx, name)
}
