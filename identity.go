package jwtfilter

import (
	"context"

	"github.com/codesoom/go-jwt-filter/core"
)

// CurrentIdentity returns the identity the filter installed for this request.
// The boolean is false for unauthenticated requests.
//
// Example:
//
//	identity, ok := jwtfilter.CurrentIdentity(r.Context())
//	if !ok {
//	    http.Error(w, "Unauthorized", http.StatusUnauthorized)
//	    return
//	}
//	fmt.Fprintf(w, "hello %s", identity.Subject)
func CurrentIdentity(ctx context.Context) (*core.Identity, bool) {
	return core.IdentityFromContext(ctx)
}

// IsAuthenticated reports whether an identity is installed in ctx.
func IsAuthenticated(ctx context.Context) bool {
	return core.IsAuthenticated(ctx)
}

// GetClaim retrieves a single decoded claim with type safety using generics.
//
// Example:
//
//	tenant, err := jwtfilter.GetClaim[string](r.Context(), "tenant")
func GetClaim[T any](ctx context.Context, name string) (T, error) {
	return core.GetClaim[T](ctx, name)
}
