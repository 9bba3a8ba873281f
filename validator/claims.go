package validator

import (
	"context"
	"fmt"

	"github.com/lestrrat-go/jwx/v2/jwt"

	"github.com/codesoom/go-jwt-filter/core"
)

// identityFromToken decodes a validated token into a core.Identity.
// The subject is required; the role claim, when present, must be a string.
func (v *Validator) identityFromToken(ctx context.Context, token jwt.Token) (*core.Identity, error) {
	if token.Subject() == "" {
		return nil, core.NewValidationError(core.ErrorCodeInvalidClaims, "token has no subject", nil)
	}

	claims, err := token.AsMap(ctx)
	if err != nil {
		return nil, core.NewValidationError(core.ErrorCodeTokenMalformed, "could not decode token claims", err)
	}

	identity := &core.Identity{
		Subject:   token.Subject(),
		IssuedAt:  token.IssuedAt(),
		ExpiresAt: token.Expiration(),
		Claims:    claims,
	}

	if raw, ok := token.Get(v.roleClaim); ok {
		role, ok := raw.(string)
		if !ok {
			return nil, core.NewValidationError(
				core.ErrorCodeClaimTypeInvalid,
				fmt.Sprintf("claim %q has type %T", v.roleClaim, raw),
				nil,
			)
		}
		identity.Role = role
	}

	return identity, nil
}
