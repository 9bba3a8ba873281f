/*
Package validator verifies bearer tokens with the lestrrat-go/jwx v2 library
and decodes them into a core.Identity.

It is the default signing/verification primitive behind the filter: the
filter itself never parses a token, it only asks a core.TokenValidator.

# Validation Steps

 1. Format pre-check: non-empty, bounded size, three dot-separated segments.
 2. The "alg" header must equal the configured algorithm.
 3. Signature verification with the key returned by the key func.
 4. Registered claims: exp is required; exp, nbf and iat are checked against
    the validator's clock; iss and aud when configured.
 5. Decode: sub (required) becomes Identity.Subject, the role claim becomes
    Identity.Role, every claim is copied into Identity.Claims.

Each failure is a *core.ValidationError whose code says which step failed.

# Expiry Convention

A token is valid only while now < exp. A token whose exp equals the current
second is expired. WithAllowedClockSkew moves that boundary by the skew.

# Basic Usage

	v, err := validator.New(
	    validator.WithSecret([]byte(secret)),
	    validator.WithAlgorithm(validator.HS256),
	)
	if err != nil {
	    log.Fatal(err)
	}

	identity, err := v.ValidateToken(ctx, tokenString)
*/
package validator
