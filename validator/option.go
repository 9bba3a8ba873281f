package validator

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Option is how options for the Validator are set up.
// Options return errors to enable validation during construction.
type Option func(*Validator) error

// Configuration errors.
var (
	ErrKeyFuncRequired      = errors.New("keyFunc is required (use WithKeyFunc or WithSecret)")
	ErrSignatureAlgRequired = errors.New("signature algorithm is required (use WithAlgorithm)")
	ErrUnsupportedAlgorithm = errors.New("unsupported signature algorithm")
)

// WithKeyFunc sets the function that provides the key for token verification.
//
// The keyFunc is called during token validation to retrieve the key used to
// verify the token signature: a []byte secret for HS* algorithms, a public
// key (or jwk.Key) for the asymmetric ones.
func WithKeyFunc(keyFunc func(context.Context) (any, error)) Option {
	return func(v *Validator) error {
		if keyFunc == nil {
			return ErrKeyFuncRequired
		}
		v.keyFunc = keyFunc
		return nil
	}
}

// WithSecret configures a static, process-wide HMAC secret.
func WithSecret(secret []byte) Option {
	return func(v *Validator) error {
		if len(secret) == 0 {
			return errors.New("secret cannot be empty")
		}
		key := append([]byte(nil), secret...)
		v.keyFunc = func(context.Context) (any, error) {
			return key, nil
		}
		return nil
	}
}

// WithAlgorithm sets the signature algorithm that tokens must use.
// This is a required option. Tokens whose "alg" header differs are rejected
// before the key is consulted.
func WithAlgorithm(algorithm SignatureAlgorithm) Option {
	return func(v *Validator) error {
		if algorithm == "" {
			return ErrSignatureAlgRequired
		}
		if _, ok := allowedSigningAlgorithms[algorithm]; !ok {
			return fmt.Errorf("%w: %s", ErrUnsupportedAlgorithm, algorithm)
		}
		v.signatureAlgorithm = algorithm
		return nil
	}
}

// WithIssuer sets the expected issuer claim (iss).
func WithIssuer(issuer string) Option {
	return func(v *Validator) error {
		if issuer == "" {
			return errors.New("issuer cannot be empty")
		}
		v.issuer = issuer
		return nil
	}
}

// WithAudience sets the expected audience claim (aud).
func WithAudience(audience string) Option {
	return func(v *Validator) error {
		if audience == "" {
			return errors.New("audience cannot be empty")
		}
		v.audience = audience
		return nil
	}
}

// WithAllowedClockSkew sets the allowed clock skew for exp, nbf and iat.
//
// The default is 0: with no skew a token stops being valid at the exact
// second of its expiry.
func WithAllowedClockSkew(skew time.Duration) Option {
	return func(v *Validator) error {
		if skew < 0 {
			return errors.New("clock skew cannot be negative")
		}
		v.allowedClockSkew = skew
		return nil
	}
}

// WithRoleClaim changes the claim decoded into core.Identity.Role.
//
// Default: "role"
func WithRoleClaim(name string) Option {
	return func(v *Validator) error {
		if name == "" {
			return errors.New("role claim cannot be empty")
		}
		v.roleClaim = name
		return nil
	}
}

// WithClock replaces the time source used for exp, nbf and iat checks.
// It must be the same clock the issuer uses; tests use it to pin "now".
func WithClock(now func() time.Time) Option {
	return func(v *Validator) error {
		if now == nil {
			return errors.New("clock cannot be nil")
		}
		v.clock = now
		return nil
	}
}
