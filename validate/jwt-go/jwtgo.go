// Package jwtgo is a core.TokenValidator backed by github.com/golang-jwt/jwt/v5.
//
// It follows the same rules as the default jwx validator: the algorithm is
// pinned, exp is required, and a token is valid only while now < exp.
package jwtgo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"

	"github.com/codesoom/go-jwt-filter/core"
)

// DefaultRoleClaim is the claim decoded into core.Identity.Role.
const DefaultRoleClaim = "role"

// maxTokenSize matches the jwx validator's bound on untrusted input.
const maxTokenSize = 64 * 1024

// Option is how options for the validator are setup.
type Option func(*Validator)

// WithTimeFunc sets the clock used for exp, nbf and iat checks.
func WithTimeFunc(now func() time.Time) Option {
	return func(v *Validator) {
		v.parserOptions = append(v.parserOptions, jwt.WithTimeFunc(now))
	}
}

// WithLeeway allows for some clock skew on the time based claims.
func WithLeeway(leeway time.Duration) Option {
	return func(v *Validator) {
		v.parserOptions = append(v.parserOptions, jwt.WithLeeway(leeway))
	}
}

// WithIssuer requires the iss claim to match.
func WithIssuer(issuer string) Option {
	return func(v *Validator) {
		v.parserOptions = append(v.parserOptions, jwt.WithIssuer(issuer))
	}
}

// WithAudience requires the aud claim to contain audience.
func WithAudience(audience string) Option {
	return func(v *Validator) {
		v.parserOptions = append(v.parserOptions, jwt.WithAudience(audience))
	}
}

// WithRoleClaim changes the claim decoded into core.Identity.Role.
func WithRoleClaim(name string) Option {
	return func(v *Validator) {
		v.roleClaim = name
	}
}

// SecretKeyFunc returns a jwt.Keyfunc that always yields the given HMAC secret.
func SecretKeyFunc(secret []byte) jwt.Keyfunc {
	key := append([]byte(nil), secret...)
	return func(*jwt.Token) (any, error) {
		return key, nil
	}
}

// Validator validates tokens with golang-jwt. It implements core.TokenValidator.
type Validator struct {
	// required options
	keyFunc            jwt.Keyfunc
	signatureAlgorithm string

	// optional options
	roleClaim     string
	parserOptions []jwt.ParserOption
}

// New sets up a new Validator with the required keyFunc and
// signatureAlgorithm as well as options.
func New(keyFunc jwt.Keyfunc, signatureAlgorithm string, opts ...Option) (*Validator, error) {
	if keyFunc == nil {
		return nil, errors.New("keyFunc is required but was nil")
	}
	if signatureAlgorithm == "" {
		return nil, errors.New("signatureAlgorithm is required but was empty")
	}
	if jwt.GetSigningMethod(signatureAlgorithm) == nil {
		return nil, errors.Errorf("unsupported signature algorithm %q", signatureAlgorithm)
	}

	v := &Validator{
		keyFunc:            keyFunc,
		signatureAlgorithm: signatureAlgorithm,
		roleClaim:          DefaultRoleClaim,
	}

	for _, opt := range opts {
		opt(v)
	}

	return v, nil
}

// ValidateToken validates the passed in JWT using the golang-jwt package.
func (v *Validator) ValidateToken(_ context.Context, tokenString string) (*core.Identity, error) {
	if err := checkFormat(tokenString); err != nil {
		return nil, core.NewValidationError(core.ErrorCodeTokenMalformed, "token format is invalid", err)
	}

	parserOptions := append([]jwt.ParserOption{
		jwt.WithValidMethods([]string{v.signatureAlgorithm}),
		jwt.WithExpirationRequired(),
	}, v.parserOptions...)

	claims := jwt.MapClaims{}
	if _, err := jwt.NewParser(parserOptions...).ParseWithClaims(tokenString, claims, v.keyFunc); err != nil {
		return nil, classify(errors.Wrap(err, "could not parse the token"))
	}

	return v.identity(claims)
}

func checkFormat(tokenString string) error {
	switch {
	case len(tokenString) > maxTokenSize:
		return errors.Errorf("token exceeds maximum size of %d bytes", maxTokenSize)
	case strings.Count(tokenString, ".") != 2:
		return errors.New("token must have exactly three segments")
	}
	return nil
}

func (v *Validator) identity(claims jwt.MapClaims) (*core.Identity, error) {
	subject, err := claims.GetSubject()
	if err != nil {
		return nil, core.NewValidationError(core.ErrorCodeTokenMalformed, "could not decode subject", err)
	}
	if subject == "" {
		return nil, core.NewValidationError(core.ErrorCodeInvalidClaims, "token has no subject", nil)
	}

	identity := &core.Identity{
		Subject: subject,
		Claims:  map[string]any(claims),
	}

	if iat, err := claims.GetIssuedAt(); err == nil && iat != nil {
		identity.IssuedAt = iat.Time
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		identity.ExpiresAt = exp.Time
	}

	if raw, ok := claims[v.roleClaim]; ok {
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

// classify maps golang-jwt's error kinds onto the core error codes.
func classify(err error) error {
	// A failing key func says nothing about the token itself.
	if errors.Is(err, jwt.ErrTokenUnverifiable) {
		return err
	}

	code := core.ErrorCodeInvalidClaims
	switch {
	case errors.Is(err, jwt.ErrTokenMalformed):
		code = core.ErrorCodeTokenMalformed
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		code = core.ErrorCodeInvalidSignature
	case errors.Is(err, jwt.ErrTokenExpired):
		code = core.ErrorCodeTokenExpired
	case errors.Is(err, jwt.ErrTokenNotValidYet):
		code = core.ErrorCodeTokenNotYetValid
	}
	return core.NewValidationError(code, "token rejected", err)
}
