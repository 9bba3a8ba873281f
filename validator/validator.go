package validator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jws"
	"github.com/lestrrat-go/jwx/v2/jwt"

	"github.com/codesoom/go-jwt-filter/core"
)

// Signature algorithms
const (
	EdDSA = SignatureAlgorithm("EdDSA")
	HS256 = SignatureAlgorithm("HS256") // HMAC using SHA-256
	HS384 = SignatureAlgorithm("HS384") // HMAC using SHA-384
	HS512 = SignatureAlgorithm("HS512") // HMAC using SHA-512
	RS256 = SignatureAlgorithm("RS256") // RSASSA-PKCS-v1.5 using SHA-256
	RS384 = SignatureAlgorithm("RS384") // RSASSA-PKCS-v1.5 using SHA-384
	RS512 = SignatureAlgorithm("RS512") // RSASSA-PKCS-v1.5 using SHA-512
	ES256 = SignatureAlgorithm("ES256") // ECDSA using P-256 and SHA-256
	ES384 = SignatureAlgorithm("ES384") // ECDSA using P-384 and SHA-384
	ES512 = SignatureAlgorithm("ES512") // ECDSA using P-521 and SHA-512
	PS256 = SignatureAlgorithm("PS256") // RSASSA-PSS using SHA256 and MGF1-SHA256
	PS384 = SignatureAlgorithm("PS384") // RSASSA-PSS using SHA384 and MGF1-SHA384
	PS512 = SignatureAlgorithm("PS512") // RSASSA-PSS using SHA512 and MGF1-SHA512
)

// DefaultRoleClaim is the claim decoded into core.Identity.Role.
const DefaultRoleClaim = "role"

// SignatureAlgorithm is a signature algorithm.
type SignatureAlgorithm string

var allowedSigningAlgorithms = map[SignatureAlgorithm]bool{
	EdDSA: true,
	HS256: true,
	HS384: true,
	HS512: true,
	RS256: true,
	RS384: true,
	RS512: true,
	ES256: true,
	ES384: true,
	ES512: true,
	PS256: true,
	PS384: true,
	PS512: true,
}

// Validator verifies compact JWS tokens with lestrrat-go/jwx and decodes
// them into a core.Identity. It implements core.TokenValidator.
//
// A token is valid only while now < exp: a token whose expiry equals the
// current second is already expired.
type Validator struct {
	keyFunc            func(context.Context) (any, error) // Required.
	signatureAlgorithm SignatureAlgorithm                 // Required.
	issuer             string                             // Optional.
	audience           string                             // Optional.
	allowedClockSkew   time.Duration                      // Optional.
	roleClaim          string
	clock              func() time.Time
}

// New sets up a new Validator. WithKeyFunc (or WithSecret) and WithAlgorithm
// are required.
//
// Example:
//
//	v, err := validator.New(
//	    validator.WithSecret([]byte(os.Getenv("JWT_SECRET"))),
//	    validator.WithAlgorithm(validator.HS256),
//	)
func New(opts ...Option) (*Validator, error) {
	v := &Validator{
		roleClaim: DefaultRoleClaim,
		clock:     time.Now,
	}

	for _, opt := range opts {
		if err := opt(v); err != nil {
			return nil, fmt.Errorf("invalid option: %w", err)
		}
	}

	if v.keyFunc == nil {
		return nil, ErrKeyFuncRequired
	}
	if v.signatureAlgorithm == "" {
		return nil, ErrSignatureAlgRequired
	}

	return v, nil
}

// ValidateToken verifies the token's signature, checks its registered claims
// and decodes it into an identity. Every failure is a *core.ValidationError.
func (v *Validator) ValidateToken(ctx context.Context, tokenString string) (*core.Identity, error) {
	if err := validateTokenFormat(tokenString); err != nil {
		return nil, core.NewValidationError(core.ErrorCodeTokenMalformed, "token format is invalid", err)
	}

	msg, err := jws.Parse([]byte(tokenString))
	if err != nil {
		return nil, core.NewValidationError(core.ErrorCodeTokenMalformed, "could not parse the token", err)
	}

	if err = v.validateSigningMethod(msg); err != nil {
		return nil, err
	}

	key, err := v.keyFunc(ctx)
	if err != nil {
		return nil, fmt.Errorf("error getting the keys from the key func: %w", err)
	}

	alg := jwa.SignatureAlgorithm(v.signatureAlgorithm)
	if _, err = jws.Verify([]byte(tokenString), jws.WithKey(alg, key)); err != nil {
		return nil, core.NewValidationError(core.ErrorCodeInvalidSignature, "token signature verification failed", err)
	}

	token, err := jwt.ParseInsecure([]byte(tokenString))
	if err != nil {
		return nil, core.NewValidationError(core.ErrorCodeTokenMalformed, "could not decode token claims", err)
	}

	if err = jwt.Validate(token, v.validateOptions()...); err != nil {
		return nil, classifyValidationError(err)
	}

	return v.identityFromToken(ctx, token)
}

func (v *Validator) validateSigningMethod(msg *jws.Message) error {
	signatures := msg.Signatures()
	if len(signatures) != 1 {
		return core.NewValidationError(
			core.ErrorCodeTokenMalformed,
			fmt.Sprintf("expected exactly one signature, got %d", len(signatures)),
			nil,
		)
	}

	tokenAlg := signatures[0].ProtectedHeaders().Algorithm()
	if string(tokenAlg) != string(v.signatureAlgorithm) {
		return core.NewValidationError(
			core.ErrorCodeInvalidAlgorithm,
			fmt.Sprintf("expected %q signing algorithm but token specified %q", v.signatureAlgorithm, tokenAlg),
			nil,
		)
	}
	return nil
}

func (v *Validator) validateOptions() []jwt.ValidateOption {
	opts := []jwt.ValidateOption{
		jwt.WithClock(jwt.ClockFunc(v.clock)),
		jwt.WithAcceptableSkew(v.allowedClockSkew),
		jwt.WithRequiredClaim(jwt.ExpirationKey),
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}
	if v.audience != "" {
		opts = append(opts, jwt.WithAudience(v.audience))
	}
	return opts
}

func classifyValidationError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired()):
		return core.NewValidationError(core.ErrorCodeTokenExpired, "token is expired", err)
	case errors.Is(err, jwt.ErrTokenNotYetValid()):
		return core.NewValidationError(core.ErrorCodeTokenNotYetValid, "token is not valid yet", err)
	default:
		return core.NewValidationError(core.ErrorCodeInvalidClaims, "expected claims not validated", err)
	}
}
