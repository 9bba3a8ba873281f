package core

import (
	"context"
	"errors"
)

// Sentinel errors describing why a request ended up unauthenticated.
// They are used for logging and metrics only: the resolver collapses all of
// them into "no identity" and never returns them to the transport.
var (
	// ErrHeaderAbsent means the request carried no credential header.
	ErrHeaderAbsent = errors.New("authorization header absent")

	// ErrSchemeMismatch means the header did not start with the bearer scheme.
	ErrSchemeMismatch = errors.New("authorization scheme mismatch")

	// ErrTokenInvalid is matched by every ValidationError.
	ErrTokenInvalid = errors.New("token invalid")

	// ErrSignatureInvalid means the signature did not verify against the trusted key.
	ErrSignatureInvalid = errors.New("token signature invalid")

	// ErrTokenExpired means the current time is not before the token's expiry.
	ErrTokenExpired = errors.New("token expired")

	// ErrPayloadMalformed means the token or its claims could not be decoded.
	ErrPayloadMalformed = errors.New("token payload malformed")

	// ErrIdentityNotFound is returned by context queries on unauthenticated requests.
	ErrIdentityNotFound = errors.New("identity not found in context")

	// ErrClaimNotFound is returned by GetClaim when the claim is absent.
	ErrClaimNotFound = errors.New("claim not found")
)

// Error codes carried by ValidationError.
const (
	ErrorCodeTokenMalformed   = "token_malformed"
	ErrorCodeTokenExpired     = "token_expired"
	ErrorCodeTokenNotYetValid = "token_not_yet_valid"
	ErrorCodeInvalidSignature = "invalid_signature"
	ErrorCodeInvalidAlgorithm = "invalid_algorithm"
	ErrorCodeInvalidClaims    = "invalid_claims"
	ErrorCodeClaimTypeInvalid = "claim_type_invalid"
)

// ValidationError wraps a token validation failure with a machine-readable
// code. Validators return it so the resolver can label the failure.
type ValidationError struct {
	// Code is a machine-readable error code (e.g. "token_expired").
	Code string

	// Message is a human-readable error message.
	Message string

	// Details contains the underlying library error.
	Details error
}

// NewValidationError creates a new ValidationError with the given code and message.
func NewValidationError(code, message string, details error) *ValidationError {
	return &ValidationError{
		Code:    code,
		Message: message,
		Details: details,
	}
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Details != nil {
		return e.Message + ": " + e.Details.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error for error unwrapping.
func (e *ValidationError) Unwrap() error {
	return e.Details
}

// Is matches ErrTokenInvalid and the sentinel belonging to the error's code.
func (e *ValidationError) Is(target error) bool {
	if target == ErrTokenInvalid {
		return true
	}
	switch e.Code {
	case ErrorCodeTokenExpired:
		return target == ErrTokenExpired
	case ErrorCodeInvalidSignature, ErrorCodeInvalidAlgorithm:
		return target == ErrSignatureInvalid
	case ErrorCodeTokenMalformed, ErrorCodeInvalidClaims, ErrorCodeClaimTypeInvalid:
		return target == ErrPayloadMalformed
	}
	return false
}

// Outcome labels the result of one resolution for logs, metrics and traces.
type Outcome string

const (
	OutcomeAuthenticated Outcome = "authenticated"
	OutcomeAbsent        Outcome = "absent"
	OutcomeSkipped       Outcome = "skipped"
	OutcomeCanceled      Outcome = "canceled"
	OutcomeInternal      Outcome = "internal"
	OutcomeInvalid       Outcome = "token_invalid"
)

// OutcomeOf maps a validation error to its outcome label.
func OutcomeOf(err error) Outcome {
	if err == nil {
		return OutcomeAuthenticated
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return OutcomeCanceled
	}

	var internalErr *internalError
	if errors.As(err, &internalErr) {
		return OutcomeInternal
	}

	var validationErr *ValidationError
	if errors.As(err, &validationErr) && validationErr.Code != "" {
		return Outcome(validationErr.Code)
	}

	switch {
	case errors.Is(err, ErrHeaderAbsent), errors.Is(err, ErrSchemeMismatch):
		return OutcomeAbsent
	case errors.Is(err, ErrTokenExpired):
		return ErrorCodeTokenExpired
	case errors.Is(err, ErrSignatureInvalid):
		return ErrorCodeInvalidSignature
	case errors.Is(err, ErrPayloadMalformed):
		return ErrorCodeTokenMalformed
	}
	return OutcomeInvalid
}
