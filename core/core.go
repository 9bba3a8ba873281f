package core

import (
	"context"
	"fmt"
	"time"
)

// TokenValidator verifies a raw token and decodes it into an Identity.
// Implementations must be safe for concurrent use and must return a non-nil
// error whenever the signature, expiry or payload checks fail.
type TokenValidator interface {
	ValidateToken(ctx context.Context, token string) (*Identity, error)
}

// TokenValidatorFunc adapts a plain function to TokenValidator.
type TokenValidatorFunc func(ctx context.Context, token string) (*Identity, error)

// ValidateToken calls f(ctx, token).
func (f TokenValidatorFunc) ValidateToken(ctx context.Context, token string) (*Identity, error) {
	return f(ctx, token)
}

// Logger defines an optional logging interface for the core resolver.
// *slog.Logger satisfies it.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// Core is the framework-agnostic identity resolver. It holds only immutable
// configuration and is safe for concurrent use.
type Core struct {
	validator TokenValidator
	logger    Logger
}

// Resolve validates a candidate token and decodes it into an Identity.
//
// It returns (identity, OutcomeAuthenticated) on success and (nil, outcome)
// on any failure. Failures are never returned as errors: the outcome only
// labels why the request stays unauthenticated.
//
// A context that is already done resolves to OutcomeCanceled without calling
// the validator.
func (c *Core) Resolve(ctx context.Context, token string) (*Identity, Outcome) {
	if err := ctx.Err(); err != nil {
		c.debug("request context done before token validation", "error", err)
		return nil, OutcomeCanceled
	}

	start := time.Now()
	identity, err := c.validate(ctx, token)
	duration := time.Since(start)

	if err == nil && (identity == nil || identity.Subject == "") {
		err = NewValidationError(ErrorCodeInvalidClaims, "token has no subject", nil)
	}

	if err != nil {
		outcome := OutcomeOf(err)
		if outcome == OutcomeInternal {
			if c.logger != nil {
				c.logger.Warn("token validator failed unexpectedly", "error", err)
			}
		} else {
			c.debug("token rejected", "outcome", string(outcome), "duration", duration)
		}
		return nil, outcome
	}

	c.debug("token validated successfully", "duration", duration)
	return identity, OutcomeAuthenticated
}

// validate calls the validator and converts a panic into an error so that
// nothing escapes the resolver.
func (c *Core) validate(ctx context.Context, token string) (identity *Identity, err error) {
	defer func() {
		if r := recover(); r != nil {
			identity = nil
			err = &internalError{cause: fmt.Errorf("validator panic: %v", r)}
		}
	}()

	if token == "" {
		return nil, NewValidationError(ErrorCodeTokenMalformed, "token is empty", nil)
	}

	return c.validator.ValidateToken(ctx, token)
}

func (c *Core) debug(msg string, args ...any) {
	if c.logger != nil {
		c.logger.Debug(msg, args...)
	}
}

type internalError struct {
	cause error
}

func (e *internalError) Error() string { return e.cause.Error() }

func (e *internalError) Unwrap() error { return e.cause }
