package core

import (
	"errors"
)

// Option is a function that configures the Core.
// Options return errors to enable validation during construction.
type Option func(*Core) error

// New creates a new Core instance with the provided options.
//
// The Core must be configured with a TokenValidator using WithValidator.
//
// Example:
//
//	c, err := core.New(
//	    core.WithValidator(v),
//	    core.WithLogger(slog.Default()),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
func New(opts ...Option) (*Core, error) {
	c := &Core{}

	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}

	if c.validator == nil {
		return nil, ErrValidatorNotSet
	}

	return c, nil
}

// Configuration errors returned by New.
var (
	ErrValidatorNotSet = errors.New("validator is required but not set (use WithValidator option)")
	ErrValidatorNil    = errors.New("validator cannot be nil")
	ErrLoggerNil       = errors.New("logger cannot be nil")
)

// WithValidator sets the token validator used to verify and decode tokens.
// This is a required option.
func WithValidator(v TokenValidator) Option {
	return func(c *Core) error {
		if v == nil {
			return ErrValidatorNil
		}
		c.validator = v
		return nil
	}
}

// WithLogger sets an optional logger for the Core.
//
// Rejected tokens are logged at debug level with their outcome label only;
// the token itself is never logged.
func WithLogger(logger Logger) Option {
	return func(c *Core) error {
		if logger == nil {
			return ErrLoggerNil
		}
		c.logger = logger
		return nil
	}
}
