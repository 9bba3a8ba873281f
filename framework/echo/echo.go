// Package jwtecho adapts jwtfilter.Filter to echo.
package jwtecho

import (
	"github.com/labstack/echo/v4"

	jwtfilter "github.com/codesoom/go-jwt-filter"
	"github.com/codesoom/go-jwt-filter/core"
)

// DefaultIdentityKey is the echo context key the identity is stored under.
var DefaultIdentityKey = "jwt.identity"

// echoMiddlewareConfig holds all configuration for the middleware
type echoMiddlewareConfig struct {
	contextKey string
	skipper    func(echo.Context) bool
}

// NewEchoMiddleware returns an echo middleware that resolves the identity
// and always calls next.
func NewEchoMiddleware(filter *jwtfilter.Filter, opts ...Option) echo.MiddlewareFunc {
	config := &echoMiddlewareConfig{
		contextKey: DefaultIdentityKey,
	}

	for _, opt := range opts {
		opt(config)
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if config.skipper != nil && config.skipper(c) {
				return next(c)
			}

			c.SetRequest(filter.Authenticate(c.Request()))

			if identity, ok := core.IdentityFromContext(c.Request().Context()); ok {
				c.Set(config.contextKey, identity)
			}

			return next(c)
		}
	}
}

// GetIdentity extracts the identity from the echo context.
func GetIdentity(c echo.Context, contextKey string) (*core.Identity, bool) {
	if contextKey == "" {
		contextKey = DefaultIdentityKey
	}

	identity, ok := c.Get(contextKey).(*core.Identity)
	if ok && identity != nil {
		return identity, true
	}
	return core.IdentityFromContext(c.Request().Context())
}
