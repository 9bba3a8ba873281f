package jwtecho

import (
	"github.com/labstack/echo/v4"
)

// Option is a function that configures the middleware
type Option func(*echoMiddlewareConfig)

// WithContextKey sets a custom context key to store the identity.
// An empty key keeps DefaultIdentityKey.
func WithContextKey(key string) Option {
	return func(config *echoMiddlewareConfig) {
		if key != "" {
			config.contextKey = key
		}
	}
}

// WithSkipper skips resolution for requests the skipper selects. Skipped
// requests still reach the next handler.
func WithSkipper(skipper func(echo.Context) bool) Option {
	return func(config *echoMiddlewareConfig) {
		config.skipper = skipper
	}
}
