// Package jwtgin adapts jwtfilter.Filter to gin.
//
// The middleware never aborts: it resolves the identity, stores it on both the
// request context and the gin context, and calls c.Next().
package jwtgin

import (
	"github.com/gin-gonic/gin"

	jwtfilter "github.com/codesoom/go-jwt-filter"
	"github.com/codesoom/go-jwt-filter/core"
)

// DefaultIdentityKey is the gin context key the identity is stored under.
const DefaultIdentityKey = "jwt.identity"

type ginMiddlewareConfig struct {
	contextKey string
}

// NewGinMiddleware creates a gin middleware from a configured filter.
func NewGinMiddleware(filter *jwtfilter.Filter, opts ...Option) gin.HandlerFunc {
	config := &ginMiddlewareConfig{
		contextKey: DefaultIdentityKey,
	}

	for _, opt := range opts {
		opt(config)
	}

	return func(c *gin.Context) {
		c.Request = filter.Authenticate(c.Request)

		if identity, ok := core.IdentityFromContext(c.Request.Context()); ok {
			c.Set(config.contextKey, identity)
		}

		c.Next()
	}
}

// GetIdentity returns the identity stored by the middleware under contextKey,
// falling back to the request context. An empty contextKey means
// DefaultIdentityKey.
func GetIdentity(c *gin.Context, contextKey string) (*core.Identity, bool) {
	if contextKey == "" {
		contextKey = DefaultIdentityKey
	}

	if value, exists := c.Get(contextKey); exists {
		identity, ok := value.(*core.Identity)
		return identity, ok && identity != nil
	}

	if c.Request == nil {
		return nil, false
	}
	return core.IdentityFromContext(c.Request.Context())
}
