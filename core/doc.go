/*
Package core provides the framework-agnostic identity resolver shared by the
HTTP filter, the gin and echo adapters and the gRPC interceptors.

# Architecture

	┌─────────────────────────────────────────────┐
	│         Transport Adapters                  │
	│  (net/http, gin, echo, gRPC)                │
	│  • Token extraction                         │
	│  • Unconditional pass-through               │
	└────────────────┬────────────────────────────┘
	                 │
	                 ▼
	┌─────────────────────────────────────────────┐
	│          Core Resolver (THIS PACKAGE)       │
	│  • Resolve: token -> *Identity or nothing   │
	│  • Failure classification (Outcome)         │
	│  • Context installation                     │
	└────────────────┬────────────────────────────┘
	                 │
	                 ▼
	┌─────────────────────────────────────────────┐
	│          TokenValidator                     │
	│  (signature, expiry, claims decode)         │
	└─────────────────────────────────────────────┘

# Basic Usage

	c, err := core.New(core.WithValidator(v))
	if err != nil {
	    log.Fatal(err)
	}

	identity, outcome := c.Resolve(ctx, token)
	if identity != nil {
	    ctx = core.SetIdentity(ctx, identity)
	}

Resolve never returns an error. Every failure (bad signature, expired token,
malformed payload, a done context) collapses to a nil identity, and the
Outcome only says why.

# Reading the Identity

	identity, ok := core.IdentityFromContext(ctx)
	if !ok {
	    // unauthenticated
	}

	role, err := core.GetClaim[string](ctx, "role")

The identity lives in the request's own context. There is no global holder,
so concurrent requests never observe each other's identity.
*/
package core
