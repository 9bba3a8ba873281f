/*
Package jwtfilter provides a net/http filter that resolves the caller's
identity from a bearer token.

For every request the filter reads the "Authorization: Bearer <token>"
header, verifies the token's signature and expiry, decodes it into a
core.Identity and installs that identity into the request context. The
filter never rejects a request: missing, malformed, expired or forged tokens
leave the request unauthenticated and it is passed on exactly as it arrived.
Enforcing access is the job of the handlers behind the filter.

# Quick Start

	import (
	    "github.com/codesoom/go-jwt-filter"
	    "github.com/codesoom/go-jwt-filter/validator"
	)

	func main() {
	    v, err := validator.New(
	        validator.WithSecret([]byte(os.Getenv("JWT_SECRET"))),
	        validator.WithAlgorithm(validator.HS256),
	    )
	    if err != nil {
	        log.Fatal(err)
	    }

	    filter, err := jwtfilter.New(jwtfilter.WithValidator(v))
	    if err != nil {
	        log.Fatal(err)
	    }

	    http.ListenAndServe(":8080", filter.Handler(mux))
	}

# Reading the Identity

	func meHandler(w http.ResponseWriter, r *http.Request) {
	    identity, ok := jwtfilter.CurrentIdentity(r.Context())
	    if !ok {
	        http.Error(w, "Unauthorized", http.StatusUnauthorized)
	        return
	    }
	    fmt.Fprintf(w, "%s (%s)", identity.Subject, identity.Role)
	}

# Token Extraction

The default extractor requires the exact, case-sensitive prefix "Bearer "
followed by the token. "bearer x", "Basic x" and "Bearer" without a space
carry no token. "Bearer " followed by nothing counts as a presented but
empty token and is rejected by the resolver. Other sources can be plugged in
with WithTokenExtractor:

	jwtfilter.WithTokenExtractor(jwtfilter.MultiTokenExtractor(
	    jwtfilter.BearerTokenExtractor,
	    jwtfilter.CookieTokenExtractor("jwt"),
	))

# Expiry

A token is valid while the current time is strictly before its exp claim.
A token whose exp equals the current second is already expired. Tokens
without exp are rejected.

# Observability

WithLogger accepts a *slog.Logger or one of the adapters NewZapLogger,
NewZerologLogger and NewLogrusLogger. Rejected tokens are logged at debug
level with an outcome label and nothing else; tokens are never logged.

WithMetrics records jwtfilter_resolutions_total and
jwtfilter_resolution_duration_seconds by outcome, and WithTracer wraps each
resolution in a "jwtfilter.resolve" span.

# Thread Safety

A Filter is immutable after New returns and safe for concurrent use. The
identity lives only in the request context, so concurrent requests never
observe each other's identity.

# Architecture

	┌─────────────────────────────────────────────┐
	│  jwtfilter (net/http)  framework/gin, echo  │
	│  integrations/grpc                          │ ← transport adapters
	├─────────────────────────────────────────────┤
	│  core                                       │ ← resolve + context
	├─────────────────────────────────────────────┤
	│  validator (jwx)  validate/jwt-go           │ ← verify + decode
	└─────────────────────────────────────────────┘
*/
package jwtfilter
