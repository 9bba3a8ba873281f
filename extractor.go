package jwtfilter

import (
	"net/http"
	"strings"
)

const (
	// DefaultHeader is the request header the bearer token is read from.
	DefaultHeader = "Authorization"

	// DefaultScheme is the exact, case-sensitive prefix in front of the token.
	DefaultScheme = "Bearer "
)

// TokenExtractor is a function that takes a request as input and returns a
// candidate token and whether one was presented at all.
//
// An extractor never fails: a missing or differently formatted credential is
// reported as ("", false). A present but empty candidate is ("", true) and is
// left for the resolver to reject.
type TokenExtractor func(r *http.Request) (string, bool)

// BearerTokenExtractor extracts the token from an "Authorization: Bearer <token>"
// header. The header name is matched case-insensitively, the "Bearer " prefix
// is not: "bearer x" and "Bearer" without a trailing space carry no candidate.
func BearerTokenExtractor(r *http.Request) (string, bool) {
	return bearerExtractor(r)
}

var bearerExtractor = HeaderTokenExtractor(DefaultHeader, DefaultScheme)

// HeaderTokenExtractor builds a TokenExtractor that reads header and strips
// prefix from its value. Only the first value of the header is inspected.
func HeaderTokenExtractor(header, prefix string) TokenExtractor {
	return func(r *http.Request) (string, bool) {
		value := r.Header.Get(header)
		if value == "" {
			return "", false
		}

		token, found := strings.CutPrefix(value, prefix)
		if !found {
			return "", false
		}

		return token, true
	}
}

// CookieTokenExtractor builds a TokenExtractor that takes a request and
// extracts the token from the cookie using the passed in cookieName.
func CookieTokenExtractor(cookieName string) TokenExtractor {
	return func(r *http.Request) (string, bool) {
		cookie, err := r.Cookie(cookieName)
		if err != nil {
			return "", false
		}

		return cookie.Value, true
	}
}

// ParameterTokenExtractor returns a TokenExtractor that extracts
// the token from the specified query string parameter.
func ParameterTokenExtractor(param string) TokenExtractor {
	return func(r *http.Request) (string, bool) {
		if r.URL == nil {
			return "", false
		}

		values, ok := r.URL.Query()[param]
		if !ok || len(values) == 0 {
			return "", false
		}

		return values[0], true
	}
}

// MultiTokenExtractor returns a TokenExtractor that runs multiple TokenExtractors
// in order and takes the first one that reports a candidate.
func MultiTokenExtractor(extractors ...TokenExtractor) TokenExtractor {
	return func(r *http.Request) (string, bool) {
		for _, ex := range extractors {
			if token, ok := ex(r); ok {
				return token, true
			}
		}
		return "", false
	}
}
