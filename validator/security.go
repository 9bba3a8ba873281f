package validator

import (
	"errors"
	"strings"
)

var (
	// ErrTokenEmpty is returned for an empty candidate token.
	ErrTokenEmpty = errors.New("token is empty")

	// ErrTokenTooLarge is returned for tokens above maxTokenSize.
	ErrTokenTooLarge = errors.New("token exceeds maximum size")

	// ErrTokenSegments is returned when a token is not a three-segment compact JWS.
	ErrTokenSegments = errors.New("token must have exactly three segments")
)

// maxTokenSize bounds the work done on an untrusted header value before any
// decoding happens. Real tokens are a few KB at most.
const maxTokenSize = 64 * 1024

// validateTokenFormat rejects obviously malformed input before it reaches
// the JWS parser: empty strings, oversized values and anything that is not
// header.payload.signature.
func validateTokenFormat(tokenString string) error {
	if len(tokenString) == 0 {
		return ErrTokenEmpty
	}

	if len(tokenString) > maxTokenSize {
		return ErrTokenTooLarge
	}

	if strings.Count(tokenString, ".") != 2 {
		return ErrTokenSegments
	}

	return nil
}
