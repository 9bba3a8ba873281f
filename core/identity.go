package core

import "time"

// Identity is the decoded result of a validated token. It is attached to
// exactly one request context and never shared across requests.
type Identity struct {
	// Subject is the token's "sub" claim. Never empty on an installed identity.
	Subject string `json:"sub"`

	// Role is the token's "role" claim, empty when the token carries none.
	Role string `json:"role,omitempty"`

	IssuedAt  time.Time `json:"iat,omitempty"`
	ExpiresAt time.Time `json:"exp,omitempty"`

	// Claims holds every claim of the token, registered ones included.
	Claims map[string]any `json:"claims,omitempty"`
}

// Claim returns the named claim as decoded from the token payload.
func (id *Identity) Claim(name string) (any, bool) {
	if id == nil || id.Claims == nil {
		return nil, false
	}
	v, ok := id.Claims[name]
	return v, ok
}
