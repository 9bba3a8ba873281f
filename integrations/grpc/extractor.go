package grpc

import (
	"context"
	"strings"

	"google.golang.org/grpc/metadata"

	jwtfilter "github.com/codesoom/go-jwt-filter"
)

// TokenExtractor extracts a candidate token from the incoming gRPC context.
// Like its HTTP counterpart it never fails; it only reports whether a
// candidate was presented.
type TokenExtractor func(ctx context.Context) (string, bool)

// authorizationKey is the metadata key for the bearer token. gRPC normalizes
// incoming metadata keys to lowercase.
const authorizationKey = "authorization"

// MetadataTokenExtractor extracts the token from the "authorization" metadata
// entry using the same exact "Bearer " prefix rule as the HTTP filter.
//
// More than one authorization entry is ambiguous and treated as absent.
func MetadataTokenExtractor(ctx context.Context) (string, bool) {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return "", false
	}

	authHeaders := md.Get(authorizationKey)
	if len(authHeaders) != 1 {
		return "", false
	}

	token, found := strings.CutPrefix(authHeaders[0], jwtfilter.DefaultScheme)
	if !found {
		return "", false
	}
	return token, true
}
