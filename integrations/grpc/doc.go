// Package grpc provides gRPC server interceptors that resolve the caller's
// identity from a bearer token.
//
// The interceptors read the single "authorization" metadata entry, require
// the exact prefix "Bearer ", and validate the token with the same core.Core
// the HTTP filter uses. They never fail a call: the handler always runs, and
// the identity is present in its context only when the token was valid.
// Rejecting unauthenticated calls is left to the handler or to a later
// authorization interceptor.
//
// # Basic Usage
//
//	import (
//	    jwtgrpc "github.com/codesoom/go-jwt-filter/integrations/grpc"
//	    "github.com/codesoom/go-jwt-filter/validator"
//	    "google.golang.org/grpc"
//	)
//
//	func main() {
//	    v, err := validator.New(
//	        validator.WithSecret(secret),
//	        validator.WithAlgorithm(validator.HS256),
//	    )
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    interceptor, err := jwtgrpc.New(
//	        jwtgrpc.WithValidator(v),
//	        jwtgrpc.WithExcludedMethods("/grpc.health.v1.Health/Check"),
//	    )
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    server := grpc.NewServer(
//	        grpc.UnaryInterceptor(interceptor.UnaryServerInterceptor()),
//	        grpc.StreamInterceptor(interceptor.StreamServerInterceptor()),
//	    )
//	    // Register services...
//	}
//
// # Reading the Identity
//
//	func (s *server) GetOrder(ctx context.Context, req *pb.GetOrderRequest) (*pb.Order, error) {
//	    identity, ok := jwtgrpc.CurrentIdentity(ctx)
//	    if !ok {
//	        return nil, status.Error(codes.Unauthenticated, "login required")
//	    }
//	    // ...
//	}
package grpc
