package grpc

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"

	jwtfilter "github.com/codesoom/go-jwt-filter"
	"github.com/codesoom/go-jwt-filter/core"
)

func TestNew_InvalidConfiguration(t *testing.T) {
	testCases := []struct {
		name    string
		options []Option
		wantErr string
	}{
		{
			name:    "missing validator",
			wantErr: "validator is required",
		},
		{
			name:    "nil validator option",
			options: []Option{WithValidator(nil)},
			wantErr: "validator cannot be nil",
		},
		{
			name:    "nil core",
			options: []Option{WithCore(nil)},
			wantErr: "core cannot be nil",
		},
		{
			name:    "nil logger",
			options: []Option{WithLogger(nil)},
			wantErr: "logger cannot be nil",
		},
		{
			name:    "nil extractor",
			options: []Option{WithTokenExtractor(nil)},
			wantErr: "token extractor cannot be nil",
		},
		{
			name:    "nil metrics",
			options: []Option{WithMetrics(nil)},
			wantErr: "metrics cannot be nil",
		},
		{
			name:    "nil tracer",
			options: []Option{WithTracer(nil)},
			wantErr: "tracer cannot be nil",
		},
		{
			name:    "logger without validator",
			options: []Option{WithLogger(&mockLogger{})},
			wantErr: "validator is required",
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			_, err := New(testCase.options...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), testCase.wantErr)
		})
	}
}

func TestOptions(t *testing.T) {
	jwtValidator := createTestValidator(t)

	t.Run("WithCore shares the resolver", func(t *testing.T) {
		c, err := core.New(core.WithValidator(jwtValidator))
		require.NoError(t, err)

		interceptor, err := New(WithCore(c))
		require.NoError(t, err)
		assert.Same(t, c, interceptor.core)

		_, err = New(WithCore(c), WithValidator(jwtValidator))
		assert.Error(t, err)
	})

	t.Run("WithTokenExtractor", func(t *testing.T) {
		interceptor, err := New(
			WithValidator(core.TokenValidatorFunc(func(_ context.Context, token string) (*core.Identity, error) {
				return &core.Identity{Subject: token}, nil
			})),
			WithTokenExtractor(func(context.Context) (string, bool) { return "bob", true }),
		)
		require.NoError(t, err)

		_, err = interceptor.UnaryServerInterceptor()(context.Background(), nil, &grpc.UnaryServerInfo{FullMethod: "/a/b"},
			func(ctx context.Context, _ interface{}) (interface{}, error) {
				identity, ok := CurrentIdentity(ctx)
				require.True(t, ok)
				assert.Equal(t, "bob", identity.Subject)
				return nil, nil
			})
		require.NoError(t, err)
	})

	t.Run("WithMetrics accepts the HTTP implementations", func(t *testing.T) {
		_, err := New(WithValidator(jwtValidator), WithMetrics(jwtfilter.NoopMetrics{}))
		assert.NoError(t, err)
	})
}
