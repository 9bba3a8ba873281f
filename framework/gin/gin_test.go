package jwtgin

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	jwtfilter "github.com/codesoom/go-jwt-filter"
	"github.com/codesoom/go-jwt-filter/core"
)

func newFilter(t *testing.T) *jwtfilter.Filter {
	t.Helper()

	filter, err := jwtfilter.New(jwtfilter.WithValidator(core.TokenValidatorFunc(
		func(_ context.Context, token string) (*core.Identity, error) {
			if token != "good" {
				return nil, core.NewValidationError(core.ErrorCodeInvalidSignature, "bad token", nil)
			}
			return &core.Identity{Subject: "alice", Role: "admin"}, nil
		},
	)))
	require.NoError(t, err)
	return filter
}

func TestNewGinMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	testCases := []struct {
		name        string
		header      string
		options     []Option
		lookupKey   string
		wantSubject string
	}{
		{
			name:        "valid token",
			header:      "Bearer good",
			wantSubject: "alice",
		},
		{
			name: "no token",
		},
		{
			name:   "invalid token",
			header: "Bearer bad",
		},
		{
			name:   "wrong scheme",
			header: "Basic good",
		},
		{
			name:        "custom context key",
			header:      "Bearer good",
			options:     []Option{WithContextKey("user")},
			lookupKey:   "user",
			wantSubject: "alice",
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			calls := 0
			router := gin.New()
			router.Use(NewGinMiddleware(newFilter(t), testCase.options...))
			router.GET("/", func(c *gin.Context) {
				calls++

				subject := ""
				if identity, ok := GetIdentity(c, testCase.lookupKey); ok {
					subject = identity.Subject
				}
				assert.Equal(t, testCase.wantSubject, subject)

				fromRequest, ok := jwtfilter.CurrentIdentity(c.Request.Context())
				assert.Equal(t, testCase.wantSubject != "", ok)
				if ok {
					assert.Equal(t, testCase.wantSubject, fromRequest.Subject)
				}

				c.Status(http.StatusNoContent)
			})

			request := httptest.NewRequest(http.MethodGet, "/", nil)
			if testCase.header != "" {
				request.Header.Set("Authorization", testCase.header)
			}
			recorder := httptest.NewRecorder()
			router.ServeHTTP(recorder, request)

			assert.Equal(t, 1, calls)
			assert.Equal(t, http.StatusNoContent, recorder.Code)
		})
	}
}

func TestGetIdentity_WrongType(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Set(DefaultIdentityKey, "not an identity")

	_, ok := GetIdentity(c, "")
	assert.False(t, ok)
}

func TestGetIdentity_NoRequest(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	_, ok := GetIdentity(c, "")
	assert.False(t, ok)
}
