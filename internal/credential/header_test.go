package credential

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromRequest(t *testing.T) {
	tests := []struct {
		name     string
		headers  map[string]string
		header   string
		expected string
	}{
		{
			name:     "no headers",
			expected: "",
		},
		{
			name:     "x-auth-token header",
			headers:  map[string]string{"X-Auth-Token": "alpha"},
			expected: "alpha",
		},
		{
			name:     "bearer fallback",
			headers:  map[string]string{"Authorization": "Bearer beta"},
			expected: "beta",
		},
		{
			name:     "bearer scheme is case insensitive",
			headers:  map[string]string{"Authorization": "bearer beta"},
			expected: "beta",
		},
		{
			name:     "configured header takes precedence",
			headers:  map[string]string{"X-Auth-Token": "alpha", "Authorization": "Bearer beta"},
			expected: "alpha",
		},
		{
			name:     "non-bearer authorization ignored",
			headers:  map[string]string{"Authorization": "Basic dXNlcjpwYXNz"},
			expected: "",
		},
		{
			name:     "custom header",
			headers:  map[string]string{"X-Graph-Token": "gamma"},
			header:   "X-Graph-Token",
			expected: "gamma",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("POST", "/mcp", nil)
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}
			assert.Equal(t, tt.expected, FromRequest(r, tt.header))
		})
	}
}

func TestHTTPContextFunc(t *testing.T) {
	r := httptest.NewRequest("POST", "/mcp", nil)
	r.Header.Set("X-Auth-Token", "alpha")

	ctx := HTTPContextFunc("")(context.Background(), r)
	assert.Equal(t, "alpha", HeaderToken(ctx))
}

func TestStaticContextFunc(t *testing.T) {
	ctx := StaticContextFunc("alpha")(context.Background())
	assert.Equal(t, "alpha", HeaderToken(ctx))
}
