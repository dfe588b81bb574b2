package common

import (
	"context"
	"testing"

	"github.com/teemow/onedrive-mcp/internal/credential"
	"github.com/teemow/onedrive-mcp/internal/logging"
)

func TestCallerFromContext(t *testing.T) {
	tests := []struct {
		name     string
		ctx      func() context.Context
		expected string
	}{
		{
			name:     "no credential returns empty",
			ctx:      context.Background,
			expected: "",
		},
		{
			name: "scoped token is hashed",
			ctx: func() context.Context {
				ctx, _ := credential.WithToken(context.Background(), "alpha")
				return ctx
			},
			expected: logging.TokenHash("alpha"),
		},
		{
			name: "header token used outside a scope",
			ctx: func() context.Context {
				return credential.WithHeaderToken(context.Background(), "beta")
			},
			expected: logging.TokenHash("beta"),
		},
		{
			name: "scope wins over header",
			ctx: func() context.Context {
				ctx := credential.WithHeaderToken(context.Background(), "beta")
				ctx, _ = credential.WithToken(ctx, "alpha")
				return ctx
			},
			expected: logging.TokenHash("alpha"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CallerFromContext(tt.ctx()); got != tt.expected {
				t.Errorf("CallerFromContext() = %q, expected %q", got, tt.expected)
			}
		})
	}
}

func TestCallerFromContext_ReleasedScope(t *testing.T) {
	ctx, release := credential.WithToken(context.Background(), "alpha")
	release()

	if got := CallerFromContext(ctx); got != "" {
		t.Errorf("CallerFromContext() after release = %q, expected empty", got)
	}
}
