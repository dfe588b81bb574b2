package credential

import (
	"context"
	"net/http"
	"strings"
)

// DefaultHeader is the header carrying the raw OneDrive access token.
const DefaultHeader = "x-auth-token"

// FromRequest extracts the caller's token from r. The configured header wins; an
// "Authorization: Bearer" header is accepted as a fallback. Returns "" when neither
// is present, which downstream code treats as unauthenticated.
func FromRequest(r *http.Request, header string) string {
	if header == "" {
		header = DefaultHeader
	}
	if token := strings.TrimSpace(r.Header.Get(header)); token != "" {
		return token
	}

	parts := strings.SplitN(r.Header.Get("Authorization"), " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
		return strings.TrimSpace(parts[1])
	}
	return ""
}

// HTTPContextFunc returns a function suitable for the mcp-go SSE and streamable HTTP
// context hooks. It copies the request's token into the context.
func HTTPContextFunc(header string) func(ctx context.Context, r *http.Request) context.Context {
	return func(ctx context.Context, r *http.Request) context.Context {
		return WithHeaderToken(ctx, FromRequest(r, header))
	}
}

// StaticContextFunc returns a context hook that attaches a fixed token, used by the
// stdio transport where there are no request headers.
func StaticContextFunc(token string) func(ctx context.Context) context.Context {
	return func(ctx context.Context) context.Context {
		return WithHeaderToken(ctx, token)
	}
}
