package common

import (
	"context"

	"github.com/teemow/onedrive-mcp/internal/credential"
	"github.com/teemow/onedrive-mcp/internal/logging"
)

// CallerFromContext identifies the caller of a tool by a short hash of the
// credential installed for the current call. It returns "" when the call is
// anonymous.
//
// Priority order:
//  1. Token installed by the dispatcher's credential scope
//  2. Raw token copied from the transport header
func CallerFromContext(ctx context.Context) string {
	if token, ok := credential.FromContext(ctx); ok {
		return logging.TokenHash(token)
	}
	return logging.TokenHash(credential.HeaderToken(ctx))
}
