// Package credential carries the caller's bearer token through a single tool call.
//
// The transport layer copies the raw header value into the request context with
// WithHeaderToken. The dispatcher then opens a scope for each tool call:
//
//	ctx, release := credential.WithToken(ctx, credential.HeaderToken(ctx))
//	defer release()
//
// Downstream code reads the token with FromContext. The token lives in a slot owned by
// the returned context, so two calls running at the same time never observe each
// other's token, and release empties the slot on every exit path.
//
// Tokens are never logged; use logging.TokenHash for correlation.
package credential
