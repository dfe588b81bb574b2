// Package server provides the MCP server context and the HTTP side of the
// onedrive-mcp server.
//
// # Key Components
//
// ServerContext holds the shared Graph client, the metrics recorder and the
// audit logger. It never holds a credential.
//
// HTTPServer mounts the MCP transports from mcp-go:
//   - SSE: /sse (event stream) and /message (client posts)
//   - Streamable HTTP: /mcp, optionally answering with plain JSON
//
// On every request the raw token from the x-auth-token header (or an
// Authorization: Bearer header) is copied into the request context. Tokens are
// not validated here; Microsoft Graph is the authority, and a missing token
// surfaces as the unauthenticated tool result.
//
// HealthChecker serves /healthz, /readyz and /healthz/detailed, and
// MetricsServer exposes Prometheus metrics on a dedicated port.
package server
