// Package common provides shared utilities for the OneDrive MCP tools:
// caller identification and the instrumentation wrapper that records metrics,
// spans and audit entries for every tool call.
package common
