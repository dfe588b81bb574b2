// Package cmd implements the command-line interface for onedrive-mcp.
//
// This package provides the following commands:
//   - serve: Start the MCP server over stdio, SSE or streamable HTTP
//   - call: Invoke a single OneDrive tool and print its text result
//   - generate-docs: Generate markdown documentation for all MCP tools
//   - version: Display version information
//
// The serve command is the default command when no subcommand is specified.
// Its settings resolve in order: built-in defaults, the optional YAML file
// given with --config, environment variables, then explicit flags.
package cmd
