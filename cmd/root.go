package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// version is set by main through SetVersion
var version = "dev"

// SetVersion records the build version reported by --version, the version
// command and the MCP initialize response.
func SetVersion(v string) {
	version = v
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "onedrive-mcp",
		Short: "MCP server exposing OneDrive file operations",
		Long: `onedrive-mcp is a Model Context Protocol server that lets AI assistants
list, read, create, move, rename, delete and share files in OneDrive through
Microsoft Graph.

Every tool call runs with the OneDrive access token supplied by the caller
(the x-auth-token header on HTTP transports, --token on stdio). The server
stores no credentials of its own.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetVersionTemplate(`{{printf "onedrive-mcp version %s\n" .Version}}`)

	root.AddCommand(
		newServeCmd(),
		newCallCmd(),
		newGenerateDocsCmd(),
		newVersionCmd(),
	)
	return root
}

// Execute runs the CLI. Without arguments it starts the server.
func Execute() {
	args := os.Args[1:]
	if len(args) == 0 {
		args = []string{"serve"}
	}

	root := newRootCmd()
	root.SetArgs(args)
	if err := root.Execute(); err != nil {
		// A failed tool call has already printed its result
		if !errors.Is(err, errToolFailed) {
			fmt.Fprintln(root.ErrOrStderr(), "Error:", err)
		}
		os.Exit(1)
	}
}
