package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/teemow/onedrive-mcp/internal/credential"
	"github.com/teemow/onedrive-mcp/internal/tools/drive_tools"
)

// errToolFailed marks a call whose result was an error. The result text has
// already been printed.
var errToolFailed = errors.New("tool call failed")

func newCallCmd() *cobra.Command {
	var (
		argsJSON     string
		token        string
		graphBaseURL string
		debugMode    bool
	)

	cmd := &cobra.Command{
		Use:   "call <tool>",
		Short: "Invoke a single OneDrive tool",
		Long: `Invoke one OneDrive tool through the same dispatcher the MCP server
uses and print its text result.

Examples:
  onedrive-mcp call onedrive_list_root_files_folders --token "$TOKEN"
  onedrive-mcp call onedrive_read_file_content --args '{"file_id":"01ABC"}'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := defaultServeConfig()
			if err := applyEnv(&cfg); err != nil {
				return err
			}
			if cmd.Flags().Changed("token") {
				cfg.Token = token
			}
			if cmd.Flags().Changed("graph-base-url") {
				cfg.GraphBaseURL = graphBaseURL
			}
			cfg.Debug = cfg.Debug || debugMode

			logger, err := newLogger(cfg)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			rt, err := newApp(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer func() {
				if err := rt.Close(context.Background()); err != nil {
					logger.Debug("error during shutdown", slog.Any("error", err))
				}
			}()

			return runCall(ctx, cmd.OutOrStdout(), rt.dispatcher, args[0], argsJSON, cfg.Token)
		},
	}

	cmd.Flags().StringVar(&argsJSON, "args", "", "Tool arguments as a JSON object")
	cmd.Flags().StringVar(&token, "token", "", "OneDrive access token (env ONEDRIVE_AUTH_TOKEN)")
	cmd.Flags().StringVar(&graphBaseURL, "graph-base-url", "", "Microsoft Graph base URL (env ONEDRIVE_GRAPH_BASE_URL)")
	cmd.Flags().BoolVar(&debugMode, "debug", false, "Enable debug logging")

	return cmd
}

// runCall parses argsJSON, dispatches the tool with token as the caller's
// credential and writes the result text to out.
func runCall(ctx context.Context, out io.Writer, d *drive_tools.Dispatcher, name, argsJSON, token string) error {
	args := map[string]any{}
	if argsJSON != "" {
		if err := json.Unmarshal([]byte(argsJSON), &args); err != nil {
			return fmt.Errorf("--args must be a JSON object: %w", err)
		}
	}

	ctx = credential.WithHeaderToken(ctx, token)
	result := d.Call(ctx, name, args)

	if _, err := fmt.Fprintln(out, result.Render()); err != nil {
		return err
	}
	if result.IsError() {
		return errToolFailed
	}
	return nil
}
