package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/onedrive-mcp/internal/credential"
	"github.com/teemow/onedrive-mcp/internal/instrumentation"
	"github.com/teemow/onedrive-mcp/internal/logging"
	"github.com/teemow/onedrive-mcp/internal/onedrive"
	"github.com/teemow/onedrive-mcp/internal/server"
	"github.com/teemow/onedrive-mcp/internal/tools/drive_tools"
)

func newServeCmd() *cobra.Command {
	var (
		configPath string
		flags      = defaultServeConfig()
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server",
		Long: `Start the MCP server to provide OneDrive tools for AI assistants.

Supports multiple transport types:
  - stdio: Standard input/output (default for desktop clients)
  - sse: Server-Sent Events over HTTP (/sse and /message)
  - streamable-http: Streamable HTTP transport (/mcp, default)

HTTP callers pass their OneDrive access token in the x-auth-token header
(or Authorization: Bearer). For stdio, use --token or ONEDRIVE_AUTH_TOKEN.

Settings are read from built-in defaults, then --config, then environment
variables, then flags.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveServeConfig(cmd, configPath, flags)
			if err != nil {
				return err
			}
			return runServe(cfg)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "Path to a YAML config file")
	bindServeFlags(cmd, &flags)

	return cmd
}

// bindServeFlags registers the serve flags on cmd, with the defaults taken
// from flags.
func bindServeFlags(cmd *cobra.Command, flags *ServeConfig) {
	cmd.Flags().StringVar(&flags.Transport, "transport", flags.Transport, "Transport type: stdio, sse, or streamable-http (env ONEDRIVE_MCP_TRANSPORT)")
	cmd.Flags().StringVar(&flags.HTTPAddr, "http-addr", flags.HTTPAddr, "HTTP server address (env ONEDRIVE_MCP_SERVER_PORT sets the port)")
	cmd.Flags().BoolVar(&flags.JSONResponse, "json-response", false, "Answer streamable HTTP requests with JSON instead of event streams")
	cmd.Flags().StringVar(&flags.TokenHeader, "token-header", flags.TokenHeader, "Request header carrying the caller's OneDrive access token")
	cmd.Flags().StringVar(&flags.GraphBaseURL, "graph-base-url", flags.GraphBaseURL, "Microsoft Graph base URL (env ONEDRIVE_GRAPH_BASE_URL)")
	cmd.Flags().Int64Var(&flags.MaxConcurrentCalls, "max-concurrent-calls", flags.MaxConcurrentCalls, "Maximum in-flight Graph requests (env ONEDRIVE_MAX_CONCURRENT_CALLS)")
	cmd.Flags().StringVar(&flags.Token, "token", "", "OneDrive access token for the stdio transport (env ONEDRIVE_AUTH_TOKEN)")
	cmd.Flags().StringVar(&flags.LogLevel, "log-level", flags.LogLevel, "Log level: DEBUG, INFO, WARNING, ERROR or CRITICAL")
	cmd.Flags().StringVar(&flags.LogFormat, "log-format", flags.LogFormat, "Log format: text or json")
	cmd.Flags().BoolVar(&flags.Debug, "debug", false, "Enable debug logging")
	cmd.Flags().BoolVar(&flags.ReadOnly, "read-only", false, "Only register tools that do not modify OneDrive")

	// Metrics configuration flags
	cmd.Flags().BoolVar(&flags.Metrics.Enabled, "metrics-enabled", flags.Metrics.Enabled, "Enable Prometheus metrics server (env METRICS_ENABLED)")
	cmd.Flags().StringVar(&flags.Metrics.Addr, "metrics-addr", flags.Metrics.Addr, "Metrics server address (env METRICS_ADDR)")
}

// newLogger builds the process logger from the resolved config.
func newLogger(cfg ServeConfig) (*slog.Logger, error) {
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	if cfg.Debug {
		level = slog.LevelDebug
	}
	return logging.NewLogger(os.Stderr, level, cfg.LogFormat)
}

// app bundles what every command that runs tools needs.
type app struct {
	provider   *instrumentation.Provider
	sc         *server.ServerContext
	dispatcher *drive_tools.Dispatcher
}

func (r *app) Close(ctx context.Context) error {
	return errors.Join(r.sc.Shutdown(), r.provider.Shutdown(ctx))
}

// newApp wires instrumentation, the Graph client, the server context and
// the tool dispatcher.
func newApp(ctx context.Context, cfg ServeConfig, logger *slog.Logger) (*app, error) {
	instrConfig, err := instrumentation.ConfigFromEnv()
	if err != nil {
		return nil, err
	}
	instrConfig.Service.Version = version
	if err := instrConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid instrumentation configuration: %w", err)
	}

	provider, err := instrumentation.NewProvider(ctx, instrConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create instrumentation provider: %w", err)
	}

	var (
		metrics     *instrumentation.Metrics
		auditLogger *instrumentation.AuditLogger
	)
	if provider.Enabled() {
		metrics = provider.Metrics()
		auditLogger = instrumentation.NewAuditLogger(logger, instrConfig.AuditLogging)
	}

	client := onedrive.NewClient(onedrive.Options{
		BaseURL:       cfg.GraphBaseURL,
		MaxConcurrent: cfg.MaxConcurrentCalls,
		Metrics:       metrics,
		Logger:        logger,
	})

	sc, err := server.NewServerContext(ctx, server.Options{
		Client:      client,
		Metrics:     metrics,
		AuditLogger: auditLogger,
		Logger:      logger,
	})
	if err != nil {
		_ = provider.Shutdown(ctx)
		return nil, fmt.Errorf("failed to create server context: %w", err)
	}

	dispatcher, err := drive_tools.NewDispatcher(sc)
	if err != nil {
		_ = sc.Shutdown()
		_ = provider.Shutdown(ctx)
		return nil, fmt.Errorf("failed to build tool table: %w", err)
	}

	return &app{provider: provider, sc: sc, dispatcher: dispatcher}, nil
}

// newMCPServer creates the MCP server and registers the OneDrive tools.
func newMCPServer(dispatcher *drive_tools.Dispatcher, readOnly bool) *mcpserver.MCPServer {
	mcpSrv := mcpserver.NewMCPServer("onedrive-mcp", version,
		mcpserver.WithToolCapabilities(true),
		mcpserver.WithRecovery(),
	)
	dispatcher.Register(mcpSrv, readOnly)
	return mcpSrv
}

func runServe(cfg ServeConfig) error {
	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)

	// Setup graceful shutdown
	shutdownCtx, cancel := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer cancel()

	rt, err := newApp(shutdownCtx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), server.DefaultShutdownTimeout)
		defer cancel()
		if err := rt.Close(ctx); err != nil {
			logger.Warn("error during shutdown", logging.Err(err))
		}
	}()

	if cfg.Transport != server.TransportStdio && cfg.Metrics.Enabled && rt.provider.PrometheusHandler() != nil {
		metricsDone, err := startMetricsServer(shutdownCtx, cfg.Metrics.Addr, rt.provider, logger)
		if err != nil {
			return err
		}
		defer func() {
			cancel()
			<-metricsDone
		}()
	}

	if cfg.ReadOnly {
		logger.Info("starting server in read-only mode")
	}
	mcpSrv := newMCPServer(rt.dispatcher, cfg.ReadOnly)

	switch cfg.Transport {
	case server.TransportStdio:
		if cfg.Token == "" {
			logger.Warn("no access token configured for stdio; tool calls will be unauthenticated")
		}
		return runStdioServer(shutdownCtx, mcpSrv, cfg.Token, logger)
	default:
		return runHTTPServer(shutdownCtx, mcpSrv, rt.sc, cfg, logger)
	}
}

// startMetricsServer binds the Prometheus endpoint and serves it until ctx
// is done. The returned channel closes once the listener has drained.
func startMetricsServer(ctx context.Context, addr string, provider *instrumentation.Provider, logger *slog.Logger) (<-chan struct{}, error) {
	metricsServer, err := server.NewMetricsServer(addr, provider, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create metrics server: %w", err)
	}
	if err := metricsServer.Listen(); err != nil {
		return nil, err
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := metricsServer.Serve(ctx); err != nil {
			logger.Error("metrics server failed", logging.Err(err))
		}
	}()
	return done, nil
}

func runStdioServer(ctx context.Context, mcpSrv *mcpserver.MCPServer, token string, logger *slog.Logger) error {
	stdio := mcpserver.NewStdioServer(mcpSrv)
	stdio.SetContextFunc(credential.StaticContextFunc(token))
	stdio.SetErrorLogger(slog.NewLogLogger(logger.Handler(), slog.LevelError))

	err := stdio.Listen(ctx, os.Stdin, os.Stdout)
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("server stopped with error: %w", err)
	}
	return nil
}

func runHTTPServer(ctx context.Context, mcpSrv *mcpserver.MCPServer, sc *server.ServerContext, cfg ServeConfig, logger *slog.Logger) error {
	httpServer, err := server.NewHTTPServer(mcpSrv, sc, server.HTTPServerConfig{
		Addr:         cfg.HTTPAddr,
		Transport:    cfg.Transport,
		JSONResponse: cfg.JSONResponse,
		TokenHeader:  cfg.TokenHeader,
	})
	if err != nil {
		return fmt.Errorf("failed to create HTTP server: %w", err)
	}

	serverDone := make(chan error, 1)
	go func() {
		defer close(serverDone)
		if err := httpServer.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverDone <- err
		}
	}()

	select {
	case err := <-serverDone:
		if err != nil {
			return fmt.Errorf("server stopped with error: %w", err)
		}
		return nil
	case <-ctx.Done():
		logger.Info("shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), server.DefaultShutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("error during server shutdown: %w", err)
		}
		return nil
	}
}
