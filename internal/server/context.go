package server

import (
	"context"
	"log/slog"
	"sync"

	"github.com/teemow/onedrive-mcp/internal/instrumentation"
	"github.com/teemow/onedrive-mcp/internal/onedrive"
)

// ServerContext holds the shared dependencies of the MCP server. It carries no
// credential: tokens live only in the context of a single tool call.
type ServerContext struct {
	ctx         context.Context
	cancel      context.CancelFunc
	client      *onedrive.Client
	metrics     *instrumentation.Metrics
	auditLogger *instrumentation.AuditLogger
	logger      *slog.Logger
	mu          sync.RWMutex
	shutdown    bool
}

// Options configures a ServerContext. Zero values are valid.
type Options struct {
	// Client is the Graph client. A default client is built when nil.
	Client *onedrive.Client

	// Metrics may be nil when instrumentation is disabled.
	Metrics *instrumentation.Metrics

	// AuditLogger may be nil when audit logging is disabled.
	AuditLogger *instrumentation.AuditLogger

	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// NewServerContext creates a new server context
func NewServerContext(ctx context.Context, opts Options) (*ServerContext, error) {
	shutdownCtx, cancel := context.WithCancel(ctx)

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	client := opts.Client
	if client == nil {
		client = onedrive.NewClient(onedrive.Options{
			Metrics: opts.Metrics,
			Logger:  logger,
		})
	}

	return &ServerContext{
		ctx:         shutdownCtx,
		cancel:      cancel,
		client:      client,
		metrics:     opts.Metrics,
		auditLogger: opts.AuditLogger,
		logger:      logger,
	}, nil
}

// Context returns the server context
func (sc *ServerContext) Context() context.Context {
	return sc.ctx
}

// Client returns the Graph client shared by all tool calls.
func (sc *ServerContext) Client() *onedrive.Client {
	return sc.client
}

// Metrics returns the metrics recorder, or nil.
func (sc *ServerContext) Metrics() *instrumentation.Metrics {
	return sc.metrics
}

// AuditLogger returns the audit logger, or nil.
func (sc *ServerContext) AuditLogger() *instrumentation.AuditLogger {
	return sc.auditLogger
}

// Logger returns the server logger.
func (sc *ServerContext) Logger() *slog.Logger {
	return sc.logger
}

// IsShutdown returns whether the server has been shutdown
func (sc *ServerContext) IsShutdown() bool {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.shutdown
}

// Shutdown shuts down the server context
func (sc *ServerContext) Shutdown() error {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if sc.shutdown {
		return nil
	}

	sc.shutdown = true
	sc.cancel()
	return nil
}
