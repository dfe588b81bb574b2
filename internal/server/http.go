package server

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/onedrive-mcp/internal/credential"
	"github.com/teemow/onedrive-mcp/internal/logging"
)

// Transport names accepted by the serve command.
const (
	TransportStdio          = "stdio"
	TransportSSE            = "sse"
	TransportStreamableHTTP = "streamable-http"
)

const (
	// DefaultHTTPAddr is the default listen address for HTTP transports.
	DefaultHTTPAddr = ":5000"

	// DefaultReadHeaderTimeout bounds how long a client may take to send headers.
	DefaultReadHeaderTimeout = 10 * time.Second

	// DefaultIdleTimeout closes idle keep-alive connections.
	DefaultIdleTimeout = 120 * time.Second
)

// HTTPServerConfig configures the MCP HTTP listener.
type HTTPServerConfig struct {
	// Addr is the listen address (e.g., ":5000").
	Addr string

	// Transport is TransportSSE or TransportStreamableHTTP.
	Transport string

	// JSONResponse makes streamable HTTP answer with plain JSON bodies
	// instead of opening event streams.
	JSONResponse bool

	// TokenHeader is the request header carrying the raw bearer token.
	// Defaults to credential.DefaultHeader.
	TokenHeader string
}

// HTTPServer serves the MCP server over SSE or streamable HTTP, together with
// the health endpoints. It never validates tokens: the raw header value is
// copied into the request context and each tool call opens its own
// credential scope from it.
type HTTPServer struct {
	mcpServer *mcpserver.MCPServer
	sc        *ServerContext
	config    HTTPServerConfig
	health    *HealthChecker
	logger    *logging.SlogAdapter

	mu         sync.Mutex
	httpServer *http.Server
}

// NewHTTPServer creates an HTTP server for the given MCP server.
func NewHTTPServer(mcpServer *mcpserver.MCPServer, sc *ServerContext, config HTTPServerConfig) (*HTTPServer, error) {
	if mcpServer == nil {
		return nil, fmt.Errorf("mcp server is required")
	}
	if sc == nil {
		return nil, fmt.Errorf("server context is required")
	}
	switch config.Transport {
	case TransportSSE, TransportStreamableHTTP:
	default:
		return nil, fmt.Errorf("unsupported server type: %s", config.Transport)
	}
	if config.Addr == "" {
		config.Addr = DefaultHTTPAddr
	}
	if config.TokenHeader == "" {
		config.TokenHeader = credential.DefaultHeader
	}

	return &HTTPServer{
		mcpServer: mcpServer,
		sc:        sc,
		config:    config,
		health:    NewHealthChecker(sc),
		logger:    logging.NewSlogAdapter(sc.Logger()).WithComponent(config.Transport),
	}, nil
}

// Health returns the health checker backing /healthz and /readyz.
func (s *HTTPServer) Health() *HealthChecker {
	return s.health
}

// Addr returns the configured listen address.
func (s *HTTPServer) Addr() string {
	return s.config.Addr
}

// Handler builds the routed handler: MCP endpoints, health endpoints and the
// request metrics middleware.
func (s *HTTPServer) Handler() http.Handler {
	mux := http.NewServeMux()
	contextFunc := credential.HTTPContextFunc(s.config.TokenHeader)

	switch s.config.Transport {
	case TransportSSE:
		sseServer := mcpserver.NewSSEServer(s.mcpServer,
			mcpserver.WithSSEEndpoint("/sse"),
			mcpserver.WithMessageEndpoint("/message"),
			mcpserver.WithSSEContextFunc(contextFunc),
		)
		mux.Handle("/sse", sseServer)
		mux.Handle("/message", sseServer)

	case TransportStreamableHTTP:
		opts := []mcpserver.StreamableHTTPOption{
			mcpserver.WithEndpointPath("/mcp"),
			mcpserver.WithHTTPContextFunc(contextFunc),
			mcpserver.WithLogger(s.logger),
		}
		if s.config.JSONResponse {
			opts = append(opts, mcpserver.WithDisableStreaming(true))
		}
		mux.Handle("/mcp", mcpserver.NewStreamableHTTPServer(s.mcpServer, opts...))
	}

	s.health.RegisterHealthEndpoints(mux)

	return metricsMiddleware(s.sc.Metrics(), mux)
}

// Start listens on the configured address and blocks until the server stops.
func (s *HTTPServer) Start() error {
	srv := &http.Server{
		Addr:              s.config.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: DefaultReadHeaderTimeout,
		IdleTimeout:       DefaultIdleTimeout,
	}

	s.mu.Lock()
	s.httpServer = srv
	s.mu.Unlock()

	s.logger.Info("starting MCP HTTP server", "addr", s.config.Addr, "transport", s.config.Transport)
	return srv.ListenAndServe()
}

// Shutdown marks the server not ready and drains in-flight requests.
func (s *HTTPServer) Shutdown(ctx context.Context) error {
	s.health.SetReady(false)

	s.mu.Lock()
	srv := s.httpServer
	s.mu.Unlock()

	if srv == nil {
		return nil
	}
	s.logger.Info("shutting down MCP HTTP server")
	return srv.Shutdown(ctx)
}
