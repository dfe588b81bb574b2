package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/teemow/onedrive-mcp/internal/instrumentation"
	"github.com/teemow/onedrive-mcp/internal/logging"
)

const (
	// DefaultMetricsAddr is where /metrics listens unless METRICS_ADDR says otherwise.
	DefaultMetricsAddr = ":9090"

	metricsReadHeaderTimeout = 10 * time.Second
	metricsWriteTimeout      = 10 * time.Second
	metricsIdleTimeout       = 60 * time.Second

	// DefaultShutdownTimeout bounds graceful shutdown of every listener.
	DefaultShutdownTimeout = 30 * time.Second
)

// MetricsServer exposes the Prometheus registry on its own port, away from
// the MCP endpoints that carry caller tokens.
type MetricsServer struct {
	addr     string
	handler  http.Handler
	logger   *slog.Logger
	listener net.Listener
}

// NewMetricsServer returns a server for provider's registry. It fails when
// instrumentation is off or the exporter is not prometheus, since there is
// nothing to scrape.
func NewMetricsServer(addr string, provider *instrumentation.Provider, logger *slog.Logger) (*MetricsServer, error) {
	if provider == nil {
		return nil, errors.New("instrumentation provider is required for metrics server")
	}
	if !provider.Enabled() {
		return nil, errors.New("instrumentation provider is not enabled")
	}
	handler := provider.PrometheusHandler()
	if handler == nil {
		return nil, errors.New("metrics exporter does not serve /metrics; use the prometheus exporter")
	}

	if addr == "" {
		addr = DefaultMetricsAddr
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &MetricsServer{
		addr:    addr,
		handler: handler,
		logger:  logger.With(slog.String(logging.KeyComponent, "metrics")),
	}, nil
}

// Handler routes /metrics and a plain-text /healthz.
func (s *MetricsServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", s.handler)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})
	return mux
}

// Listen binds the address so port conflicts surface before serving starts.
func (s *MetricsServer) Listen() error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("metrics server listen on %s: %w", s.addr, err)
	}
	s.listener = ln
	return nil
}

// Serve answers scrapes until ctx is done, then drains within
// DefaultShutdownTimeout. Listen must have succeeded.
func (s *MetricsServer) Serve(ctx context.Context) error {
	if s.listener == nil {
		return errors.New("metrics server is not listening")
	}
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: metricsReadHeaderTimeout,
		WriteTimeout:      metricsWriteTimeout,
		IdleTimeout:       metricsIdleTimeout,
	}

	served := make(chan error, 1)
	go func() { served <- srv.Serve(s.listener) }()
	s.logger.Info("metrics server listening", slog.String("addr", s.Addr()))

	select {
	case err := <-served:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down metrics server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), DefaultShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// Addr returns the bound address once listening, else the configured one.
func (s *MetricsServer) Addr() string {
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.addr
}
