// Package instrumentation wires OpenTelemetry metrics and traces, plus
// structured audit logs, into onedrive-mcp.
//
// Three layers are observed. The HTTP transports record requests, each MCP
// tool call gets a server span and an audit line, and each Microsoft Graph
// request gets a client span with otelhttp transport spans underneath.
// Callers appear only as a short token hash, and only when
// METRICS_DETAILED_LABELS or AUDIT_LOGGING_INCLUDE_CALLER ask for it.
//
// # Metrics
//
//   - http_requests_total, http_request_duration_seconds
//   - graph_api_operations_total, graph_api_operation_duration_seconds,
//     graph_api_in_flight
//   - credential_scopes_total (authenticated or anonymous)
//   - mcp_tool_invocations_total, mcp_tool_duration_seconds
//
// Tool status labels are success, skipped, error and unauthenticated.
//
// # Configuration
//
// ConfigFromEnv reads:
//
//	INSTRUMENTATION_ENABLED        true
//	METRICS_EXPORTER               prometheus | otlp | stdout
//	METRICS_EXPORT_INTERVAL        10s (otlp and stdout only)
//	METRICS_DETAILED_LABELS        false
//	TRACING_EXPORTER               none | otlp | stdout
//	OTEL_TRACES_SAMPLER_ARG        0.1
//	OTEL_EXPORTER_OTLP_ENDPOINT    host:port
//	OTEL_EXPORTER_OTLP_INSECURE    false
//	OTEL_SERVICE_NAME              onedrive-mcp
//	AUDIT_LOGGING_ENABLED          true
//	AUDIT_LOGGING_INCLUDE_CALLER   false
//
// A malformed value is an error rather than a silent default.
//
//	cfg, err := instrumentation.ConfigFromEnv()
//	if err != nil {
//		return err
//	}
//	provider, err := instrumentation.NewProvider(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	defer provider.Shutdown(ctx)
package instrumentation
