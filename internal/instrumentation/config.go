package instrumentation

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds the configuration for OpenTelemetry instrumentation.
type Config struct {
	// Enabled determines if instrumentation is active (default: true).
	// INSTRUMENTATION_ENABLED=false disables metrics, tracing and audit logs.
	Enabled bool

	Service      ServiceConfig
	Metrics      MetricsExportConfig
	Tracing      TracingConfig
	OTLP         OTLPConfig
	AuditLogging AuditLoggingConfig
}

// ServiceConfig describes the service on the OpenTelemetry resource.
type ServiceConfig struct {
	// Name defaults to onedrive-mcp
	Name    string
	Version string

	// InstanceID defaults to the hostname; in Kubernetes this is the pod name
	InstanceID string

	K8sNamespace string
	K8sPodName   string
}

// MetricsExportConfig selects and tunes the metrics exporter.
type MetricsExportConfig struct {
	// Exporter is one of prometheus (default), otlp or stdout
	Exporter string

	// Interval is the push interval of the otlp and stdout exporters.
	// Prometheus is scraped and ignores it.
	Interval time.Duration

	// DetailedLabels adds the caller's token hash to tool metrics. Keep it
	// off in production: every distinct caller becomes a new series.
	DetailedLabels bool
}

// TracingConfig selects the span exporter and sampling.
type TracingConfig struct {
	// Exporter is one of none (default), otlp or stdout
	Exporter string

	// SamplingRate is the parent-based trace id ratio (0.0 to 1.0, default 0.1)
	SamplingRate float64
}

// OTLPConfig addresses an OTLP/HTTP collector.
type OTLPConfig struct {
	// Endpoint is host:port without scheme, e.g. "localhost:4318"
	Endpoint string

	// Insecure disables TLS. Spans carry tool names and caller hashes, so
	// use it only against a local collector.
	Insecure bool
}

// AuditLoggingConfig holds configuration for audit logging.
type AuditLoggingConfig struct {
	// Enabled determines if audit logging is active (default: true)
	Enabled bool

	// IncludeCaller controls whether the caller's token hash is written to
	// tool_executed / tool_failed lines. When false (default) only whether the
	// call was authenticated is logged. The raw token is never logged.
	IncludeCaller bool
}

// DefaultConfig returns the built-in defaults without consulting the
// environment.
func DefaultConfig() Config {
	return Config{
		Enabled: true,
		Service: ServiceConfig{
			Name:    "onedrive-mcp",
			Version: "unknown",
		},
		Metrics: MetricsExportConfig{
			Exporter: ExporterPrometheus,
			Interval: DefaultMetricInterval,
		},
		Tracing: TracingConfig{
			Exporter:     ExporterNone,
			SamplingRate: 0.1,
		},
		AuditLogging: AuditLoggingConfig{
			Enabled: true,
		},
	}
}

// ConfigFromEnv returns DefaultConfig overlaid with the OTEL_*, METRICS_*,
// TRACING_* and AUDIT_LOGGING_* environment variables. Malformed values are
// reported together instead of silently falling back to defaults.
func ConfigFromEnv() (Config, error) {
	c := DefaultConfig()
	env := &envReader{}

	env.boolean("INSTRUMENTATION_ENABLED", &c.Enabled)

	env.str("OTEL_SERVICE_NAME", &c.Service.Name)
	env.str("OTEL_SERVICE_INSTANCE_ID", &c.Service.InstanceID)
	env.str("POD_NAMESPACE", &c.Service.K8sNamespace)
	env.str("K8S_NAMESPACE", &c.Service.K8sNamespace)
	env.str("HOSTNAME", &c.Service.K8sPodName)
	env.str("K8S_POD_NAME", &c.Service.K8sPodName)

	env.str("METRICS_EXPORTER", &c.Metrics.Exporter)
	env.duration("METRICS_EXPORT_INTERVAL", &c.Metrics.Interval)
	env.boolean("METRICS_DETAILED_LABELS", &c.Metrics.DetailedLabels)

	env.str("TRACING_EXPORTER", &c.Tracing.Exporter)
	env.float("OTEL_TRACES_SAMPLER_ARG", &c.Tracing.SamplingRate)

	env.str("OTEL_EXPORTER_OTLP_ENDPOINT", &c.OTLP.Endpoint)
	env.boolean("OTEL_EXPORTER_OTLP_INSECURE", &c.OTLP.Insecure)

	env.boolean("AUDIT_LOGGING_ENABLED", &c.AuditLogging.Enabled)
	env.boolean("AUDIT_LOGGING_INCLUDE_CALLER", &c.AuditLogging.IncludeCaller)

	if err := errors.Join(env.errs...); err != nil {
		return Config{}, fmt.Errorf("invalid instrumentation environment: %w", err)
	}
	return c, nil
}

// Validate checks if the configuration is valid. All problems are reported.
func (c *Config) Validate() error {
	var errs []error

	if c.Tracing.SamplingRate < 0 || c.Tracing.SamplingRate > 1 {
		errs = append(errs, fmt.Errorf("trace sampling rate must be between 0.0 and 1.0, got %f", c.Tracing.SamplingRate))
	}

	switch c.Metrics.Exporter {
	case ExporterPrometheus, ExporterOTLP, ExporterStdout:
	default:
		errs = append(errs, fmt.Errorf("invalid metrics exporter %q, must be one of: prometheus, otlp, stdout", c.Metrics.Exporter))
	}
	if c.Metrics.Exporter != ExporterPrometheus && c.Metrics.Interval <= 0 {
		errs = append(errs, fmt.Errorf("metrics export interval must be positive, got %s", c.Metrics.Interval))
	}

	switch c.Tracing.Exporter {
	case ExporterOTLP, ExporterStdout, ExporterNone:
	default:
		errs = append(errs, fmt.Errorf("invalid tracing exporter %q, must be one of: otlp, stdout, none", c.Tracing.Exporter))
	}

	if c.OTLP.Endpoint == "" {
		if c.Tracing.Exporter == ExporterOTLP {
			errs = append(errs, errors.New("OTLP endpoint is required when using OTLP tracing exporter"))
		}
		if c.Metrics.Exporter == ExporterOTLP {
			errs = append(errs, errors.New("OTLP endpoint is required when using OTLP metrics exporter"))
		}
	}

	return errors.Join(errs...)
}

// envReader copies set environment variables into config fields and
// collects parse errors. Later calls for the same field win.
type envReader struct {
	errs []error
}

func (r *envReader) str(key string, dst *string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func (r *envReader) boolean(key string, dst *bool) {
	v := os.Getenv(key)
	if v == "" {
		return
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		r.errs = append(r.errs, fmt.Errorf("%s=%q: expected true or false", key, v))
		return
	}
	*dst = parsed
}

func (r *envReader) float(key string, dst *float64) {
	v := os.Getenv(key)
	if v == "" {
		return
	}
	parsed, err := strconv.ParseFloat(v, 64)
	if err != nil {
		r.errs = append(r.errs, fmt.Errorf("%s=%q: expected a number", key, v))
		return
	}
	*dst = parsed
}

func (r *envReader) duration(key string, dst *time.Duration) {
	v := os.Getenv(key)
	if v == "" {
		return
	}
	parsed, err := time.ParseDuration(v)
	if err != nil {
		r.errs = append(r.errs, fmt.Errorf("%s=%q: expected a duration such as 30s", key, v))
		return
	}
	*dst = parsed
}

// Constants for metric label values.
const (
	// Status values
	StatusSuccess = "success"
	StatusError   = "error"
	StatusUnknown = "unknown"

	// Outcome values for tool results that are neither plain success nor error
	StatusSkipped         = "skipped"
	StatusUnauthenticated = "unauthenticated"

	// Credential scope values
	ScopeAuthenticated = "authenticated"
	ScopeAnonymous     = "anonymous"

	// Exporter types
	ExporterPrometheus = "prometheus"
	ExporterOTLP       = "otlp"
	ExporterStdout     = "stdout"
	ExporterNone       = "none"

	// DefaultMetricInterval is the push interval of periodic exporters
	DefaultMetricInterval = 10 * time.Second
)
