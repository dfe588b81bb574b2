package instrumentation

import (
	"strings"
	"testing"
	"time"
)

var instrumentationEnvVars = []string{
	"INSTRUMENTATION_ENABLED",
	"OTEL_SERVICE_NAME",
	"OTEL_SERVICE_INSTANCE_ID",
	"METRICS_EXPORTER",
	"METRICS_EXPORT_INTERVAL",
	"METRICS_DETAILED_LABELS",
	"TRACING_EXPORTER",
	"OTEL_TRACES_SAMPLER_ARG",
	"OTEL_EXPORTER_OTLP_ENDPOINT",
	"OTEL_EXPORTER_OTLP_INSECURE",
	"AUDIT_LOGGING_ENABLED",
	"AUDIT_LOGGING_INCLUDE_CALLER",
}

// clearInstrumentationEnv blanks the variables ConfigFromEnv reads; empty
// counts as unset.
func clearInstrumentationEnv(t *testing.T) {
	t.Helper()
	for _, key := range instrumentationEnvVars {
		t.Setenv(key, "")
	}
}

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	if config.Service.Name != "onedrive-mcp" {
		t.Errorf("expected service name 'onedrive-mcp', got %q", config.Service.Name)
	}
	if !config.Enabled {
		t.Error("expected Enabled to be true by default")
	}
	if config.Metrics.Exporter != ExporterPrometheus {
		t.Errorf("expected metrics exporter 'prometheus', got %q", config.Metrics.Exporter)
	}
	if config.Metrics.Interval != DefaultMetricInterval {
		t.Errorf("expected metrics interval %s, got %s", DefaultMetricInterval, config.Metrics.Interval)
	}
	if config.Tracing.Exporter != ExporterNone {
		t.Errorf("expected tracing exporter 'none', got %q", config.Tracing.Exporter)
	}
	if config.Tracing.SamplingRate != 0.1 {
		t.Errorf("expected sampling rate 0.1, got %f", config.Tracing.SamplingRate)
	}
	if !config.AuditLogging.Enabled || config.AuditLogging.IncludeCaller {
		t.Errorf("expected audit logging on without caller hashes, got %+v", config.AuditLogging)
	}
	if err := config.Validate(); err != nil {
		t.Errorf("defaults should validate, got %v", err)
	}
}

func TestConfigFromEnv(t *testing.T) {
	clearInstrumentationEnv(t)
	t.Setenv("OTEL_SERVICE_NAME", "test-service")
	t.Setenv("INSTRUMENTATION_ENABLED", "false")
	t.Setenv("METRICS_EXPORTER", "stdout")
	t.Setenv("METRICS_EXPORT_INTERVAL", "30s")
	t.Setenv("TRACING_EXPORTER", "stdout")
	t.Setenv("OTEL_TRACES_SAMPLER_ARG", "0.5")
	t.Setenv("AUDIT_LOGGING_INCLUDE_CALLER", "true")

	config, err := ConfigFromEnv()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if config.Service.Name != "test-service" {
		t.Errorf("expected service name 'test-service', got %q", config.Service.Name)
	}
	if config.Enabled {
		t.Error("expected Enabled to be false")
	}
	if config.Metrics.Exporter != ExporterStdout || config.Metrics.Interval != 30*time.Second {
		t.Errorf("unexpected metrics config %+v", config.Metrics)
	}
	if config.Tracing.Exporter != ExporterStdout || config.Tracing.SamplingRate != 0.5 {
		t.Errorf("unexpected tracing config %+v", config.Tracing)
	}
	if !config.AuditLogging.IncludeCaller {
		t.Error("expected AuditLogging.IncludeCaller to be true")
	}
	if !config.AuditLogging.Enabled {
		t.Error("expected AuditLogging.Enabled to stay true by default")
	}
}

func TestConfigFromEnv_PodNameOverridesHostname(t *testing.T) {
	clearInstrumentationEnv(t)
	t.Setenv("HOSTNAME", "node-host")
	t.Setenv("K8S_POD_NAME", "onedrive-mcp-7d9f")

	config, err := ConfigFromEnv()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if config.Service.K8sPodName != "onedrive-mcp-7d9f" {
		t.Errorf("expected pod name from K8S_POD_NAME, got %q", config.Service.K8sPodName)
	}
}

func TestConfigFromEnv_Malformed(t *testing.T) {
	clearInstrumentationEnv(t)
	t.Setenv("INSTRUMENTATION_ENABLED", "maybe")
	t.Setenv("OTEL_TRACES_SAMPLER_ARG", "half")
	t.Setenv("METRICS_EXPORT_INTERVAL", "10")

	_, err := ConfigFromEnv()
	if err == nil {
		t.Fatal("expected an error for malformed values")
	}
	for _, key := range []string{"INSTRUMENTATION_ENABLED", "OTEL_TRACES_SAMPLER_ARG", "METRICS_EXPORT_INTERVAL"} {
		if !strings.Contains(err.Error(), key) {
			t.Errorf("expected error to name %s, got %q", key, err)
		}
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*Config)
		errContains []string
	}{
		{
			name:   "defaults",
			mutate: func(*Config) {},
		},
		{
			name: "otlp tracing with endpoint",
			mutate: func(c *Config) {
				c.Tracing.Exporter = ExporterOTLP
				c.OTLP.Endpoint = "localhost:4318"
			},
		},
		{
			name:        "negative sampling rate",
			mutate:      func(c *Config) { c.Tracing.SamplingRate = -0.5 },
			errContains: []string{"sampling rate"},
		},
		{
			name:        "sampling rate above 1",
			mutate:      func(c *Config) { c.Tracing.SamplingRate = 1.5 },
			errContains: []string{"sampling rate"},
		},
		{
			name:        "invalid metrics exporter",
			mutate:      func(c *Config) { c.Metrics.Exporter = "invalid" },
			errContains: []string{"invalid metrics exporter"},
		},
		{
			name:        "invalid tracing exporter",
			mutate:      func(c *Config) { c.Tracing.Exporter = "invalid" },
			errContains: []string{"invalid tracing exporter"},
		},
		{
			name: "push exporter without interval",
			mutate: func(c *Config) {
				c.Metrics.Exporter = ExporterStdout
				c.Metrics.Interval = 0
			},
			errContains: []string{"export interval must be positive"},
		},
		{
			name: "otlp everywhere without endpoint reports both",
			mutate: func(c *Config) {
				c.Metrics.Exporter = ExporterOTLP
				c.Tracing.Exporter = ExporterOTLP
			},
			errContains: []string{"OTLP tracing exporter", "OTLP metrics exporter"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig()
			tt.mutate(&config)

			err := config.Validate()
			if len(tt.errContains) == 0 {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			for _, want := range tt.errContains {
				if !strings.Contains(err.Error(), want) {
					t.Errorf("expected error containing %q, got %q", want, err.Error())
				}
			}
		})
	}
}
