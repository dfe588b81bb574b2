package cmd

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/teemow/onedrive-mcp/internal/credential"
	"github.com/teemow/onedrive-mcp/internal/logging"
	"github.com/teemow/onedrive-mcp/internal/onedrive"
	"github.com/teemow/onedrive-mcp/internal/server"
)

// MetricsConfig holds configuration for the Prometheus metrics server
type MetricsConfig struct {
	Enabled bool
	Addr    string
}

// ServeConfig is the resolved configuration of the serve command.
type ServeConfig struct {
	Transport          string
	HTTPAddr           string
	JSONResponse       bool
	TokenHeader        string
	GraphBaseURL       string
	MaxConcurrentCalls int64
	Token              string
	LogLevel           string
	LogFormat          string
	Debug              bool
	ReadOnly           bool
	Metrics            MetricsConfig
}

// defaultServeConfig returns the built-in defaults.
func defaultServeConfig() ServeConfig {
	return ServeConfig{
		Transport:          server.TransportStreamableHTTP,
		HTTPAddr:           server.DefaultHTTPAddr,
		TokenHeader:        credential.DefaultHeader,
		GraphBaseURL:       onedrive.DefaultBaseURL,
		MaxConcurrentCalls: onedrive.DefaultMaxConcurrent,
		LogLevel:           "INFO",
		LogFormat:          logging.FormatText,
		Metrics: MetricsConfig{
			Enabled: true,
			Addr:    server.DefaultMetricsAddr,
		},
	}
}

// fileConfig mirrors ServeConfig for the YAML file. Pointers distinguish an
// absent key from a zero value. The access token is deliberately not read
// from files.
type fileConfig struct {
	Transport          *string `yaml:"transport"`
	HTTPAddr           *string `yaml:"http_addr"`
	JSONResponse       *bool   `yaml:"json_response"`
	TokenHeader        *string `yaml:"token_header"`
	GraphBaseURL       *string `yaml:"graph_base_url"`
	MaxConcurrentCalls *int64  `yaml:"max_concurrent_calls"`
	ReadOnly           *bool   `yaml:"read_only"`

	Logging struct {
		Level  *string `yaml:"level"`
		Format *string `yaml:"format"`
		Debug  *bool   `yaml:"debug"`
	} `yaml:"logging"`

	Metrics struct {
		Enabled *bool   `yaml:"enabled"`
		Addr    *string `yaml:"addr"`
	} `yaml:"metrics"`
}

// loadConfigFile reads a YAML config file. ${VAR} references are expanded
// from the environment before parsing.
func loadConfigFile(path string) (*fileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), &fc); err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return &fc, nil
}

func (fc *fileConfig) applyTo(cfg *ServeConfig) {
	setString(&cfg.Transport, fc.Transport)
	setString(&cfg.HTTPAddr, fc.HTTPAddr)
	setBool(&cfg.JSONResponse, fc.JSONResponse)
	setString(&cfg.TokenHeader, fc.TokenHeader)
	setString(&cfg.GraphBaseURL, fc.GraphBaseURL)
	if fc.MaxConcurrentCalls != nil {
		cfg.MaxConcurrentCalls = *fc.MaxConcurrentCalls
	}
	setBool(&cfg.ReadOnly, fc.ReadOnly)
	setString(&cfg.LogLevel, fc.Logging.Level)
	setString(&cfg.LogFormat, fc.Logging.Format)
	setBool(&cfg.Debug, fc.Logging.Debug)
	setBool(&cfg.Metrics.Enabled, fc.Metrics.Enabled)
	setString(&cfg.Metrics.Addr, fc.Metrics.Addr)
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

func setBool(dst *bool, src *bool) {
	if src != nil {
		*dst = *src
	}
}

// applyEnv overlays environment variables. Malformed numeric or boolean
// values are reported rather than silently ignored.
func applyEnv(cfg *ServeConfig) error {
	cfg.Transport = getEnvOrDefault("ONEDRIVE_MCP_TRANSPORT", cfg.Transport)
	if port := os.Getenv("ONEDRIVE_MCP_SERVER_PORT"); port != "" {
		host, _, err := net.SplitHostPort(cfg.HTTPAddr)
		if err != nil {
			host = ""
		}
		cfg.HTTPAddr = net.JoinHostPort(host, port)
	}
	cfg.TokenHeader = getEnvOrDefault("ONEDRIVE_MCP_TOKEN_HEADER", cfg.TokenHeader)
	cfg.GraphBaseURL = getEnvOrDefault("ONEDRIVE_GRAPH_BASE_URL", cfg.GraphBaseURL)
	cfg.Token = getEnvOrDefault("ONEDRIVE_AUTH_TOKEN", cfg.Token)
	cfg.LogLevel = getEnvOrDefault("ONEDRIVE_MCP_LOG_LEVEL", cfg.LogLevel)
	cfg.LogFormat = getEnvOrDefault("ONEDRIVE_MCP_LOG_FORMAT", cfg.LogFormat)
	cfg.Metrics.Addr = getEnvOrDefault("METRICS_ADDR", cfg.Metrics.Addr)

	if v := os.Getenv("ONEDRIVE_MAX_CONCURRENT_CALLS"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid ONEDRIVE_MAX_CONCURRENT_CALLS %q: %w", v, err)
		}
		cfg.MaxConcurrentCalls = n
	}

	bools := []struct {
		key string
		dst *bool
	}{
		{"ONEDRIVE_MCP_JSON_RESPONSE", &cfg.JSONResponse},
		{"ONEDRIVE_MCP_READ_ONLY", &cfg.ReadOnly},
		{"ONEDRIVE_MCP_DEBUG", &cfg.Debug},
		{"METRICS_ENABLED", &cfg.Metrics.Enabled},
	}
	for _, b := range bools {
		v := os.Getenv(b.key)
		if v == "" {
			continue
		}
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q (expected true/false): %w", b.key, v, err)
		}
		*b.dst = parsed
	}
	return nil
}

// applyFlags copies the flags the user set explicitly.
func applyFlags(cmd *cobra.Command, flags ServeConfig, cfg *ServeConfig) {
	changed := cmd.Flags().Changed
	if changed("transport") {
		cfg.Transport = flags.Transport
	}
	if changed("http-addr") {
		cfg.HTTPAddr = flags.HTTPAddr
	}
	if changed("json-response") {
		cfg.JSONResponse = flags.JSONResponse
	}
	if changed("token-header") {
		cfg.TokenHeader = flags.TokenHeader
	}
	if changed("graph-base-url") {
		cfg.GraphBaseURL = flags.GraphBaseURL
	}
	if changed("max-concurrent-calls") {
		cfg.MaxConcurrentCalls = flags.MaxConcurrentCalls
	}
	if changed("token") {
		cfg.Token = flags.Token
	}
	if changed("log-level") {
		cfg.LogLevel = flags.LogLevel
	}
	if changed("log-format") {
		cfg.LogFormat = flags.LogFormat
	}
	if changed("debug") {
		cfg.Debug = flags.Debug
	}
	if changed("read-only") {
		cfg.ReadOnly = flags.ReadOnly
	}
	if changed("metrics-enabled") {
		cfg.Metrics.Enabled = flags.Metrics.Enabled
	}
	if changed("metrics-addr") {
		cfg.Metrics.Addr = flags.Metrics.Addr
	}
}

// resolveServeConfig layers defaults, the config file, the environment and
// explicit flags, in that order.
func resolveServeConfig(cmd *cobra.Command, configPath string, flags ServeConfig) (ServeConfig, error) {
	cfg := defaultServeConfig()

	if configPath != "" {
		fc, err := loadConfigFile(configPath)
		if err != nil {
			return ServeConfig{}, err
		}
		fc.applyTo(&cfg)
	}

	if err := applyEnv(&cfg); err != nil {
		return ServeConfig{}, err
	}
	applyFlags(cmd, flags, &cfg)

	if err := cfg.Validate(); err != nil {
		return ServeConfig{}, err
	}
	return cfg, nil
}

// Validate checks the resolved configuration.
func (c ServeConfig) Validate() error {
	switch c.Transport {
	case server.TransportStdio, server.TransportSSE, server.TransportStreamableHTTP:
	default:
		return fmt.Errorf("unsupported transport type: %s (supported: stdio, sse, streamable-http)", c.Transport)
	}
	if c.MaxConcurrentCalls <= 0 {
		return fmt.Errorf("max concurrent calls must be positive, got %d", c.MaxConcurrentCalls)
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	switch strings.ToLower(c.LogFormat) {
	case logging.FormatText, logging.FormatJSON:
	default:
		return fmt.Errorf("unknown log format %q, must be one of: text, json", c.LogFormat)
	}
	return nil
}

// getEnvOrDefault returns the value of an environment variable or a default value.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
