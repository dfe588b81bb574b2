package instrumentation

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metric attribute keys.
const (
	attrMethod      = "method"
	attrPath        = "path"
	attrStatus      = "status"
	attrStatusClass = "status_class"
	attrOperation   = "operation"
	attrTool        = "tool"
	attrCaller      = "caller"
	attrScope       = "scope"
)

var (
	httpBuckets     = []float64{0.001, 0.01, 0.1, 0.5, 1.0, 2.5, 5.0, 10.0}
	upstreamBuckets = []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0}
)

// timed pairs a counter with a duration histogram recorded under the same
// attributes.
type timed struct {
	total    metric.Int64Counter
	duration metric.Float64Histogram
}

func (t *timed) record(ctx context.Context, d time.Duration, attrs ...attribute.KeyValue) {
	opt := metric.WithAttributes(attrs...)
	t.total.Add(ctx, 1, opt)
	t.duration.Record(ctx, d.Seconds(), opt)
}

// Metrics records the server's OpenTelemetry instruments. The zero value and
// a nil *Metrics are valid and record nothing.
type Metrics struct {
	http  *timed
	graph *timed
	tools *timed

	graphInFlight   metric.Int64UpDownCounter
	credentialScope metric.Int64Counter

	// detailedLabels adds the caller hash to tool metrics
	detailedLabels bool
}

// instrumentBuilder creates instruments on one meter and collects failures.
type instrumentBuilder struct {
	meter metric.Meter
	errs  []error
}

func (b *instrumentBuilder) counter(name, description, unit string) metric.Int64Counter {
	c, err := b.meter.Int64Counter(name, metric.WithDescription(description), metric.WithUnit(unit))
	if err != nil {
		b.errs = append(b.errs, fmt.Errorf("failed to create %s counter: %w", name, err))
	}
	return c
}

func (b *instrumentBuilder) timed(totalName, durationName, what, unit string, buckets []float64) *timed {
	h, err := b.meter.Float64Histogram(durationName,
		metric.WithDescription(what+" duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(buckets...),
	)
	if err != nil {
		b.errs = append(b.errs, fmt.Errorf("failed to create %s histogram: %w", durationName, err))
	}
	return &timed{
		total:    b.counter(totalName, "Total number of "+what+"s", unit),
		duration: h,
	}
}

// NewMetrics creates every instrument on meter. detailedLabels enables the
// high-cardinality caller label on tool metrics.
func NewMetrics(meter metric.Meter, detailedLabels bool) (*Metrics, error) {
	b := &instrumentBuilder{meter: meter}

	m := &Metrics{
		http: b.timed("http_requests_total", "http_request_duration_seconds",
			"HTTP request", "{request}", httpBuckets),
		graph: b.timed("graph_api_operations_total", "graph_api_operation_duration_seconds",
			"Microsoft Graph API operation", "{operation}", upstreamBuckets),
		tools: b.timed("mcp_tool_invocations_total", "mcp_tool_duration_seconds",
			"MCP tool invocation", "{invocation}", upstreamBuckets),
		credentialScope: b.counter("credential_scopes_total", "Total number of per-call credential scopes opened", "{scope}"),
		detailedLabels:  detailedLabels,
	}

	inFlight, err := meter.Int64UpDownCounter("graph_api_in_flight",
		metric.WithDescription("Number of Microsoft Graph requests currently holding an upstream slot"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		b.errs = append(b.errs, fmt.Errorf("failed to create graph_api_in_flight gauge: %w", err))
	}
	m.graphInFlight = inFlight

	if err := errors.Join(b.errs...); err != nil {
		return nil, err
	}
	return m, nil
}

// RecordHTTPRequest records one request to the HTTP transports.
func (m *Metrics) RecordHTTPRequest(ctx context.Context, method, path string, statusCode int, duration time.Duration) {
	if m == nil || m.http == nil {
		return
	}
	m.http.record(ctx, duration,
		attribute.String(attrMethod, method),
		attribute.String(attrPath, path),
		attribute.String(attrStatus, strconv.Itoa(statusCode)),
	)
}

// RecordGraphOperation records one Microsoft Graph request. statusCode is 0
// when the request never got a response; it is reported as a status class.
func (m *Metrics) RecordGraphOperation(ctx context.Context, operation string, statusCode int, duration time.Duration) {
	if m == nil || m.graph == nil {
		return
	}
	m.graph.record(ctx, duration,
		attribute.String(attrOperation, operation),
		attribute.String(attrStatusClass, StatusClass(statusCode)),
	)
}

// IncrementGraphInFlight marks an upstream slot as taken.
func (m *Metrics) IncrementGraphInFlight(ctx context.Context) {
	if m == nil || m.graphInFlight == nil {
		return
	}
	m.graphInFlight.Add(ctx, 1)
}

// DecrementGraphInFlight marks an upstream slot as released.
func (m *Metrics) DecrementGraphInFlight(ctx context.Context) {
	if m == nil || m.graphInFlight == nil {
		return
	}
	m.graphInFlight.Add(ctx, -1)
}

// RecordCredentialScope counts a credential scope opened by the dispatcher.
// scope is ScopeAuthenticated or ScopeAnonymous.
func (m *Metrics) RecordCredentialScope(ctx context.Context, scope string) {
	if m == nil || m.credentialScope == nil {
		return
	}
	m.credentialScope.Add(ctx, 1, metric.WithAttributes(attribute.String(attrScope, scope)))
}

// RecordToolInvocation records a finished tool call without caller identity.
func (m *Metrics) RecordToolInvocation(ctx context.Context, toolName, status string, duration time.Duration) {
	m.RecordToolInvocationWithCaller(ctx, toolName, status, "", duration)
}

// RecordToolInvocationWithCaller records a finished tool call. The caller
// hash becomes a label only with detailed labels enabled.
func (m *Metrics) RecordToolInvocationWithCaller(ctx context.Context, toolName, status, caller string, duration time.Duration) {
	if m == nil || m.tools == nil {
		return
	}
	attrs := []attribute.KeyValue{
		attribute.String(attrTool, toolName),
		attribute.String(attrStatus, status),
	}
	if m.detailedLabels && caller != "" {
		attrs = append(attrs, attribute.String(attrCaller, caller))
	}
	m.tools.record(ctx, duration, attrs...)
}
