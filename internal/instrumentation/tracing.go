package instrumentation

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracerName is the default tracer name for the onedrive-mcp server.
const TracerName = "github.com/teemow/onedrive-mcp"

// Span attribute keys.
const (
	// SpanAttrTool is the MCP tool name.
	SpanAttrTool = "mcp.tool"

	// SpanAttrOutcome is the tool outcome (success, skipped, error, unauthenticated).
	SpanAttrOutcome = "mcp.tool.outcome"

	// SpanAttrCaller is the caller's token hash, never the token.
	SpanAttrCaller = "mcp.caller"

	// SpanAttrOperation is the Graph operation.
	SpanAttrOperation = "graph.operation"

	// SpanAttrMethod is the HTTP method of a Graph request.
	SpanAttrMethod = "graph.method"

	// SpanAttrStatusCode is the HTTP status returned by Graph.
	SpanAttrStatusCode = "graph.status_code"
)

// SpanAttributeBuilder collects tool span attributes. Empty values are skipped.
type SpanAttributeBuilder struct {
	attrs []attribute.KeyValue
}

// NewSpanAttributeBuilder creates a new SpanAttributeBuilder.
func NewSpanAttributeBuilder() *SpanAttributeBuilder {
	return &SpanAttributeBuilder{
		attrs: make([]attribute.KeyValue, 0, 2),
	}
}

// WithOperation adds the Graph operation the tool maps to.
func (b *SpanAttributeBuilder) WithOperation(operation string) *SpanAttributeBuilder {
	if operation != "" {
		b.attrs = append(b.attrs, attribute.String(SpanAttrOperation, operation))
	}
	return b
}

// WithCaller adds the caller hash attribute.
func (b *SpanAttributeBuilder) WithCaller(caller string) *SpanAttributeBuilder {
	if caller != "" {
		b.attrs = append(b.attrs, attribute.String(SpanAttrCaller, caller))
	}
	return b
}

// Build returns the constructed attributes.
func (b *SpanAttributeBuilder) Build() []attribute.KeyValue {
	return b.attrs
}

func tracer() trace.Tracer {
	return otel.GetTracerProvider().Tracer(TracerName)
}

// StartToolSpan starts the server span "tool.<name>" for one MCP tool call.
// The caller ends it after RecordToolOutcome.
func StartToolSpan(ctx context.Context, toolName string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	allAttrs := make([]attribute.KeyValue, 0, len(attrs)+1)
	allAttrs = append(allAttrs, attribute.String(SpanAttrTool, toolName))
	allAttrs = append(allAttrs, attrs...)

	return tracer().Start(ctx, "tool."+toolName,
		trace.WithAttributes(allAttrs...),
		trace.WithSpanKind(trace.SpanKindServer),
	)
}

// RecordToolOutcome sets the outcome of a tool call on its span. statusCode
// is the Graph status of a remote error, or 0. A non-nil err marks the span
// failed.
func RecordToolOutcome(span trace.Span, outcome string, statusCode int, err error) {
	span.SetAttributes(attribute.String(SpanAttrOutcome, outcome))
	if statusCode > 0 {
		span.SetAttributes(attribute.Int(SpanAttrStatusCode, statusCode))
	}
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
	} else {
		SetSpanSuccess(span)
	}
}

// StartGraphSpan starts the client span "graph.<operation>" around one Graph
// request.
func StartGraphSpan(ctx context.Context, operation, method string) (context.Context, trace.Span) {
	return tracer().Start(ctx, "graph."+operation,
		trace.WithAttributes(
			attribute.String(SpanAttrOperation, operation),
			attribute.String(SpanAttrMethod, method),
		),
		trace.WithSpanKind(trace.SpanKindClient),
	)
}

// RecordGraphResponse sets the Graph status on span. Anything outside 2xx is
// an error.
func RecordGraphResponse(span trace.Span, statusCode int) {
	span.SetAttributes(attribute.Int(SpanAttrStatusCode, statusCode))
	if statusCode < 200 || statusCode > 299 {
		span.SetStatus(codes.Error, fmt.Sprintf("graph returned %d", statusCode))
		return
	}
	SetSpanSuccess(span)
}

// SetSpanError records an error on the span and sets the status to error.
func SetSpanError(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
}

// SetSpanSuccess sets the span status to OK.
func SetSpanSuccess(span trace.Span) {
	span.SetStatus(codes.Ok, "")
}
