package instrumentation

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/trace"
)

// ToolInvocation is one audit record for a finished tool call.
//
// Callers are identified only by a short hash of their bearer token. The
// token itself never reaches this struct.
type ToolInvocation struct {
	Tool      string
	Operation string

	// Caller is the token hash, empty for unauthenticated calls
	Caller string

	// Outcome is one of StatusSuccess, StatusSkipped, StatusError or
	// StatusUnauthenticated
	Outcome string

	// StatusCode is the Graph status of a remote error, otherwise 0
	StatusCode int
	Error      string

	Started  time.Time
	Duration time.Duration

	TraceID string
	SpanID  string
}

// NewToolInvocation starts the clock for a call to tool and picks up the
// trace and span ids of the span in ctx, if any.
func NewToolInvocation(ctx context.Context, tool, operation, caller string) *ToolInvocation {
	ti := &ToolInvocation{
		Tool:      tool,
		Operation: operation,
		Caller:    caller,
		Started:   time.Now(),
	}
	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		ti.TraceID = sc.TraceID().String()
		ti.SpanID = sc.SpanID().String()
	}
	return ti
}

// Finish stops the clock and records how the call ended.
func (ti *ToolInvocation) Finish(outcome string, statusCode int, errText string) *ToolInvocation {
	ti.Duration = time.Since(ti.Started)
	ti.Outcome = outcome
	ti.StatusCode = statusCode
	ti.Error = errText
	return ti
}

// Authenticated reports whether the call carried a credential.
func (ti *ToolInvocation) Authenticated() bool {
	return ti.Caller != ""
}

// Failed reports whether the call ended in an error result. A conflict skip
// is not a failure.
func (ti *ToolInvocation) Failed() bool {
	return ti.Outcome == StatusError || ti.Outcome == StatusUnauthenticated
}

// attrs returns the fields of one audit line. The caller hash replaces the
// authenticated flag when withCaller is set.
func (ti *ToolInvocation) attrs(withCaller bool) []slog.Attr {
	attrs := make([]slog.Attr, 0, 10)
	attrs = append(attrs,
		slog.String("tool", ti.Tool),
		slog.String("status", ti.Outcome),
		slog.Duration("duration", ti.Duration),
	)
	if withCaller {
		attrs = append(attrs, slog.String("caller", ti.Caller))
	} else {
		attrs = append(attrs, slog.Bool("authenticated", ti.Authenticated()))
	}

	if ti.Operation != "" {
		attrs = append(attrs, slog.String("operation", ti.Operation))
	}
	if ti.StatusCode != 0 {
		attrs = append(attrs, slog.Int("status_code", ti.StatusCode))
	}
	if ti.Error != "" {
		attrs = append(attrs, slog.String("error", ti.Error))
	}
	if ti.TraceID != "" {
		attrs = append(attrs, slog.String("trace_id", ti.TraceID), slog.String("span_id", ti.SpanID))
	}
	return attrs
}

// AuditLogger writes one line per tool call: tool_executed, tool_skipped or
// tool_failed. A nil *AuditLogger discards everything.
type AuditLogger struct {
	logger *slog.Logger
	config AuditLoggingConfig
}

// NewAuditLogger returns an audit logger writing to logger, or to
// slog.Default when logger is nil.
func NewAuditLogger(logger *slog.Logger, config AuditLoggingConfig) *AuditLogger {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuditLogger{logger: logger, config: config}
}

// LogToolInvocation writes ti. Failures are logged at WARN.
func (al *AuditLogger) LogToolInvocation(ctx context.Context, ti *ToolInvocation) {
	if al == nil || !al.config.Enabled {
		return
	}

	msg, level := "tool_executed", slog.LevelInfo
	switch {
	case ti.Failed():
		msg, level = "tool_failed", slog.LevelWarn
	case ti.Outcome == StatusSkipped:
		msg = "tool_skipped"
	}
	al.logger.LogAttrs(ctx, level, msg, ti.attrs(al.config.IncludeCaller)...)
}
