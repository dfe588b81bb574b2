package common

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel/trace"

	"github.com/teemow/onedrive-mcp/internal/instrumentation"
	"github.com/teemow/onedrive-mcp/internal/onedrive"
	"github.com/teemow/onedrive-mcp/internal/server"
)

// ToolHandler executes one tool call against Graph and returns its tagged result.
type ToolHandler func(ctx context.Context, args map[string]any) onedrive.Result

// Outcome maps a Result onto the status label used by metrics and audit logs.
func Outcome(r onedrive.Result) string {
	switch {
	case r.Unauthenticated():
		return instrumentation.StatusUnauthenticated
	case r.Kind == onedrive.KindConflictSkipped:
		return instrumentation.StatusSkipped
	case r.IsError():
		return instrumentation.StatusError
	default:
		return instrumentation.StatusSuccess
	}
}

// InstrumentedToolHandler wraps a tool handler with a tool span, metrics and
// audit logging. operation is the Graph operation the tool maps to and is
// recorded on the audit entry.
//
// Usage:
//
//	h := common.InstrumentedToolHandler("onedrive_delete_item", instrumentation.OperationDelete, sc, handler)
func InstrumentedToolHandler(
	toolName string,
	operation string,
	sc *server.ServerContext,
	handler ToolHandler,
) ToolHandler {
	return func(ctx context.Context, args map[string]any) onedrive.Result {
		caller := CallerFromContext(ctx)

		attrs := instrumentation.NewSpanAttributeBuilder().
			WithOperation(operation).
			WithCaller(caller).
			Build()
		ctx, span := instrumentation.StartToolSpan(ctx, toolName, attrs...)
		defer span.End()

		metrics := sc.Metrics()
		auditLogger := sc.AuditLogger()

		// If no instrumentation configured, just call the handler
		if metrics == nil && auditLogger == nil {
			result := handler(ctx, args)
			finishSpan(span, result)
			return result
		}

		invocation := instrumentation.NewToolInvocation(ctx, toolName, operation, caller)
		result := handler(ctx, args)

		status := Outcome(result)
		var errText string
		switch {
		case result.Err != nil:
			errText = result.Err.Error()
		case result.Kind == onedrive.KindRemoteError:
			errText = result.Status
		}
		invocation.Finish(status, remoteStatusCode(result), errText)
		finishSpan(span, result)

		metrics.RecordToolInvocationWithCaller(ctx, toolName, status, caller, invocation.Duration)
		auditLogger.LogToolInvocation(ctx, invocation)

		return result
	}
}

// remoteStatusCode is the Graph status of a remote error, otherwise 0.
func remoteStatusCode(result onedrive.Result) int {
	if result.Kind == onedrive.KindRemoteError {
		return result.Code
	}
	return 0
}

func finishSpan(span trace.Span, result onedrive.Result) {
	var err error
	if result.IsError() && !result.Unauthenticated() {
		err = errors.New(result.Render())
	}
	instrumentation.RecordToolOutcome(span, Outcome(result), remoteStatusCode(result), err)
}
