package instrumentation

import (
	"context"
	"testing"
	"time"
)

func newTestMetrics(t *testing.T, detailed bool) *Metrics {
	t.Helper()
	config := testConfig(ExporterPrometheus, ExporterNone)
	config.Metrics.DetailedLabels = detailed
	return newTestProvider(t, config).Metrics()
}

func TestMetrics_RecordHTTPRequest(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	metrics := newTestMetrics(t, false)
	if metrics == nil {
		t.Fatal("expected metrics to be non-nil")
	}

	// Should not panic
	metrics.RecordHTTPRequest(ctx, "GET", "/mcp", 200, 100*time.Millisecond)
	metrics.RecordHTTPRequest(ctx, "POST", "/mcp", 500, 50*time.Millisecond)
}

func TestMetrics_RecordGraphOperation(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	metrics := newTestMetrics(t, false)

	// Should not panic
	metrics.RecordGraphOperation(ctx, OperationListChildren, 200, 200*time.Millisecond)
	metrics.RecordGraphOperation(ctx, OperationDelete, 204, 50*time.Millisecond)
	metrics.RecordGraphOperation(ctx, OperationRename, 409, 80*time.Millisecond)
	metrics.RecordGraphOperation(ctx, OperationGetItem, 0, 10*time.Millisecond)
}

func TestMetrics_GraphInFlight(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	metrics := newTestMetrics(t, false)

	// Should not panic
	metrics.IncrementGraphInFlight(ctx)
	metrics.IncrementGraphInFlight(ctx)
	metrics.DecrementGraphInFlight(ctx)
}

func TestMetrics_RecordCredentialScope(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	metrics := newTestMetrics(t, false)

	// Should not panic
	metrics.RecordCredentialScope(ctx, ScopeAuthenticated)
	metrics.RecordCredentialScope(ctx, ScopeAnonymous)
}

func TestMetrics_RecordToolInvocation(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	metrics := newTestMetrics(t, false)

	// Should not panic
	metrics.RecordToolInvocation(ctx, "onedrive_list_root_files_folders", StatusSuccess, 100*time.Millisecond)
	metrics.RecordToolInvocation(ctx, "onedrive_create_file", StatusSkipped, 500*time.Millisecond)
	metrics.RecordToolInvocation(ctx, "onedrive_delete_item", StatusUnauthenticated, time.Millisecond)
}

func TestMetrics_RecordToolInvocationWithCaller(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Caller is ignored without detailed labels
	metrics := newTestMetrics(t, false)
	metrics.RecordToolInvocationWithCaller(ctx, "onedrive_rename_item", StatusSuccess, "3f2a9c1e", 100*time.Millisecond)
}

func TestMetrics_RecordToolInvocationWithCaller_DetailedLabels(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	metrics := newTestMetrics(t, true)
	metrics.RecordToolInvocationWithCaller(ctx, "onedrive_rename_item", StatusSuccess, "3f2a9c1e", 100*time.Millisecond)
}

func TestMetrics_NoOp_WhenDisabled(t *testing.T) {
	ctx := context.Background()

	config := testConfig(ExporterPrometheus, ExporterNone)
	config.Enabled = false
	provider := newTestProvider(t, config)

	metrics := provider.Metrics()
	if metrics == nil {
		t.Fatal("expected metrics to be non-nil even when disabled")
	}

	// All these should not panic even with nil underlying metrics
	metrics.RecordHTTPRequest(ctx, "GET", "/mcp", 200, 100*time.Millisecond)
	metrics.RecordGraphOperation(ctx, OperationListChildren, 200, 200*time.Millisecond)
	metrics.IncrementGraphInFlight(ctx)
	metrics.DecrementGraphInFlight(ctx)
	metrics.RecordCredentialScope(ctx, ScopeAnonymous)
	metrics.RecordToolInvocation(ctx, "test_tool", StatusSuccess, 100*time.Millisecond)
	metrics.RecordToolInvocationWithCaller(ctx, "test_tool", StatusSuccess, "3f2a9c1e", 100*time.Millisecond)
}

func TestMetrics_NilReceiver(t *testing.T) {
	var metrics *Metrics
	ctx := context.Background()

	// Should not panic
	metrics.RecordGraphOperation(ctx, OperationMove, 200, time.Millisecond)
	metrics.RecordToolInvocation(ctx, "test_tool", StatusError, time.Millisecond)
}
