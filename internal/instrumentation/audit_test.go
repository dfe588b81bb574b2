package instrumentation

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

const (
	testCaller     = "3f2a9c1e"
	testToolRename = "onedrive_rename_item"
	testToolCreate = "onedrive_create_file"
	testToolList   = "onedrive_list_inside_folder"
)

func newBufferedAuditLogger(config AuditLoggingConfig) (*AuditLogger, *bytes.Buffer) {
	var buf bytes.Buffer
	return NewAuditLogger(slog.New(slog.NewTextHandler(&buf, nil)), config), &buf
}

func TestNewToolInvocation(t *testing.T) {
	ti := NewToolInvocation(context.Background(), testToolRename, OperationRename, testCaller)

	if ti.Tool != testToolRename || ti.Operation != OperationRename {
		t.Errorf("unexpected invocation %+v", ti)
	}
	if ti.Started.IsZero() {
		t.Error("Started should not be zero")
	}
	if !ti.Authenticated() {
		t.Error("invocation with caller should be authenticated")
	}
	if ti.TraceID != "" || ti.SpanID != "" {
		t.Errorf("expected no trace ids without a span, got %q/%q", ti.TraceID, ti.SpanID)
	}
}

func TestNewToolInvocation_PicksUpSpan(t *testing.T) {
	recordSpans(t)

	ctx, span := StartToolSpan(context.Background(), testToolList)
	defer span.End()

	ti := NewToolInvocation(ctx, testToolList, OperationListChildren, "")
	if ti.TraceID != span.SpanContext().TraceID().String() {
		t.Errorf("TraceID = %q, want %q", ti.TraceID, span.SpanContext().TraceID())
	}
	if ti.SpanID != span.SpanContext().SpanID().String() {
		t.Errorf("SpanID = %q, want %q", ti.SpanID, span.SpanContext().SpanID())
	}
}

func TestToolInvocation_Failed(t *testing.T) {
	tests := []struct {
		outcome string
		failed  bool
	}{
		{StatusSuccess, false},
		{StatusSkipped, false},
		{StatusError, true},
		{StatusUnauthenticated, true},
	}

	for _, tt := range tests {
		ti := NewToolInvocation(context.Background(), testToolCreate, "", "").Finish(tt.outcome, 0, "")
		if ti.Failed() != tt.failed {
			t.Errorf("%s: Failed() = %v, want %v", tt.outcome, ti.Failed(), tt.failed)
		}
		if ti.Duration < 0 {
			t.Errorf("%s: negative duration", tt.outcome)
		}
	}
}

func TestAuditLogger_Messages(t *testing.T) {
	tests := []struct {
		name    string
		outcome string
		code    int
		errText string
		want    []string
	}{
		{
			name:    "success",
			outcome: StatusSuccess,
			want:    []string{"level=INFO", "msg=tool_executed", "status=success"},
		},
		{
			name:    "conflict skip",
			outcome: StatusSkipped,
			want:    []string{"level=INFO", "msg=tool_skipped", "status=skipped"},
		},
		{
			name:    "remote error",
			outcome: StatusError,
			code:    404,
			errText: "404 Not Found",
			want:    []string{"level=WARN", "msg=tool_failed", "status_code=404", `error="404 Not Found"`},
		},
		{
			name:    "unauthenticated",
			outcome: StatusUnauthenticated,
			want:    []string{"level=WARN", "msg=tool_failed", "status=unauthenticated"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			al, buf := newBufferedAuditLogger(AuditLoggingConfig{Enabled: true})
			ti := NewToolInvocation(context.Background(), testToolCreate, OperationWriteContent, testCaller).
				Finish(tt.outcome, tt.code, tt.errText)
			al.LogToolInvocation(context.Background(), ti)

			out := buf.String()
			for _, want := range tt.want {
				if !strings.Contains(out, want) {
					t.Errorf("output missing %q: %s", want, out)
				}
			}
		})
	}
}

func TestAuditLogger_CallerHashOptIn(t *testing.T) {
	ti := NewToolInvocation(context.Background(), testToolRename, OperationRename, testCaller).Finish(StatusSuccess, 0, "")

	al, buf := newBufferedAuditLogger(AuditLoggingConfig{Enabled: true})
	al.LogToolInvocation(context.Background(), ti)
	if strings.Contains(buf.String(), testCaller) {
		t.Errorf("caller hash should not be logged by default, got %q", buf.String())
	}
	if !strings.Contains(buf.String(), "authenticated=true") {
		t.Errorf("expected authenticated=true, got %q", buf.String())
	}

	al, buf = newBufferedAuditLogger(AuditLoggingConfig{Enabled: true, IncludeCaller: true})
	al.LogToolInvocation(context.Background(), ti)
	if !strings.Contains(buf.String(), "caller="+testCaller) {
		t.Errorf("expected caller hash in output, got %q", buf.String())
	}
}

func TestAuditLogger_OmitsEmptyFields(t *testing.T) {
	al, buf := newBufferedAuditLogger(AuditLoggingConfig{Enabled: true})
	al.LogToolInvocation(context.Background(), NewToolInvocation(context.Background(), testToolList, "", "").Finish(StatusSuccess, 0, ""))

	for _, key := range []string{"operation=", "status_code=", "error=", "trace_id="} {
		if strings.Contains(buf.String(), key) {
			t.Errorf("%s should not be present when empty: %s", key, buf.String())
		}
	}
}

func TestAuditLogger_Disabled(t *testing.T) {
	al, buf := newBufferedAuditLogger(AuditLoggingConfig{Enabled: false})
	al.LogToolInvocation(context.Background(), NewToolInvocation(context.Background(), testToolRename, "", "").Finish(StatusSuccess, 0, ""))

	if buf.Len() != 0 {
		t.Errorf("disabled audit logger wrote output: %q", buf.String())
	}
}

func TestAuditLogger_Nil(t *testing.T) {
	var al *AuditLogger
	// Should not panic
	al.LogToolInvocation(context.Background(), NewToolInvocation(context.Background(), "test", "", "").Finish(StatusSuccess, 0, ""))
}
