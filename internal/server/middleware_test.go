package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric/noop"

	"github.com/teemow/onedrive-mcp/internal/instrumentation"
)

func TestPathLabel(t *testing.T) {
	assert.Equal(t, "/mcp", pathLabel("/mcp"))
	assert.Equal(t, "/healthz/detailed", pathLabel("/healthz/detailed"))
	assert.Equal(t, "other", pathLabel("/mcp/../../etc/passwd"))
	assert.Equal(t, "other", pathLabel("/favicon.ico"))
}

func TestStatusRecorder(t *testing.T) {
	rec := httptest.NewRecorder()
	sr := &statusRecorder{ResponseWriter: rec}

	_, err := sr.Write([]byte("hi"))
	require.NoError(t, err)
	sr.WriteHeader(http.StatusTeapot)
	sr.Flush()

	assert.Equal(t, http.StatusOK, sr.status, "first write fixes the status")
	assert.True(t, rec.Flushed)
	assert.Same(t, rec, sr.Unwrap())
}

func TestMetricsMiddleware(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	})

	// nil metrics returns the handler untouched
	assert.NotNil(t, metricsMiddleware(nil, next))

	metrics, err := instrumentation.NewMetrics(noop.NewMeterProvider().Meter("test"), false)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	metricsMiddleware(metrics, next).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/mcp", nil))
	assert.Equal(t, http.StatusAccepted, rec.Code)
}
