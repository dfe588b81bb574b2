package drive_tools

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/require"

	"github.com/teemow/onedrive-mcp/internal/credential"
	"github.com/teemow/onedrive-mcp/internal/onedrive"
	"github.com/teemow/onedrive-mcp/internal/server"
)

type seenRequest struct {
	Method string
	Path   string
	Query  string
	Body   string
	Auth   string
}

// graphStub is a Graph double that records requests and answers with handler.
type graphStub struct {
	server *httptest.Server

	mu       sync.Mutex
	requests []seenRequest
}

func newGraphStub(t *testing.T, handler http.HandlerFunc) *graphStub {
	t.Helper()
	g := &graphStub{}
	g.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		g.mu.Lock()
		g.requests = append(g.requests, seenRequest{
			Method: r.Method,
			Path:   r.URL.Path,
			Query:  r.URL.RawQuery,
			Body:   string(body),
			Auth:   r.Header.Get("Authorization"),
		})
		g.mu.Unlock()
		handler(w, r)
	}))
	t.Cleanup(g.server.Close)
	return g
}

func (g *graphStub) Requests() []seenRequest {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]seenRequest(nil), g.requests...)
}

func (g *graphStub) dispatcher(t *testing.T) *Dispatcher {
	t.Helper()
	sc, err := server.NewServerContext(context.Background(), server.Options{
		Client: onedrive.NewClient(onedrive.Options{BaseURL: g.server.URL}),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = sc.Shutdown() })

	d, err := NewDispatcher(sc)
	require.NoError(t, err)
	return d
}

func respond(status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}
}

// withToken mimics the transport: only the raw header value is recorded.
func withToken(token string) context.Context {
	return credential.WithHeaderToken(context.Background(), token)
}

func textOf(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, result)
	require.Len(t, result.Content, 1)
	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected text content, got %T", result.Content[0])
	return text.Text
}
