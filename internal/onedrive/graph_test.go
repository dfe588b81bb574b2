package onedrive

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/teemow/onedrive-mcp/internal/credential"
)

// recordedRequest is what the fake Graph server saw.
type recordedRequest struct {
	Method      string
	Path        string
	EscapedPath string
	Query       string
	Body        string
	Auth        string
	ContentType string
}

// fakeGraph is an httptest Graph server that records every request.
type fakeGraph struct {
	server *httptest.Server

	mu       sync.Mutex
	requests []recordedRequest
}

func newFakeGraph(t *testing.T, handler func(w http.ResponseWriter, r *http.Request)) *fakeGraph {
	t.Helper()
	fg := &fakeGraph{}
	fg.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		fg.mu.Lock()
		fg.requests = append(fg.requests, recordedRequest{
			Method:      r.Method,
			Path:        r.URL.Path,
			EscapedPath: r.URL.EscapedPath(),
			Query:       r.URL.RawQuery,
			Body:        string(body),
			Auth:        r.Header.Get("Authorization"),
			ContentType: r.Header.Get("Content-Type"),
		})
		fg.mu.Unlock()
		handler(w, r)
	}))
	t.Cleanup(fg.server.Close)
	return fg
}

func (fg *fakeGraph) client(opts ...func(*Options)) *Client {
	o := Options{BaseURL: fg.server.URL}
	for _, fn := range opts {
		fn(&o)
	}
	return NewClient(o)
}

func (fg *fakeGraph) Requests() []recordedRequest {
	fg.mu.Lock()
	defer fg.mu.Unlock()
	return append([]recordedRequest(nil), fg.requests...)
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

func authed(t *testing.T, token string) context.Context {
	t.Helper()
	ctx, release := credential.WithToken(context.Background(), token)
	t.Cleanup(release)
	return ctx
}

func requireOneRequest(t *testing.T, fg *fakeGraph) recordedRequest {
	t.Helper()
	reqs := fg.Requests()
	require.Len(t, reqs, 1)
	return reqs[0]
}
