package onedrive

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/oauth2"
	"golang.org/x/sync/semaphore"

	"github.com/teemow/onedrive-mcp/internal/credential"
	"github.com/teemow/onedrive-mcp/internal/instrumentation"
	"github.com/teemow/onedrive-mcp/internal/logging"
)

const (
	// DefaultBaseURL is the Microsoft Graph v1.0 endpoint
	DefaultBaseURL = "https://graph.microsoft.com/v1.0"

	// DefaultMaxConcurrent bounds in-flight Graph requests across all callers
	DefaultMaxConcurrent = 16
)

// ErrUnauthenticated is returned when no credential is installed for the call.
var ErrUnauthenticated = errors.New("no credential for this call")

// Descriptor is everything needed to address Graph on behalf of one caller.
// It is built per call and never stored.
type Descriptor struct {
	BaseURL string
	Header  http.Header

	token *oauth2.Token
}

// URL joins path (relative to the base URL) and query.
func (d *Descriptor) URL(path string, query url.Values) string {
	u := strings.TrimRight(d.BaseURL, "/") + "/" + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

// Apply copies the descriptor headers onto req and sets its Authorization
// header from the caller's token.
func (d *Descriptor) Apply(req *http.Request) {
	for k, v := range d.Header {
		req.Header[k] = append([]string(nil), v...)
	}
	if d.token != nil {
		d.token.SetAuthHeader(req)
	}
}

// LogValue keeps the caller token out of logs.
func (d *Descriptor) LogValue() slog.Value {
	return slog.GroupValue(slog.String("base_url", d.BaseURL))
}

// Factory builds Descriptors from the credential installed in a context.
type Factory struct {
	baseURL string
}

// NewFactory returns a Factory for baseURL, or DefaultBaseURL when empty.
func NewFactory(baseURL string) *Factory {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Factory{baseURL: strings.TrimRight(baseURL, "/")}
}

// BaseURL returns the Graph endpoint this factory targets.
func (f *Factory) BaseURL() string {
	return f.baseURL
}

// Descriptor returns the descriptor for the caller of ctx. It reports false,
// without error, when no credential is installed.
func (f *Factory) Descriptor(ctx context.Context) (*Descriptor, bool) {
	token, ok := credential.FromContext(ctx)
	if !ok {
		return nil, false
	}

	header := make(http.Header)
	header.Set("Accept", "application/json")

	return &Descriptor{
		BaseURL: f.baseURL,
		Header:  header,
		token:   &oauth2.Token{AccessToken: token, TokenType: "Bearer"},
	}, true
}

// Options configures a Client.
type Options struct {
	// BaseURL overrides DefaultBaseURL
	BaseURL string

	// HTTPClient overrides the default otelhttp-instrumented client
	HTTPClient *http.Client

	// MaxConcurrent bounds in-flight Graph requests (default DefaultMaxConcurrent)
	MaxConcurrent int64

	// Metrics receives Graph operation metrics; may be nil
	Metrics *instrumentation.Metrics

	// Logger defaults to slog.Default()
	Logger *slog.Logger
}

// Client issues Graph requests for the caller installed in each request context.
// It holds no per-caller state and is safe for concurrent use.
type Client struct {
	factory *Factory
	http    *http.Client
	pool    *semaphore.Weighted
	metrics *instrumentation.Metrics
	logger  *slog.Logger

	// newSuffix returns the random part of a synthesized file name
	newSuffix func() string
}

// NewClient creates a Client.
func NewClient(opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)}
	}
	maxConcurrent := opts.MaxConcurrent
	if maxConcurrent <= 0 {
		maxConcurrent = DefaultMaxConcurrent
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		factory:   NewFactory(opts.BaseURL),
		http:      httpClient,
		pool:      semaphore.NewWeighted(maxConcurrent),
		metrics:   opts.Metrics,
		logger:    logger,
		newSuffix: randomSuffix,
	}
}

// Factory returns the descriptor factory used by the client.
func (c *Client) Factory() *Factory {
	return c.factory
}

type graphRequest struct {
	operation   string
	method      string
	path        string
	query       url.Values
	body        []byte
	contentType string
}

type graphResponse struct {
	statusCode int
	body       []byte
}

func (r *graphResponse) ok() bool {
	return r.statusCode >= 200 && r.statusCode < 300
}

// send performs one Graph request. It returns ErrUnauthenticated before any I/O
// when the context carries no credential.
func (c *Client) send(ctx context.Context, gr graphRequest) (*graphResponse, error) {
	desc, ok := c.factory.Descriptor(ctx)
	if !ok {
		return nil, ErrUnauthenticated
	}

	if err := c.pool.Acquire(ctx, 1); err != nil {
		return nil, fmt.Errorf("waiting for upstream slot: %w", err)
	}
	defer c.pool.Release(1)
	c.metrics.IncrementGraphInFlight(ctx)
	defer c.metrics.DecrementGraphInFlight(ctx)

	ctx, span := instrumentation.StartGraphSpan(ctx, gr.operation, gr.method)
	defer span.End()

	var body io.Reader
	if gr.body != nil {
		body = bytes.NewReader(gr.body)
	}
	req, err := http.NewRequestWithContext(ctx, gr.method, desc.URL(gr.path, gr.query), body)
	if err != nil {
		instrumentation.SetSpanError(span, err)
		return nil, fmt.Errorf("failed to build %s request: %w", gr.operation, err)
	}
	desc.Apply(req)
	if gr.contentType != "" {
		req.Header.Set("Content-Type", gr.contentType)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.metrics.RecordGraphOperation(ctx, gr.operation, 0, time.Since(start))
		instrumentation.SetSpanError(span, err)
		c.logger.Warn("graph request failed", logging.Operation(gr.operation), logging.Err(err))
		return nil, fmt.Errorf("%s request failed: %w", gr.operation, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	duration := time.Since(start)
	c.metrics.RecordGraphOperation(ctx, gr.operation, resp.StatusCode, duration)
	instrumentation.RecordGraphResponse(span, resp.StatusCode)
	if err != nil {
		instrumentation.SetSpanError(span, err)
		return nil, fmt.Errorf("failed to read %s response: %w", gr.operation, err)
	}

	c.logger.Debug("graph request",
		logging.Operation(gr.operation),
		slog.String("method", gr.method),
		slog.Int("status_code", resp.StatusCode),
		slog.Duration("duration", duration))

	return &graphResponse{statusCode: resp.StatusCode, body: respBody}, nil
}

// failure converts an error from send into a Result.
func failure(err error) Result {
	if errors.Is(err, ErrUnauthenticated) {
		return Unauthenticated()
	}
	return ClientError("Error:", err)
}

func itemPath(id string) string {
	return "me/drive/items/" + url.PathEscape(id)
}
