// Package backend wraps every server-side call to the backend API. Pages are
// rendered outside the browser's cookie jar, so the proxy forwards the
// incoming request's cookies and the backend sees the original identity.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"glimpse/internal/platform/metrics"
	dErrors "glimpse/pkg/domain-errors"
	"glimpse/pkg/platform/circuit"
)

// UpstreamError is the typed failure for non-2xx backend responses.
type UpstreamError struct {
	Status int
	Detail string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("backend returned status %d: %s", e.Status, e.Detail)
}

// Options tunes a single proxied request.
type Options struct {
	// Body is JSON-encoded when non-nil.
	Body any
	// Header entries are merged over the defaults. A caller-supplied Cookie
	// header is kept first; ambient cookies are appended after it.
	Header http.Header
	// From is the incoming browser request whose cookies are forwarded.
	From *http.Request
	// Route is the low-cardinality metric label; defaults to the path.
	Route string
}

// Client proxies JSON requests to the backend API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
	metrics    *metrics.Metrics
	tracer     trace.Tracer
	breaker    *circuit.Breaker
}

// NewClient builds a backend proxy for the given base URL.
func NewClient(baseURL string, logger *slog.Logger, m *metrics.Metrics) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger:  logger,
		metrics: m,
		tracer:  otel.Tracer("glimpse/backend"),
		breaker: circuit.New("backend", circuit.WithFailureThreshold(5), circuit.WithSuccessThreshold(2)),
	}
}

// Do issues a proxied request and returns the raw JSON body. Non-2xx
// responses yield an *UpstreamError wrapped with CodeUpstream; callers are
// expected to catch and degrade rather than surface transport failures to
// rendered pages.
func (c *Client) Do(ctx context.Context, method, path string, opts Options) (json.RawMessage, error) {
	route := opts.Route
	if route == "" {
		route = path
	}

	ctx, span := c.tracer.Start(ctx, "backend.request",
		trace.WithAttributes(
			attribute.String("http.method", method),
			attribute.String("http.route", route),
		))
	defer span.End()

	if c.breaker.IsOpen() {
		c.metrics.UpstreamErrors.WithLabelValues(method, route).Inc()
		return nil, dErrors.New(dErrors.CodeUpstream, "backend unavailable")
	}

	req, err := c.newRequest(ctx, method, path, opts)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	c.metrics.UpstreamDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
	if err != nil {
		c.metrics.UpstreamErrors.WithLabelValues(method, route).Inc()
		c.recordFailure(ctx)
		return nil, dErrors.Wrap(err, dErrors.CodeUpstream, "backend unreachable")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.metrics.UpstreamErrors.WithLabelValues(method, route).Inc()
		return nil, dErrors.Wrap(err, dErrors.CodeUpstream, "failed to read backend response")
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.metrics.UpstreamErrors.WithLabelValues(method, route).Inc()
		// 4xx is the backend answering, not the backend failing.
		if resp.StatusCode >= 500 {
			c.recordFailure(ctx)
		} else {
			c.recordSuccess(ctx)
		}
		upstream := &UpstreamError{Status: resp.StatusCode, Detail: detailFrom(body)}
		return nil, dErrors.Wrap(upstream, dErrors.CodeUpstream, upstream.Detail)
	}

	c.recordSuccess(ctx)
	return body, nil
}

func (c *Client) recordFailure(ctx context.Context) {
	if _, change := c.breaker.RecordFailure(); change.Opened {
		c.logger.WarnContext(ctx, "circuit opened", "breaker", c.breaker.Name())
	}
}

func (c *Client) recordSuccess(ctx context.Context) {
	if _, change := c.breaker.RecordSuccess(); change.Closed {
		c.logger.InfoContext(ctx, "circuit closed", "breaker", c.breaker.Name())
	}
}

// GetJSON issues a GET and decodes the response into dst.
func (c *Client) GetJSON(ctx context.Context, path string, opts Options, dst any) error {
	body, err := c.Do(ctx, http.MethodGet, path, opts)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return dErrors.Wrap(err, dErrors.CodeUpstream, "malformed backend response")
	}
	return nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, opts Options) (*http.Request, error) {
	var body io.Reader
	if opts.Body != nil {
		encoded, err := json.Marshal(opts.Body)
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to encode request body")
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to build backend request")
	}

	req.Header.Set("Content-Type", "application/json")
	for key, values := range opts.Header {
		req.Header.Del(key)
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}

	if cookies := forwardedCookies(opts); cookies != "" {
		req.Header.Set("Cookie", cookies)
	}

	return req, nil
}

// forwardedCookies joins the caller-supplied Cookie header with every cookie
// on the incoming request, caller values first.
func forwardedCookies(opts Options) string {
	parts := make([]string, 0, 4)
	if supplied := opts.Header.Get("Cookie"); supplied != "" {
		parts = append(parts, supplied)
	}
	if opts.From != nil {
		for _, cookie := range opts.From.Cookies() {
			parts = append(parts, cookie.Name+"="+cookie.Value)
		}
	}
	return strings.Join(parts, "; ")
}

func detailFrom(body []byte) string {
	var failure struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(body, &failure); err == nil && failure.Detail != "" {
		return failure.Detail
	}
	return "upstream request failed"
}
