// Package rest posts JSON to an endpoint and hands the decoded reply to the
// caller. Failures never surface as Go errors: every network, status or
// decoding failure becomes a Result whose Err holds a human-readable
// message, and the callback form delivers it as {"error": message}.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/vango-dev/pagekit/pkg/middleware"
)

// Result is the outcome of one exchange: either the decoded JSON value or
// an error message.
type Result struct {
	// Value is the decoded response body. Objects decode to
	// map[string]any and numbers to float64.
	Value any

	// Err is the failure message, empty on success.
	Err string

	// Cause is the underlying error, nil on success.
	Cause error
}

// Ok reports whether the exchange succeeded.
func (r Result) Ok() bool { return r.Err == "" }

// Payload returns the value delivered to callbacks: Value on success,
// otherwise map[string]any{"error": Err}.
func (r Result) Payload() any {
	if r.Ok() {
		return r.Value
	}
	return map[string]any{"error": r.Err}
}

func failure(err error) Result {
	return Result{Err: "Error: " + err.Error(), Cause: err}
}

// StatusError reports a response outside the 2xx range.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP Status %d", e.StatusCode)
}

// Client performs JSON POST exchanges.
type Client struct {
	httpClient *http.Client
	logger     *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the underlying HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		cl.httpClient = c
	}
}

// WithTransport sets the round tripper used for requests. It is wrapped
// with middleware.Transport so requests stay traced and counted.
func WithTransport(rt http.RoundTripper) Option {
	return func(cl *Client) {
		cl.httpClient = &http.Client{Transport: middleware.Transport(rt)}
	}
}

// WithLogger sets the logger used to report failed exchanges.
func WithLogger(logger *slog.Logger) Option {
	return func(cl *Client) {
		cl.logger = logger
	}
}

// NewClient creates a Client. The default HTTP client has no timeout;
// cancellation comes only from the caller's context.
func NewClient(opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Transport: middleware.Transport(http.DefaultTransport)},
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Post sends payload as JSON to url and decodes the JSON reply.
func (c *Client) Post(ctx context.Context, url string, payload any) Result {
	res := c.post(ctx, url, payload)
	if !res.Ok() {
		c.logger.Debug("rest exchange failed", "url", url, "error", res.Err)
	}
	return res
}

func (c *Client) post(ctx context.Context, url string, payload any) Result {
	body, err := json.Marshal(payload)
	if err != nil {
		return failure(err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return failure(err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return failure(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		return failure(&StatusError{StatusCode: resp.StatusCode})
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return failure(err)
	}
	var value any
	if err := json.Unmarshal(data, &value); err != nil {
		return failure(err)
	}
	return Result{Value: value}
}

// Go starts the exchange in a goroutine. The returned channel receives
// exactly one Result and is then closed.
func (c *Client) Go(ctx context.Context, url string, payload any) <-chan Result {
	ch := make(chan Result, 1)
	go func() {
		defer close(ch)
		ch <- c.Post(ctx, url, payload)
	}()
	return ch
}

// Rest starts the exchange in a goroutine and calls callback exactly once
// with Result.Payload.
func (c *Client) Rest(ctx context.Context, url string, payload any, callback func(any)) {
	go func() {
		callback(c.Post(ctx, url, payload).Payload())
	}()
}

var defaultClient = NewClient()

// Rest posts payload to url with the default client and calls callback
// exactly once with the decoded reply or {"error": message}.
func Rest(url string, payload any, callback func(any)) {
	defaultClient.Rest(context.Background(), url, payload, callback)
}
