package serviceclient

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/getmockd/pactkit/pkg/logging"
)

// Protocol header names.
const (
	HeaderMockService         = "X-Pact-Mock-Service"
	HeaderConsumer            = "X-Pact-Consumer"
	HeaderProvider            = "X-Pact-Provider"
	HeaderMockServiceLocation = "X-Pact-Mock-Service-Location"
)

// DefaultTimeout is the HTTP timeout used when none is configured.
const DefaultTimeout = 30 * time.Second

// ErrMissingLocation is returned when the control server answers without a
// mock-service location.
var ErrMissingLocation = errors.New("control server returned no mock service location")

// StatusError is returned when a service answers with an unexpected status.
type StatusError struct {
	Op         string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("%s: status %d: %s", e.Op, e.StatusCode, e.Body)
	}
	return fmt.Sprintf("%s: status %d", e.Op, e.StatusCode)
}

// Option configures a client.
type Option func(*base)

// WithTimeout sets the HTTP timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(b *base) {
		b.httpClient.Timeout = timeout
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(b *base) {
		b.httpClient = c
	}
}

// WithLogger sets the logger for request tracing.
func WithLogger(logger *slog.Logger) Option {
	return func(b *base) {
		if logger != nil {
			b.log = logger
		}
	}
}

// base holds what both clients share.
type base struct {
	baseURL    string
	httpClient *http.Client
	log        *slog.Logger
}

func newBase(baseURL string, opts []Option) base {
	b := base{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		log: logging.Nop(),
	}
	for _, opt := range opts {
		opt(&b)
	}
	return b
}

// BaseURL returns the service address.
func (b *base) BaseURL() string {
	return b.baseURL
}

func (b *base) do(ctx context.Context, method, path string, headers map[string]string, body []byte) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, b.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	b.log.Debug("pact request", "method", method, "url", req.URL.String())
	resp, err := b.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	b.log.Debug("pact response", "method", method, "url", req.URL.String(), "status", resp.StatusCode)
	return resp, nil
}

func (b *base) statusError(op string, resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	return &StatusError{
		Op:         op,
		StatusCode: resp.StatusCode,
		Body:       strings.TrimSpace(string(body)),
	}
}

func success(status int) bool {
	return status >= 200 && status < 300
}

// drain discards the rest of a response body so the connection can be reused.
func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
}
