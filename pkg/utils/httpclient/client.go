// Package httpclient provides the HTTP client shared by the text-generation
// providers: JSON helpers, optional retries on 5xx, and W3C trace propagation.
package httpclient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"github.com/kart-io/tutor-x/pkg/utils/json"
)

// StatusError is returned when the upstream answers with a 4xx/5xx status.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("request failed with status code %d: %s", e.StatusCode, e.Body)
}

// HTTPStatusCode returns the upstream status code.
func (e *StatusError) HTTPStatusCode() int {
	return e.StatusCode
}

// Client is a wrapper around http.Client with additional functionality.
type Client struct {
	httpClient *http.Client
	maxRetries int
	backoff    time.Duration
}

// NewClient creates a new HTTP client wrapper.
// maxRetries of 0 sends every request exactly once.
func NewClient(timeout time.Duration, maxRetries int) *Client {
	if maxRetries < 0 {
		maxRetries = 0
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		maxRetries: maxRetries,
		backoff:    500 * time.Millisecond,
	}
}

// DoRequest executes an HTTP request, retrying 5xx responses and transport
// errors up to maxRetries times with linear backoff.
func (c *Client) DoRequest(req *http.Request) (*http.Response, error) {
	c.injectTraceContext(req)

	var bodyBytes []byte
	if req.Body != nil && c.maxRetries > 0 {
		b, err := io.ReadAll(req.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to read request body: %w", err)
		}
		_ = req.Body.Close()
		bodyBytes = b
	}

	var lastErr error
	for i := 0; i <= c.maxRetries; i++ {
		if bodyBytes != nil {
			req.Body = io.NopCloser(bytes.NewReader(bodyBytes))
		}

		resp, err := c.httpClient.Do(req)
		if err == nil {
			if resp.StatusCode < 500 || i == c.maxRetries {
				return resp, nil
			}
			_ = resp.Body.Close()
			lastErr = fmt.Errorf("server error, status code %d", resp.StatusCode)
		} else {
			lastErr = err
		}

		if i < c.maxRetries {
			select {
			case <-req.Context().Done():
				return nil, req.Context().Err()
			case <-time.After(time.Duration(i+1) * c.backoff):
			}
		}
	}
	return nil, lastErr
}

// DoJSON executes a request, decodes a 2xx JSON body into v and closes it.
func (c *Client) DoJSON(req *http.Request, v interface{}) error {
	resp, err := c.DoRequest(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &StatusError{StatusCode: resp.StatusCode, Body: string(bodyBytes)}
	}

	if v != nil {
		if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

// PostJSON marshals in, POSTs it to url with the given headers and decodes the reply into out.
func (c *Client) PostJSON(ctx context.Context, url string, headers map[string]string, in, out interface{}) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return c.DoJSON(req, out)
}

// injectTraceContext 将当前 Span 的 W3C Trace Context 注入请求头，无活跃 Span 时为空操作。
func (c *Client) injectTraceContext(req *http.Request) {
	if req == nil {
		return
	}
	propagator := otel.GetTextMapPropagator()
	if propagator == nil {
		return
	}
	propagator.Inject(req.Context(), propagation.HeaderCarrier(req.Header))
}
