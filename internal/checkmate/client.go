package checkmate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// Predictor classifies a headline.
type Predictor interface {
	Predict(ctx context.Context, req PredictionRequest) (PredictionResponse, error)
}

// HealthChecker probes backend availability.
type HealthChecker interface {
	HealthCheck(ctx context.Context) (HealthResponse, error)
}

// Ensure Client implements both interfaces at compile time.
var (
	_ Predictor     = (*Client)(nil)
	_ HealthChecker = (*Client)(nil)
)

// Client talks to the CheckMate HTTP API. It never retries and sets no
// timeout of its own; callers bound each call through ctx.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
}

const (
	// DefaultBaseURL is the local development backend.
	DefaultBaseURL = "http://localhost:8000"

	defaultUserAgent = "checkmate/0.1"
	maxErrorBody     = 64 << 10
)

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.http = h
		}
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua = strings.TrimSpace(ua); ua != "" {
			c.userAgent = ua
		}
	}
}

// NewClient builds a Client for the given base URL. The URL is resolved once
// and never changes afterwards.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	base, err := parseBaseURL(baseURL)
	if err != nil {
		return nil, err
	}
	c := &Client{
		baseURL:   base,
		http:      &http.Client{},
		userAgent: defaultUserAgent,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the resolved backend base URL.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// Predict sends one classification request.
func (c *Client) Predict(ctx context.Context, req PredictionRequest) (PredictionResponse, error) {
	if c == nil {
		return PredictionResponse{}, &APIError{Kind: KindTransport, Detail: "client is nil"}
	}
	body, err := json.Marshal(req)
	if err != nil {
		return PredictionResponse{}, &APIError{Kind: KindTransport, Detail: fmt.Sprintf("encode request: %v", err), Err: err}
	}

	resp, err := c.do(ctx, http.MethodPost, "predict", bytes.NewReader(body))
	if err != nil {
		return PredictionResponse{}, err
	}
	defer func() { _ = resp.Body.Close() }()

	if !isSuccess(resp.StatusCode) {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		detail := parseDetail(raw)
		if detail == "" {
			detail = fmt.Sprintf("HTTP error! status: %d", resp.StatusCode)
		}
		return PredictionResponse{}, &APIError{Kind: KindProtocol, StatusCode: resp.StatusCode, Detail: detail}
	}

	var payload PredictionResponse
	if err := decode(resp.Body, &payload); err != nil {
		return PredictionResponse{}, err
	}
	return payload, nil
}

// HealthCheck probes the backend root endpoint.
func (c *Client) HealthCheck(ctx context.Context) (HealthResponse, error) {
	if c == nil {
		return HealthResponse{}, &APIError{Kind: KindTransport, Detail: "client is nil"}
	}
	resp, err := c.do(ctx, http.MethodGet, "", nil)
	if err != nil {
		return HealthResponse{}, err
	}
	defer func() { _ = resp.Body.Close() }()

	if !isSuccess(resp.StatusCode) {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxErrorBody))
		return HealthResponse{}, &APIError{
			Kind:       KindProtocol,
			StatusCode: resp.StatusCode,
			Detail:     fmt.Sprintf("Health check failed: %d", resp.StatusCode),
		}
	}

	var payload HealthResponse
	if err := decode(resp.Body, &payload); err != nil {
		return HealthResponse{}, err
	}
	return payload, nil
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path), body)
	if err != nil {
		return nil, &APIError{Kind: KindTransport, Detail: fmt.Sprintf("create request: %v", err), Err: err}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-ID", requestIDOrNew(ctx))
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &APIError{Kind: KindTransport, Detail: err.Error(), Err: err}
	}
	return resp, nil
}

// endpoint joins path onto the base URL the way the backend expects:
// "{base}/{path}", with the root endpoint being "{base}/".
func (c *Client) endpoint(path string) string {
	u := *c.baseURL
	u.Path = c.baseURL.Path + "/" + strings.TrimPrefix(path, "/")
	u.RawPath = ""
	return u.String()
}

func decode(r io.Reader, dest any) error {
	if err := json.NewDecoder(r).Decode(dest); err != nil {
		wrapped := fmt.Errorf("decode response: %w", err)
		return &APIError{Kind: KindDecode, Detail: wrapped.Error(), Err: wrapped}
	}
	return nil
}

func isSuccess(code int) bool {
	return code >= 200 && code < 300
}

func parseBaseURL(raw string) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		trimmed = DefaultBaseURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api url %q: %w", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("parse api url %q: unsupported scheme %q", raw, u.Scheme)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("parse api url %q: missing host", raw)
	}
	u.Path = strings.TrimRight(u.Path, "/")
	u.RawPath = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
