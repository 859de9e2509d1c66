package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/usman766/directus-crud/internal/cli/auth"
)

// Client is an HTTP client for the Directus REST API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     *auth.TokenStore
	admin      AdminIdentity
	validate   *validator.Validate
	logger     zerolog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger requests are traced to.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// WithAdminIdentity overrides the role treated as administrator.
func WithAdminIdentity(admin AdminIdentity) Option {
	return func(c *Client) { c.admin = admin }
}

// WithTimeout bounds every request. Zero means no timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = timeout }
}

// New creates a new API client for the Directus instance at baseURL.
func New(baseURL string, tokens *auth.TokenStore, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
		tokens:     tokens,
		admin:      DefaultAdmin,
		validate:   validator.New(),
		logger:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetHTTPClient sets a custom HTTP client
func (c *Client) SetHTTPClient(httpClient *http.Client) {
	c.httpClient = httpClient
}

// BaseURL returns the Directus base URL without trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// RequestOptions describe a single call. Body is sent as-is when it is an
// io.Reader and JSON-encoded otherwise. Headers override the defaults.
type RequestOptions struct {
	Method  string
	Body    any
	Headers map[string]string
	Query   url.Values
}

// Request calls the items endpoint (base/items/<endpoint>) with the stored
// token, if any, and decodes the response body into out. A non-2xx
// response is returned as *APIError.
func (c *Client) Request(ctx context.Context, endpoint string, opts *RequestOptions, out any) error {
	token, err := c.tokens.GetToken()
	if err != nil {
		return err
	}
	return c.do(ctx, "/items/"+strings.TrimPrefix(endpoint, "/"), token, opts, out)
}

func (c *Client) do(ctx context.Context, path, token string, opts *RequestOptions, out any) error {
	if opts == nil {
		opts = &RequestOptions{}
	}
	method := opts.Method
	if method == "" {
		method = http.MethodGet
	}

	var body io.Reader
	switch b := opts.Body.(type) {
	case nil:
	case io.Reader:
		body = b
	default:
		jsonData, err := json.Marshal(b)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(jsonData)
	}

	target := c.baseURL + path
	if len(opts.Query) > 0 {
		target += "?" + opts.Query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	requestID := uuid.NewString()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if token != "" {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", token))
	}
	for name, value := range opts.Headers {
		req.Header.Set(name, value)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug().Err(err).
			Str("request_id", requestID).
			Str("method", method).
			Str("path", path).
			Msg("directus request failed")
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	c.logger.Debug().
		Str("request_id", requestID).
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("directus request")

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		// Non-JSON error bodies (proxies, HTML pages) keep only the status
		_ = json.Unmarshal(respBody, apiErr)
		return apiErr
	}

	if out == nil || len(bytes.TrimSpace(respBody)) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
