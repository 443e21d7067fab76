package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"go.uber.org/zap"
)

type Connector struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

type ConnectorConfig struct {
	BaseURL string
	Logger  *zap.Logger
}

func NewConnector(config *ConnectorConfig, options ...HttpOpts) *Connector {
	return &Connector{
		baseURL:    config.BaseURL,
		httpClient: newClient(options...),
		logger:     config.Logger,
	}
}

type RequestOpt func(*requestConfig)

type requestConfig struct {
	headers     map[string]string
	overrideURL string
}

func WithHeader(key, value string) RequestOpt {
	return func(c *requestConfig) {
		if c.headers == nil {
			c.headers = make(map[string]string)
		}
		c.headers[key] = value
	}
}

func WithURL(url string) RequestOpt {
	return func(c *requestConfig) {
		c.overrideURL = url
	}
}

func (c *Connector) resolve(endpoint string, opts []RequestOpt) (string, *requestConfig) {
	cfg := &requestConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.overrideURL != "" {
		return cfg.overrideURL, cfg
	}
	return c.baseURL + endpoint, cfg
}

func (c *Connector) newJSONRequest(ctx context.Context, method, endpoint string, reqBody any, accept string, opts []RequestOpt) (*http.Request, error) {
	var (
		body        io.Reader
		contentType string
	)
	if reqBody != nil {
		jsonData, err := json.Marshal(reqBody)
		if err != nil {
			return nil, fmt.Errorf("marshal request body: %w", err)
		}
		body = bytes.NewReader(jsonData)
		contentType = "application/json"
		// Attach payload to context for logging transport
		ctx = context.WithValue(ctx, payloadContextKey{}, jsonData)
	}

	return c.newRequest(ctx, method, endpoint, body, contentType, accept, opts)
}

func (c *Connector) newRequest(ctx context.Context, method, endpoint string, body io.Reader, contentType, accept string, opts []RequestOpt) (*http.Request, error) {
	url, cfg := c.resolve(endpoint, opts)

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", accept)
	for key, value := range cfg.headers {
		req.Header.Set(key, value)
	}

	return req, nil
}

// DoRequest sends a JSON request and decodes a JSON response into respBody
func (c *Connector) DoRequest(ctx context.Context, method, endpoint string, reqBody, respBody any, opts ...RequestOpt) error {
	req, err := c.newJSONRequest(ctx, method, endpoint, reqBody, "application/json", opts)
	if err != nil {
		return err
	}

	return c.do(req, respBody)
}

// DoMultipartRequest sends a multipart body built by prepareBody
func (c *Connector) DoMultipartRequest(ctx context.Context, method, endpoint string, prepareBody func(*multipart.Writer) error, respBody any, opts ...RequestOpt) error {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	if err := prepareBody(writer); err != nil {
		return fmt.Errorf("prepare multipart body: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("close multipart writer: %w", err)
	}

	ctx = context.WithValue(ctx, bodySizeContextKey{}, body.Len())

	req, err := c.newRequest(ctx, method, endpoint, body, writer.FormDataContentType(), "application/json", opts)
	if err != nil {
		return err
	}

	return c.do(req, respBody)
}

// DoStream sends a JSON request and hands back the open response body.
// The caller owns the body and must close it. Non-2xx statuses are
// returned as *HTTPError with the body already drained.
func (c *Connector) DoStream(ctx context.Context, method, endpoint string, reqBody any, opts ...RequestOpt) (io.ReadCloser, error) {
	req, err := c.newJSONRequest(ctx, method, endpoint, reqBody, "*/*", opts)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &NetworkError{Err: err}
	}

	if !successful(resp) {
		defer resp.Body.Close()
		return nil, newHTTPError(resp)
	}

	return resp.Body, nil
}

func (c *Connector) do(req *http.Request, respBody any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	if !successful(resp) {
		return newHTTPError(resp)
	}

	bodyBytes, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return &NetworkError{Err: fmt.Errorf("read response body: %w", err)}
	}

	if respBody != nil && len(bodyBytes) > 0 {
		if err := json.Unmarshal(bodyBytes, respBody); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}

	return nil
}

func successful(resp *http.Response) bool {
	return resp.StatusCode >= 200 && resp.StatusCode < 300
}

const (
	maxResponseBytes  = 32 << 20
	maxErrorBodyBytes = 64 << 10
)

// HTTPError represents an HTTP error response. Message holds at most the
// first 64 KiB of the body.
type HTTPError struct {
	StatusCode int
	Message    string
}

func newHTTPError(resp *http.Response) *HTTPError {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
	return &HTTPError{
		StatusCode: resp.StatusCode,
		Message:    string(body),
	}
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

// NetworkError represents a network-level error (connection, timeout, etc.)
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error: %v", e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}
