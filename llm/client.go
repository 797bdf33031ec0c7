// Package llm provides a provider-agnostic client for remote
// text-generation models, with a shared failure taxonomy so callers can
// distinguish quota exhaustion from transient trouble.
package llm

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// maxResponseSize limits the response body to prevent memory exhaustion.
const maxResponseSize = 4 * 1024 * 1024 // 4MB

// defaultTimeout bounds a single model round trip.
const defaultTimeout = 90 * time.Second

// Client executes single-prompt requests against provider endpoints.
type Client struct {
	httpClient *http.Client
	logger     *slog.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a client with sensible defaults.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: defaultTimeout},
		logger:     slog.Default(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Generate sends one prompt to the endpoint and returns the raw textual
// reply. Failures come back classified: QuotaError when the remote
// signals rate/quota limiting, UnavailableError when the endpoint is
// unconfigured or unreachable, and a plain error for anything else.
func (c *Client) Generate(ctx context.Context, ep Endpoint, prompt string) (string, error) {
	if !ep.Configured() {
		return "", NewUnavailableError(fmt.Errorf("provider %s: no credentials configured", ep.Provider))
	}

	provider := GetProvider(ep.Provider)
	if provider == nil {
		return "", NewUnavailableError(fmt.Errorf("unknown provider: %s", ep.Provider))
	}

	body, err := provider.BuildRequestBody(ep.Model, prompt)
	if err != nil {
		return "", fmt.Errorf("build request body: %w", err)
	}

	url := provider.BuildURL(ep.URL, ep.Model)

	c.logger.Debug("Sending model request",
		"provider", ep.Provider,
		"model", ep.Model,
		"prompt_len", len(prompt))

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create HTTP request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	provider.SetHeaders(httpReq, ep.APIKey)

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", NewUnavailableError(fmt.Errorf("provider %s unreachable: %w", ep.Provider, err))
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(httpResp.Body, maxResponseSize))
	if err != nil {
		return "", fmt.Errorf("read response body: %w", err)
	}

	if httpResp.StatusCode != http.StatusOK {
		return "", classifyHTTPError(ep.Provider, httpResp.StatusCode, respBody)
	}

	return provider.ParseResponse(respBody)
}

// classifyHTTPError maps a non-200 response into the error taxonomy.
// Quota exhaustion is detected by status code or by textual markers in
// the body, since providers do not report it uniformly.
func classifyHTTPError(providerName string, statusCode int, body []byte) error {
	bodyStr := string(body)
	if len(bodyStr) > 200 {
		bodyStr = bodyStr[:200] + "..."
	}

	err := fmt.Errorf("provider %s error (status %d): %s", providerName, statusCode, bodyStr)

	if statusCode == http.StatusTooManyRequests || looksLikeQuota(bodyStr) {
		return NewQuotaError(err)
	}

	return err
}
