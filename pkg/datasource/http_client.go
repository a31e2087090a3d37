package datasource

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	dashboard "github.com/goliatone/go-storefront-dashboard/components/dashboard"
)

// DefaultPath is the endpoint the dashboard payload is read from.
const DefaultPath = "/api/dashboard"

// HTTPConfig configures the HTTP data client.
type HTTPConfig struct {
	// BaseURL is required; there is no page origin to resolve a relative path against.
	BaseURL    string
	Path       string
	APIKey     string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// HTTPClient fetches dashboard data from a JSON endpoint.
type HTTPClient struct {
	url    string
	apiKey string
	client *http.Client
}

// NewHTTPClient builds a client for the dashboard endpoint.
func NewHTTPClient(cfg HTTPConfig) (*HTTPClient, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("datasource: base url is required")
	}
	path := cfg.Path
	if path == "" {
		path = DefaultPath
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	return &HTTPClient{
		url:    strings.TrimRight(cfg.BaseURL, "/") + path,
		apiKey: cfg.APIKey,
		client: httpClient,
	}, nil
}

var _ dashboard.DataFetcher = (*HTTPClient)(nil)

// Fetch issues an uncached GET and decodes the payload.
func (c *HTTPClient) Fetch(ctx context.Context) (dashboard.DashboardData, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return dashboard.DashboardData{}, fmt.Errorf("datasource: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("Pragma", "no-cache")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return dashboard.DashboardData{}, fmt.Errorf("datasource: http request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var buf bytes.Buffer
		_, _ = buf.ReadFrom(resp.Body)
		return dashboard.DashboardData{}, fmt.Errorf("datasource: remote error %d: %s", resp.StatusCode, strings.TrimSpace(buf.String()))
	}
	var data dashboard.DashboardData
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return dashboard.DashboardData{}, fmt.Errorf("datasource: decode response: %w", err)
	}
	return data, nil
}

// URL returns the resolved endpoint.
func (c *HTTPClient) URL() string {
	return c.url
}
