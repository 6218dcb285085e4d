package mcp

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

	"github.com/marcossootooo-ctrl/trainuppp/internal/activity"
	"github.com/marcossootooo-ctrl/trainuppp/internal/session"
	"github.com/marcossootooo-ctrl/trainuppp/internal/sport"
)

// HTTPClient implements DataSource by calling the TrainUp REST API.
// Used for remote MCP mode where the binary runs locally (stdio) but
// the session lives on the remote server (accessed over Tailscale).
type HTTPClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// Compile-time check: HTTPClient satisfies DataSource.
var _ DataSource = (*HTTPClient)(nil)

// NewHTTPClient creates an HTTPClient targeting the given base URL. An empty
// apiKey sends no auth header.
func NewHTTPClient(baseURL, apiKey string) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *HTTPClient) do(ctx context.Context, method, path string, params url.Values, payload any) ([]byte, error) {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("httpclient: encode payload: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, fmt.Errorf("httpclient: create request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("httpclient: %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("httpclient: read body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("httpclient: %s returned %d: %s", path, resp.StatusCode, data)
	}

	return data, nil
}

func (c *HTTPClient) State(ctx context.Context) (session.Snapshot, error) {
	body, err := c.do(ctx, http.MethodGet, "/api/v1/state", nil, nil)
	if err != nil {
		return session.Snapshot{}, err
	}

	var snap session.Snapshot
	if err := json.Unmarshal(body, &snap); err != nil {
		return session.Snapshot{}, fmt.Errorf("httpclient: decode state: %w", err)
	}
	return snap, nil
}

func (c *HTTPClient) Sports(ctx context.Context) ([]sport.Definition, error) {
	body, err := c.do(ctx, http.MethodGet, "/api/v1/sports", nil, nil)
	if err != nil {
		return nil, err
	}

	var defs []sport.Definition
	if err := json.Unmarshal(body, &defs); err != nil {
		return nil, fmt.Errorf("httpclient: decode sports: %w", err)
	}
	return defs, nil
}

func (c *HTTPClient) TodayValue(ctx context.Context, id sport.ID) (int, error) {
	params := url.Values{}
	params.Set("sport", string(id))

	body, err := c.do(ctx, http.MethodGet, "/api/v1/activity/today", params, nil)
	if err != nil {
		return 0, err
	}

	var resp struct {
		Value int `json:"value"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return 0, fmt.Errorf("httpclient: decode today value: %w", err)
	}
	return resp.Value, nil
}

func (c *HTTPClient) WeeklyChart(ctx context.Context, id sport.ID) ([]activity.ChartPoint, error) {
	params := url.Values{}
	params.Set("sport", string(id))

	body, err := c.do(ctx, http.MethodGet, "/api/v1/activity/chart", params, nil)
	if err != nil {
		return nil, err
	}

	var points []activity.ChartPoint
	if err := json.Unmarshal(body, &points); err != nil {
		return nil, fmt.Errorf("httpclient: decode chart: %w", err)
	}
	return points, nil
}

func (c *HTTPClient) LogActivity(ctx context.Context, id sport.ID, value int) error {
	payload := map[string]any{"sport": id, "value": value}
	_, err := c.do(ctx, http.MethodPost, "/api/v1/activity/log", nil, payload)
	return err
}
