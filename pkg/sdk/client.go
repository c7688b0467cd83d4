package dinemite

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/kailas-cloud/dinemite/internal/domain/recommendation"
)

const maxErrorBody = 64 << 10

// Client is the dinemite SDK entry point. Safe for concurrent use.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	tracker *recommendation.Tracker
	obs     *observer
}

// New creates a Client for the service at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	cfg := &clientConfig{timeout: defaultTimeout}
	for _, o := range opts {
		o.apply(cfg)
	}

	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("dinemite: invalid base URL %q", baseURL)
	}

	hc := cfg.httpClient
	if hc == nil {
		hc = &http.Client{Timeout: cfg.timeout}
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  cfg.apiKey,
		http:    hc,
		tracker: recommendation.NewTracker(),
		obs:     obs,
	}, nil
}

type recommendRequest struct {
	Query   string   `json:"query"`
	Filters *Filters `json:"filters,omitempty"`
	TopK    int      `json:"top_k,omitempty"`
}

type recommendResponse struct {
	State   State            `json:"state"`
	Results []Recommendation `json:"results"`
}

// Recommend runs a free-text query. Each call enters LOADING and replaces
// the previous query's results. When calls overlap, State and Last follow the
// call that started last; a superseded call still returns its own results.
func (c *Client) Recommend(ctx context.Context, q Query) (recs []Recommendation, err error) {
	start := time.Now()
	defer func() { c.obs.recommend(start, q, recs, err) }()

	tk := c.tracker.Begin(q.Text)

	var resp recommendResponse
	err = c.do(ctx, http.MethodPost, "/api/recommendations",
		recommendRequest{Query: q.Text, Filters: q.Filters, TopK: q.TopK}, &resp)
	if err != nil {
		c.tracker.Finish(tk, nil, err)
		return nil, err
	}

	c.tracker.Finish(tk, resp.Results, nil)
	return resp.Results, nil
}

// State returns the lifecycle state of the latest Recommend call.
func (c *Client) State() State {
	return c.tracker.State()
}

// Last returns the latest query text, its results and error.
func (c *Client) Last() (string, []Recommendation, error) {
	return c.tracker.Snapshot()
}

// Embed calls the server-side embedding proxy.
func (c *Client) Embed(ctx context.Context, text string) (values []float32, err error) {
	start := time.Now()
	defer func() { c.obs.call("embed", start, err) }()

	var resp struct {
		Values []float32 `json:"values"`
	}
	if err = c.do(ctx, http.MethodPost, "/api/embed", map[string]string{"text": text}, &resp); err != nil {
		return nil, err
	}
	return resp.Values, nil
}

// Reindex rebuilds the server collection. Non-nil filters restrict the rebuild
// to matching restaurants and drop the rest.
func (c *Client) Reindex(ctx context.Context, filters *Filters) (summary IndexSummary, err error) {
	start := time.Now()
	defer func() { c.obs.call("reindex", start, err) }()

	body := struct {
		Filters *Filters `json:"filters,omitempty"`
	}{Filters: filters}
	err = c.do(ctx, http.MethodPost, "/api/index/reindex", body, &summary)
	return summary, err
}

// Health returns the service health. A degraded service answers 503 with a
// report, which is returned without error.
func (c *Client) Health(ctx context.Context) (status HealthStatus, err error) {
	start := time.Now()
	defer func() { c.obs.call("health", start, err) }()

	err = c.do(ctx, http.MethodGet, "/health", nil, &status)
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Status == http.StatusServiceUnavailable && status.Status != "" {
		return status, nil
	}
	return status, err
}

// do sends a JSON request and decodes the JSON response into out.
// On non-2xx it still decodes into out when possible and returns *APIError.
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader = http.NoBody
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("dinemite: marshal request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("dinemite: create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("dinemite: %s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		if out != nil {
			_ = json.Unmarshal(raw, out)
		}
		return parseAPIError(resp.StatusCode, raw)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("dinemite: decode response: %w", err)
	}
	return nil
}

func parseAPIError(status int, raw []byte) *APIError {
	var body struct {
		Error   string `json:"error"`
		Code    string `json:"code"`
		Details string `json:"details"`
	}
	if err := json.Unmarshal(raw, &body); err != nil || body.Error == "" {
		msg := strings.TrimSpace(string(raw))
		if msg == "" {
			msg = http.StatusText(status)
		}
		return &APIError{Status: status, Message: msg}
	}
	return &APIError{Status: status, Code: body.Code, Message: body.Error, Details: body.Details}
}
