// Package gemini calls the Gemini embedContent REST endpoint.
package gemini

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

	"go.uber.org/zap"

	"github.com/kailas-cloud/dinemite/internal/domain"
	"github.com/kailas-cloud/dinemite/internal/metrics"
)

const (
	// DefaultBaseURL is the public Gemini API root.
	DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	// DefaultModel is the embedding model used when none is configured.
	DefaultModel = "text-embedding-004"

	providerName = "gemini"
	maxErrorBody = 64 << 10
)

// UpstreamError is a non-2xx answer from the provider.
type UpstreamError struct {
	Status int
	Body   string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("gemini upstream status %d: %s", e.Status, e.Body)
}

func (e *UpstreamError) Unwrap() error { return domain.ErrEmbeddingProviderError }

// Config holds the Gemini client settings.
type Config struct {
	APIKey     string
	BaseURL    string
	Model      string
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     *zap.Logger
}

var (
	_ domain.Embedder      = (*Client)(nil)
	_ domain.HealthChecker = (*Client)(nil)
)

// Client is a Gemini embedding client.
type Client struct {
	apiKey  string
	baseURL string
	model   string
	http    *http.Client
	logger  *zap.Logger
}

// NewClient creates a Gemini client. An empty API key yields a client whose
// calls fail with domain.ErrProviderNotConfigured.
func NewClient(cfg Config) *Client {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: cfg.Timeout}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		apiKey:  cfg.APIKey,
		baseURL: baseURL,
		model:   model,
		http:    hc,
		logger:  logger,
	}
}

// Configured reports whether an API key is set.
func (c *Client) Configured() bool { return c.apiKey != "" }

// Model returns the embedding model name.
func (c *Client) Model() string { return c.model }

type embedRequest struct {
	Model   string  `json:"model"`
	Content content `json:"content"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type embedResponse struct {
	Embedding *struct {
		Values []float32 `json:"values"`
	} `json:"embedding"`
}

// EmbedValues performs one embedContent call and returns the raw values.
// A non-2xx answer is returned as *UpstreamError carrying the status and body.
// The returned slice may be empty when the provider omits values.
func (c *Client) EmbedValues(ctx context.Context, text string) ([]float32, error) {
	if !c.Configured() {
		return nil, domain.ErrProviderNotConfigured
	}

	body, err := json.Marshal(embedRequest{
		Model:   c.model,
		Content: content{Parts: []part{{Text: text}}},
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/models/%s:embedContent?key=%s",
		c.baseURL, url.PathEscape(c.model), url.QueryEscape(c.apiKey))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	duration := time.Since(start)
	if err != nil {
		c.fail("transport_error")
		return nil, fmt.Errorf("gemini request: %w: %w", domain.ErrEmbeddingProviderError, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		c.fail("api_error")
		c.logger.Debug("Gemini embedContent rejected",
			zap.Int("status", resp.StatusCode),
			zap.Duration("duration", duration),
		)
		return nil, &UpstreamError{Status: resp.StatusCode, Body: string(raw)}
	}

	var parsed embedResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		c.fail("malformed_response")
		return nil, fmt.Errorf("decode response: %w: %w", domain.ErrEmbeddingProviderError, err)
	}

	metrics.EmbeddingRequestsTotal.WithLabelValues(providerName, c.model, "success").Inc()
	metrics.EmbeddingRequestDuration.WithLabelValues(providerName, c.model).Observe(duration.Seconds())

	if parsed.Embedding == nil {
		return nil, nil
	}
	return parsed.Embedding.Values, nil
}

// Embed implements domain.Embedder. Empty values count as a provider error.
func (c *Client) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	values, err := c.EmbedValues(ctx, text)
	if err != nil {
		return domain.EmbeddingResult{}, err
	}
	if len(values) == 0 {
		metrics.EmbeddingErrorsTotal.WithLabelValues(providerName, c.model, "empty_values").Inc()
		return domain.EmbeddingResult{}, fmt.Errorf("empty embedding values: %w", domain.ErrEmbeddingProviderError)
	}
	return domain.EmbeddingResult{Embedding: values, Source: domain.SourceProvider}, nil
}

// HealthCheck reports whether the client can be used at all.
// It does not spend a provider call.
func (c *Client) HealthCheck(_ context.Context) error {
	if !c.Configured() {
		return domain.ErrProviderNotConfigured
	}
	return nil
}

func (c *Client) fail(kind string) {
	metrics.EmbeddingRequestsTotal.WithLabelValues(providerName, c.model, "error").Inc()
	metrics.EmbeddingErrorsTotal.WithLabelValues(providerName, c.model, kind).Inc()
}

// AsUpstream extracts an *UpstreamError from err.
func AsUpstream(err error) (*UpstreamError, bool) {
	var ue *UpstreamError
	if errors.As(err, &ue) {
		return ue, true
	}
	return nil, false
}
