// Package openai embeds text through any OpenAI-compatible embeddings API.
package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/kailas-cloud/dinemite/internal/domain"
	"github.com/kailas-cloud/dinemite/internal/metrics"
)

const providerName = "openai"

// Failure reasons recorded in dinemite_embedding_errors_total.
const (
	ReasonUnauthorized   = "unauthorized"
	ReasonRateLimited    = "rate_limited"
	ReasonRejected       = "rejected"
	ReasonUpstream       = "upstream_5xx"
	ReasonTimeout        = "timeout"
	ReasonTransport      = "transport_error"
	ReasonEmptyEmbedding = "empty_values"
)

var _ domain.Embedder = (*Embedder)(nil)

// Config holds the provider settings. An empty BaseURL keeps the public
// OpenAI endpoint; a zero Timeout leaves the HTTP client without a deadline.
type Config struct {
	APIKey     string
	BaseURL    string
	Model      string
	Dimensions int
	Timeout    time.Duration
}

// Embedder is the alternative remote provider.
type Embedder struct {
	client     *openai.Client
	baseURL    string
	model      string
	dimensions int
	logger     *zap.Logger
}

// NewEmbedder creates an embedder. A missing key yields domain.ErrProviderNotConfigured.
func NewEmbedder(cfg Config, logger *zap.Logger) (*Embedder, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai: %w", domain.ErrProviderNotConfigured)
	}
	if cfg.Model == "" {
		return nil, errors.New("openai: model is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if base := strings.TrimRight(cfg.BaseURL, "/"); base != "" {
		clientCfg.BaseURL = base
	}
	if cfg.Timeout > 0 {
		clientCfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	}

	return &Embedder{
		client:     openai.NewClientWithConfig(clientCfg),
		baseURL:    clientCfg.BaseURL,
		model:      cfg.Model,
		dimensions: cfg.Dimensions,
		logger:     logger,
	}, nil
}

// Model returns the embedding model name; it keys the embedding cache.
func (e *Embedder) Model() string { return e.model }

// BaseURL returns the API root requests go to.
func (e *Embedder) BaseURL() string { return e.baseURL }

// Embed implements domain.Embedder. Every failure wraps domain.ErrEmbeddingProviderError.
func (e *Embedder) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	req := openai.EmbeddingRequest{
		Input:          []string{text},
		Model:          openai.EmbeddingModel(e.model),
		EncodingFormat: openai.EmbeddingEncodingFormatFloat,
	}
	if e.dimensions > 0 {
		req.Dimensions = e.dimensions
	}

	start := time.Now()
	resp, err := e.client.CreateEmbeddings(ctx, req)
	took := time.Since(start)
	if err != nil {
		reason, wrapped := classify(err)
		e.failed(reason, took, wrapped)
		return domain.EmbeddingResult{}, wrapped
	}
	if len(resp.Data) == 0 || len(resp.Data[0].Embedding) == 0 {
		err := fmt.Errorf("openai returned no embedding values: %w", domain.ErrEmbeddingProviderError)
		e.failed(ReasonEmptyEmbedding, took, err)
		return domain.EmbeddingResult{}, err
	}

	metrics.EmbeddingRequestsTotal.WithLabelValues(providerName, e.model, "success").Inc()
	metrics.EmbeddingRequestDuration.WithLabelValues(providerName, e.model).Observe(took.Seconds())
	if resp.Usage.TotalTokens > 0 {
		metrics.EmbeddingTokensTotal.WithLabelValues(providerName, e.model, "prompt").Add(float64(resp.Usage.PromptTokens))
		metrics.EmbeddingTokensTotal.WithLabelValues(providerName, e.model, "total").Add(float64(resp.Usage.TotalTokens))
	}

	return domain.EmbeddingResult{
		Embedding:    resp.Data[0].Embedding,
		Source:       domain.SourceProvider,
		PromptTokens: resp.Usage.PromptTokens,
		TotalTokens:  resp.Usage.TotalTokens,
	}, nil
}

func (e *Embedder) failed(reason string, took time.Duration, err error) {
	metrics.EmbeddingRequestsTotal.WithLabelValues(providerName, e.model, "error").Inc()
	metrics.EmbeddingErrorsTotal.WithLabelValues(providerName, e.model, reason).Inc()
	e.logger.Debug("OpenAI embeddings call failed",
		zap.String("reason", reason),
		zap.String("model", e.model),
		zap.Duration("duration", took),
		zap.Error(err),
	)
}

// classify maps a go-openai error to a failure reason and a provider error.
func classify(err error) (string, error) {
	status, msg := 0, ""
	var apiErr *openai.APIError
	var reqErr *openai.RequestError
	switch {
	case errors.As(err, &apiErr):
		status, msg = apiErr.HTTPStatusCode, apiErr.Message
	case errors.As(err, &reqErr):
		status, msg = reqErr.HTTPStatusCode, bodyMessage(reqErr.Body)
	}

	if status == 0 {
		reason := ReasonTransport
		var netErr net.Error
		if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
			reason = ReasonTimeout
		}
		return reason, fmt.Errorf("openai request: %w: %w", domain.ErrEmbeddingProviderError, err)
	}

	reason := ReasonRejected
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		reason = ReasonUnauthorized
	case status == http.StatusTooManyRequests:
		reason = ReasonRateLimited
	case status >= 500:
		reason = ReasonUpstream
	}
	return reason, fmt.Errorf("openai status %d: %s: %w", status, msg, domain.ErrEmbeddingProviderError)
}

// bodyMessage pulls a readable message out of a non-standard error body.
// Some compatible gateways answer {"detail": "..."} instead of {"error": {...}}.
func bodyMessage(body []byte) string {
	var parsed struct {
		Detail string `json:"detail"`
	}
	if json.Unmarshal(body, &parsed) == nil && parsed.Detail != "" {
		return parsed.Detail
	}
	return strings.TrimSpace(string(body))
}
