package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap"

	"github.com/kailas-cloud/dinemite/internal/domain"
	"github.com/kailas-cloud/dinemite/internal/metrics"
)

func TestMain(m *testing.M) {
	metrics.RegisterEmbeddingMetrics()
	os.Exit(m.Run())
}

const testModel = "text-embedding-3-small"

// embeddingsHandler answers /embeddings with the given vector, or with no
// data at all when vec is nil.
func embeddingsHandler(t *testing.T, vec []float32, gotBody *map[string]any) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/embeddings" {
			t.Errorf("path = %s, want /v1/embeddings", r.URL.Path)
		}
		if gotBody != nil {
			_ = json.NewDecoder(r.Body).Decode(gotBody)
		}
		data := []map[string]any{}
		if vec != nil {
			data = append(data, map[string]any{"object": "embedding", "index": 0, "embedding": vec})
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"object": "list",
			"model":  testModel,
			"data":   data,
			"usage":  map[string]int{"prompt_tokens": 7, "total_tokens": 7},
		})
	}
}

func newTestEmbedder(t *testing.T, url string, mut func(*Config)) *Embedder {
	t.Helper()
	cfg := Config{APIKey: "sk-test", BaseURL: url + "/v1/", Model: testModel}
	if mut != nil {
		mut(&cfg)
	}
	e, err := NewEmbedder(cfg, zap.NewNop())
	if err != nil {
		t.Fatalf("NewEmbedder: %v", err)
	}
	return e
}

func TestEmbed_ProviderSourceAndRequest(t *testing.T) {
	var body map[string]any
	srv := httptest.NewServer(embeddingsHandler(t, []float32{0.6, 0.8}, &body))
	defer srv.Close()

	e := newTestEmbedder(t, srv.URL, func(c *Config) { c.Dimensions = 2 })
	res, err := e.Embed(context.Background(), "매운 마라탕")
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	if res.Source != domain.SourceProvider {
		t.Errorf("Source = %q, want provider", res.Source)
	}
	if len(res.Embedding) != 2 || res.PromptTokens != 7 || res.TotalTokens != 7 {
		t.Errorf("result = %+v", res)
	}

	if body["model"] != testModel || body["encoding_format"] != "float" || body["dimensions"] != float64(2) {
		t.Errorf("request body = %v", body)
	}
	if in, _ := body["input"].([]any); len(in) != 1 || in[0] != "매운 마라탕" {
		t.Errorf("input = %v", body["input"])
	}
}

func TestEmbed_NoValuesIsProviderError(t *testing.T) {
	tests := []struct {
		name string
		vec  []float32
	}{
		{"no data", nil},
		{"empty embedding", []float32{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(embeddingsHandler(t, tt.vec, nil))
			defer srv.Close()

			e := newTestEmbedder(t, srv.URL, nil)
			errs := metrics.EmbeddingErrorsTotal.WithLabelValues(providerName, testModel, ReasonEmptyEmbedding)
			before := testutil.ToFloat64(errs)

			res, err := e.Embed(context.Background(), "hello")
			if !errors.Is(err, domain.ErrEmbeddingProviderError) {
				t.Fatalf("err = %v, want ErrEmbeddingProviderError", err)
			}
			if !res.IsEmpty() {
				t.Errorf("result should be empty, got %+v", res)
			}
			if got := testutil.ToFloat64(errs) - before; got != 1 {
				t.Errorf("empty_values errors grew by %v, want 1", got)
			}
		})
	}
}

func TestEmbed_ClassifiesUpstreamFailures(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		reason  string
		message string
	}{
		{"bad key", http.StatusUnauthorized,
			`{"error":{"message":"Incorrect API key","type":"invalid_request_error"}}`, ReasonUnauthorized, "Incorrect API key"},
		{"quota", http.StatusTooManyRequests,
			`{"error":{"message":"rate limit exceeded","type":"rate_limit_error"}}`, ReasonRateLimited, "rate limit exceeded"},
		{"gateway detail", http.StatusNotFound, `{"detail":"model not found"}`, ReasonRejected, "model not found"},
		{"plain 502", http.StatusBadGateway, `bad gateway`, ReasonUpstream, "bad gateway"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			e := newTestEmbedder(t, srv.URL, nil)
			errs := metrics.EmbeddingErrorsTotal.WithLabelValues(providerName, testModel, tt.reason)
			before := testutil.ToFloat64(errs)

			_, err := e.Embed(context.Background(), "hello")
			if !errors.Is(err, domain.ErrEmbeddingProviderError) {
				t.Fatalf("err = %v, want ErrEmbeddingProviderError", err)
			}
			if !strings.Contains(err.Error(), tt.message) {
				t.Errorf("err = %q, want it to mention %q", err, tt.message)
			}
			if got := testutil.ToFloat64(errs) - before; got != 1 {
				t.Errorf("%s errors grew by %v, want 1", tt.reason, got)
			}
		})
	}
}

func TestEmbed_TimeoutBoundsTheCall(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	e := newTestEmbedder(t, srv.URL, func(c *Config) { c.Timeout = 50 * time.Millisecond })
	errs := metrics.EmbeddingErrorsTotal.WithLabelValues(providerName, testModel, ReasonTimeout)
	before := testutil.ToFloat64(errs)

	start := time.Now()
	_, err := e.Embed(context.Background(), "hello")
	if !errors.Is(err, domain.ErrEmbeddingProviderError) {
		t.Fatalf("err = %v, want ErrEmbeddingProviderError", err)
	}
	if took := time.Since(start); took > 2*time.Second {
		t.Errorf("call took %v, timeout not applied", took)
	}
	if got := testutil.ToFloat64(errs) - before; got != 1 {
		t.Errorf("timeout errors grew by %v, want 1", got)
	}
}

func TestNewEmbedder_BaseURL(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", "https://api.openai.com/v1"},
		{"https://llm.internal/v1/", "https://llm.internal/v1"},
		{"http://localhost:11434/v1", "http://localhost:11434/v1"},
	}
	for _, tt := range tests {
		e, err := NewEmbedder(Config{APIKey: "k", BaseURL: tt.in, Model: testModel}, nil)
		if err != nil {
			t.Fatalf("NewEmbedder(%q): %v", tt.in, err)
		}
		if e.BaseURL() != tt.want {
			t.Errorf("BaseURL(%q) = %q, want %q", tt.in, e.BaseURL(), tt.want)
		}
	}
}

func TestNewEmbedder_Validation(t *testing.T) {
	if _, err := NewEmbedder(Config{Model: testModel}, nil); !errors.Is(err, domain.ErrProviderNotConfigured) {
		t.Errorf("missing key: err = %v, want ErrProviderNotConfigured", err)
	}
	if _, err := NewEmbedder(Config{APIKey: "k"}, nil); err == nil {
		t.Error("missing model: expected error")
	}
	e, err := NewEmbedder(Config{APIKey: "k", Model: testModel}, nil)
	if err != nil || e.Model() != testModel {
		t.Errorf("NewEmbedder = %v, %v", e, err)
	}
}
