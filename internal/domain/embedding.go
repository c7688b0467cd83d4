package domain

import "context"

// EmbeddingSource tells which path produced a vector.
type EmbeddingSource string

const (
	// SourceProvider marks vectors returned by the remote embedding provider.
	SourceProvider EmbeddingSource = "provider"
	// SourceFallback marks deterministic local vectors.
	SourceFallback EmbeddingSource = "fallback"
	// SourceCache marks provider vectors served from the embedding cache.
	SourceCache EmbeddingSource = "cache"
)

// Embedder is the shared text vectorization contract between layers.
type Embedder interface {
	Embed(ctx context.Context, text string) (EmbeddingResult, error)
}

// HealthChecker verifies embedding provider availability.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// EmbeddingResult carries the embedding vector through the decorator chain.
type EmbeddingResult struct {
	Embedding    []float32
	Source       EmbeddingSource
	PromptTokens int
	TotalTokens  int
}

// IsEmpty reports whether the result holds no usable vector.
func (r EmbeddingResult) IsEmpty() bool { return len(r.Embedding) == 0 }
