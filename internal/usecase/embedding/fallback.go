package embedding

import (
	"context"
	"unicode/utf16"

	"github.com/kailas-cloud/dinemite/internal/domain"
	"github.com/kailas-cloud/dinemite/internal/domain/vector"
)

// DefaultFallbackDimensions is the fallback vector length when none is configured.
const DefaultFallbackDimensions = 128

// FallbackEmbedder hashes UTF-16 code units into a fixed number of buckets.
// The output is deterministic and unit length (or all zeros for empty input).
type FallbackEmbedder struct {
	dims int
}

// NewFallbackEmbedder creates a fallback embedder. dims <= 0 selects the default.
func NewFallbackEmbedder(dims int) *FallbackEmbedder {
	if dims <= 0 {
		dims = DefaultFallbackDimensions
	}
	return &FallbackEmbedder{dims: dims}
}

// Dimensions returns the vector length produced by Embed.
func (f *FallbackEmbedder) Dimensions() int { return f.dims }

// Embed never fails.
func (f *FallbackEmbedder) Embed(_ context.Context, text string) (domain.EmbeddingResult, error) {
	return domain.EmbeddingResult{
		Embedding: f.Vector(text),
		Source:    domain.SourceFallback,
	}, nil
}

// Vector computes the fallback vector for text.
func (f *FallbackEmbedder) Vector(text string) []float32 {
	acc := make([]float64, f.dims)
	for _, c := range utf16.Encode([]rune(text)) {
		code := int(c)
		acc[code%f.dims] += float64(code%13) / 13
	}
	return vector.NormalizeFloat64(acc)
}
