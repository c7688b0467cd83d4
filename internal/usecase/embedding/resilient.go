package embedding

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/kailas-cloud/dinemite/internal/domain"
	"github.com/kailas-cloud/dinemite/internal/domain/vector"
	"github.com/kailas-cloud/dinemite/internal/metrics"
)

// Fallback reasons, used as log field and metric label.
const (
	ReasonMissingCredential = "missing_credential"
	ReasonTransientFailure  = "transient_failure"
	ReasonCircuitOpen       = "circuit_open"
)

var errMalformedVector = errors.New("provider returned a zero vector")

// ResilientEmbedder is the outermost embedder. It never returns an error:
// any provider problem degrades to the deterministic fallback.
type ResilientEmbedder struct {
	primary  domain.Embedder
	fallback *FallbackEmbedder
	logger   *zap.Logger

	missingOnce sync.Once
}

// NewResilientEmbedder creates the adapter. A nil primary means no credential
// is configured and every call is served by the fallback.
func NewResilientEmbedder(primary domain.Embedder, fallback *FallbackEmbedder, logger *zap.Logger) *ResilientEmbedder {
	return &ResilientEmbedder{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
	}
}

// Embed returns an empty vector for empty text, a unit-length provider vector
// on success, and the fallback vector otherwise.
func (r *ResilientEmbedder) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	if text == "" {
		return domain.EmbeddingResult{Embedding: []float32{}, Source: domain.SourceFallback}, nil
	}

	if r.primary == nil {
		r.missingOnce.Do(func() {
			r.logger.Warn("Embedding provider credential missing, using fallback vectors",
				zap.String("reason", ReasonMissingCredential),
			)
		})
		metrics.EmbeddingFallbackTotal.WithLabelValues(ReasonMissingCredential).Inc()
		return r.fallback.Embed(ctx, text)
	}

	res, err := r.primary.Embed(ctx, text)
	if err == nil {
		err = checkVector(res.Embedding)
	}
	if err != nil {
		reason := ReasonTransientFailure
		if errors.Is(err, ErrCircuitOpen) {
			reason = ReasonCircuitOpen
		}
		if errors.Is(err, domain.ErrProviderNotConfigured) {
			reason = ReasonMissingCredential
		}
		r.logger.Warn("Embedding provider failed, using fallback vector",
			zap.String("reason", reason),
			zap.Error(err),
		)
		metrics.EmbeddingFallbackTotal.WithLabelValues(reason).Inc()
		return r.fallback.Embed(ctx, text)
	}

	out := make([]float32, len(res.Embedding))
	copy(out, res.Embedding)
	res.Embedding = vector.Normalize(out)
	if res.Source == "" {
		res.Source = domain.SourceProvider
	}
	return res, nil
}

func checkVector(v []float32) error {
	if len(v) == 0 {
		return fmt.Errorf("%w: empty vector", domain.ErrEmbeddingProviderError)
	}
	if vector.Norm(v) == 0 {
		return fmt.Errorf("%w: %w", domain.ErrEmbeddingProviderError, errMalformedVector)
	}
	return nil
}
