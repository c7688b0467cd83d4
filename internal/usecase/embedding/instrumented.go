package embedding

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/kailas-cloud/dinemite/internal/domain"
)

// InstrumentedEmbedder logs every remote embedding attempt above the breaker.
// Transport metrics are recorded in the provider clients.
type InstrumentedEmbedder struct {
	inner    domain.Embedder
	provider string
	model    string
	logger   *zap.Logger
}

// NewInstrumentedEmbedder wraps inner.
func NewInstrumentedEmbedder(inner domain.Embedder, provider, model string, logger *zap.Logger) *InstrumentedEmbedder {
	return &InstrumentedEmbedder{inner: inner, provider: provider, model: model, logger: logger}
}

// Embed delegates to inner. Query text is never logged, only its length.
func (p *InstrumentedEmbedder) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	start := time.Now()
	result, err := p.inner.Embed(ctx, text)
	fields := []zap.Field{
		zap.String("provider", p.provider),
		zap.String("model", p.model),
		zap.Int("chars", utf8.RuneCountInString(text)),
		zap.Duration("duration", time.Since(start)),
	}

	if err != nil {
		if ce := p.logger.Check(failureLevel(err), "Remote embedding failed"); ce != nil {
			ce.Write(append(fields, zap.Error(err))...)
		}
		return domain.EmbeddingResult{}, fmt.Errorf("embed: %w", err)
	}

	p.logger.Debug("Remote embedding completed", append(fields,
		zap.String("source", string(result.Source)),
		zap.Int("dimensions", len(result.Embedding)),
		zap.Int("total_tokens", result.TotalTokens),
	)...)
	return result, nil
}

// failureLevel keeps an open circuit quiet: the breaker already logged the trip.
// Other failures are warnings since the caller falls back.
func failureLevel(err error) zapcore.Level {
	switch {
	case errors.Is(err, ErrCircuitOpen):
		return zapcore.DebugLevel
	case errors.Is(err, context.Canceled):
		return zapcore.InfoLevel
	default:
		return zapcore.WarnLevel
	}
}
