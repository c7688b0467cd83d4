package embedding

import (
	"context"
	"errors"
	"fmt"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"
	"go.uber.org/zap"

	"github.com/kailas-cloud/dinemite/internal/domain"
	"github.com/kailas-cloud/dinemite/internal/metrics"
)

// ErrCircuitOpen is returned while the breaker rejects calls to the provider.
var ErrCircuitOpen = errors.New("embedding circuit open")

// BreakerSettings tunes the provider circuit breaker.
type BreakerSettings struct {
	// MaxFailures is the number of consecutive failures that opens the circuit.
	MaxFailures uint32
	// OpenTimeout is how long the circuit stays open before a half-open trial request.
	OpenTimeout time.Duration
	// HalfOpenRequests caps concurrent trial requests in the half-open state.
	HalfOpenRequests uint32
}

func (s BreakerSettings) withDefaults() BreakerSettings {
	if s.MaxFailures == 0 {
		s.MaxFailures = 5
	}
	if s.OpenTimeout <= 0 {
		s.OpenTimeout = 30 * time.Second
	}
	if s.HalfOpenRequests == 0 {
		s.HalfOpenRequests = 1
	}
	return s
}

var (
	_ domain.Embedder      = (*BreakerEmbedder)(nil)
	_ domain.HealthChecker = (*BreakerEmbedder)(nil)
)

// BreakerEmbedder short-circuits the remote provider after repeated failures,
// so callers fall back without waiting on network I/O.
type BreakerEmbedder struct {
	inner domain.Embedder
	name  string
	cb    *gobreaker.CircuitBreaker[domain.EmbeddingResult]
}

// NewBreakerEmbedder wraps inner with a circuit breaker named after the provider.
func NewBreakerEmbedder(inner domain.Embedder, name string, s BreakerSettings, logger *zap.Logger) *BreakerEmbedder {
	s = s.withDefaults()
	metrics.CircuitBreakerState.WithLabelValues(name).Set(0)

	cb := gobreaker.NewCircuitBreaker[domain.EmbeddingResult](gobreaker.Settings{
		Name:        name,
		MaxRequests: s.HalfOpenRequests,
		Timeout:     s.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= s.MaxFailures
		},
		// A caller giving up is not a provider fault.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("Embedding circuit breaker state change",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateValue(to))
		},
	})

	return &BreakerEmbedder{inner: inner, name: name, cb: cb}
}

// Embed calls the inner embedder unless the circuit is open.
func (b *BreakerEmbedder) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	res, err := b.cb.Execute(func() (domain.EmbeddingResult, error) {
		return b.inner.Embed(ctx, text)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return domain.EmbeddingResult{}, fmt.Errorf("%w: %s", ErrCircuitOpen, err.Error())
		}
		return domain.EmbeddingResult{}, err
	}
	return res, nil
}

// State reports the breaker state: "closed", "half-open" or "open".
func (b *BreakerEmbedder) State() string {
	return b.cb.State().String()
}

// HealthCheck fails while the circuit is open.
func (b *BreakerEmbedder) HealthCheck(_ context.Context) error {
	if b.cb.State() == gobreaker.StateOpen {
		return fmt.Errorf("%s: %w", b.name, ErrCircuitOpen)
	}
	return nil
}

func stateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}
