package recommend

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/dinemite/internal/db/memory"
	"github.com/kailas-cloud/dinemite/internal/domain"
	"github.com/kailas-cloud/dinemite/internal/domain/recommendation"
	"github.com/kailas-cloud/dinemite/internal/domain/search/filter"
	"github.com/kailas-cloud/dinemite/internal/domain/search/request"
	"github.com/kailas-cloud/dinemite/internal/logger"
	"github.com/kailas-cloud/dinemite/internal/metrics"
	"github.com/kailas-cloud/dinemite/internal/textnorm"
)

// Query is an unvalidated recommendation request.
type Query struct {
	Text       string
	Category   string
	PriceRange string
	Budget     string
	Location   string
	TopK       int
}

// Service answers free-text recommendation queries from the vector collection.
type Service struct {
	search  Searcher
	embed   Embedder
	catalog Catalog
	ready   Readiness

	defaultTopK int
	maxTopK     int
}

// New creates a recommendation service.
func New(search Searcher, embed Embedder, catalog Catalog, ready Readiness) *Service {
	return &Service{
		search:      search,
		embed:       embed,
		catalog:     catalog,
		ready:       ready,
		defaultTopK: request.DefaultTopK,
		maxTopK:     request.MaxTopK,
	}
}

// WithTopK sets the default and maximum result counts. Non-positive values keep the current ones.
func (s *Service) WithTopK(defaultTopK, maxTopK int) *Service {
	if defaultTopK > 0 {
		s.defaultTopK = defaultTopK
	}
	if maxTopK > 0 {
		s.maxTopK = maxTopK
	}
	return s
}

// Recommend validates q, embeds the normalized text, queries the collection and
// returns hydrated recommendations ordered by match score.
func (s *Service) Recommend(ctx context.Context, q Query) ([]recommendation.Recommendation, error) {
	start := time.Now()

	recs, err := s.recommend(ctx, q)

	metrics.RecommendDuration.WithLabelValues(string(recommendation.Outcome(recs, err))).
		Observe(time.Since(start).Seconds())
	return recs, err
}

func (s *Service) recommend(ctx context.Context, q Query) ([]recommendation.Recommendation, error) {
	f, err := filter.New(q.Category, q.PriceRange, q.Budget, q.Location)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidFilter, err.Error())
	}
	req, err := request.NewWithLimits(q.Text, f, q.TopK, s.defaultTopK, s.maxTopK)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidQuery, err.Error())
	}

	if s.ready != nil && !s.ready.Ready() {
		return nil, domain.ErrIndexNotReady
	}

	normalized := textnorm.Normalize(req.Text())
	emb, err := s.embed.Embed(ctx, normalized)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		logger.FromContext(ctx).Error("Query embedding failed", zap.Error(err))
		return nil, fmt.Errorf("%w: %w", domain.ErrRecommendationFailed, err)
	}

	hits := s.search.Query(emb.Embedding, memory.QueryOptions{
		TopK:    req.TopK(),
		Filters: req.Filters(),
	})

	recs := make([]recommendation.Recommendation, 0, len(hits))
	for _, h := range hits {
		recs = append(recs, Format(h))
	}
	recs = Hydrate(recs, s.catalog)
	Rank(recs)

	logger.FromContext(ctx).Debug("Recommendation query served",
		zap.Int("results", len(recs)),
		zap.String("embedding_source", string(emb.Source)),
		zap.Int("top_k", req.TopK()),
	)
	return recs, nil
}
