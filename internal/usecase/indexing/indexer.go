package indexing

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	dombatch "github.com/kailas-cloud/dinemite/internal/domain/batch"
	domdoc "github.com/kailas-cloud/dinemite/internal/domain/document"
	"github.com/kailas-cloud/dinemite/internal/domain/restaurant"
	"github.com/kailas-cloud/dinemite/internal/domain/search/filter"
	"github.com/kailas-cloud/dinemite/internal/metrics"
)

// DefaultConcurrency bounds parallel document builds when none is configured.
const DefaultConcurrency = 4

// Summary describes one indexing run.
type Summary struct {
	RunID      string `json:"run_id"`
	Indexed    int    `json:"indexed"`
	Rejected   int    `json:"rejected"`
	Collection string `json:"collection"`
}

// Indexer builds documents and loads them into the collection.
// It becomes ready after the first successful Reindex.
type Indexer struct {
	builder     *Builder
	coll        Collection
	concurrency int
	logger      *zap.Logger

	ready     atomic.Bool
	readyCh   chan struct{}
	readyOnce sync.Once
}

// NewIndexer creates an indexer. concurrency <= 0 selects DefaultConcurrency.
func NewIndexer(builder *Builder, coll Collection, concurrency int, logger *zap.Logger) *Indexer {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	return &Indexer{
		builder:     builder,
		coll:        coll,
		concurrency: concurrency,
		logger:      logger,
		readyCh:     make(chan struct{}),
	}
}

// Reindex rebuilds every document and atomically replaces the collection contents.
func (ix *Indexer) Reindex(ctx context.Context, restaurants []restaurant.Restaurant) (Summary, error) {
	start := time.Now()
	runID := uuid.NewString()

	docs, rejected, err := ix.buildAll(ctx, restaurants)
	if err != nil {
		return Summary{}, err
	}

	results := ix.coll.ReplaceAll(docs)
	summary := ix.summarize(runID, results, rejected)

	metrics.ReindexDuration.Observe(time.Since(start).Seconds())
	ix.markReady()

	ix.logger.Info("Reindex completed",
		zap.String("run_id", runID),
		zap.String("collection", summary.Collection),
		zap.Int("indexed", summary.Indexed),
		zap.Int("rejected", summary.Rejected),
		zap.Duration("duration", time.Since(start)),
	)
	return summary, nil
}

// UpsertIncremental builds the given restaurants and upserts them without clearing.
func (ix *Indexer) UpsertIncremental(ctx context.Context, restaurants []restaurant.Restaurant) (Summary, error) {
	runID := uuid.NewString()

	docs, rejected, err := ix.buildAll(ctx, restaurants)
	if err != nil {
		return Summary{}, err
	}

	summary := ix.summarize(runID, ix.coll.UpsertMany(docs), rejected)
	ix.logger.Info("Incremental upsert completed",
		zap.String("run_id", runID),
		zap.Int("indexed", summary.Indexed),
		zap.Int("rejected", summary.Rejected),
	)
	return summary, nil
}

// Warm reindexes only the restaurants matching f.
func (ix *Indexer) Warm(ctx context.Context, restaurants []restaurant.Restaurant, f filter.Filters) (Summary, error) {
	if f.IsEmpty() {
		return ix.Reindex(ctx, restaurants)
	}
	filtered := make([]restaurant.Restaurant, 0, len(restaurants))
	for i := range restaurants {
		if f.Matches(&restaurants[i]) {
			filtered = append(filtered, restaurants[i])
		}
	}
	return ix.Reindex(ctx, filtered)
}

// Ready reports whether the initial index build finished.
func (ix *Indexer) Ready() bool { return ix.ready.Load() }

// WaitReady blocks until the indexer is ready or ctx is done.
func (ix *Indexer) WaitReady(ctx context.Context) error {
	select {
	case <-ix.readyCh:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("wait for index: %w", ctx.Err())
	}
}

func (ix *Indexer) markReady() {
	ix.readyOnce.Do(func() {
		ix.ready.Store(true)
		close(ix.readyCh)
	})
}

// buildAll builds documents concurrently, preserving input order.
// Per-restaurant build failures are logged and counted, not fatal.
func (ix *Indexer) buildAll(
	ctx context.Context, restaurants []restaurant.Restaurant,
) ([]domdoc.Document, []dombatch.Result, error) {
	built := make([]domdoc.Document, len(restaurants))
	errs := make([]error, len(restaurants))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(ix.concurrency)
	for i := range restaurants {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			doc, err := ix.builder.Build(gctx, restaurants[i])
			if err != nil {
				errs[i] = err
				return nil
			}
			built[i] = doc
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, fmt.Errorf("build documents: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, nil, fmt.Errorf("build documents: %w", err)
	}

	docs := make([]domdoc.Document, 0, len(restaurants))
	var rejected []dombatch.Result
	for i, err := range errs {
		if err != nil {
			ix.logger.Warn("Failed to build restaurant document",
				zap.String("restaurant_id", restaurants[i].ID),
				zap.Error(err),
			)
			rejected = append(rejected, dombatch.NewError(restaurants[i].ID, err))
			continue
		}
		docs = append(docs, built[i])
	}
	return docs, rejected, nil
}

func (ix *Indexer) summarize(runID string, results, rejected []dombatch.Result) Summary {
	ok, failed := dombatch.Count(results)
	for _, r := range dombatch.Errors(results) {
		ix.logger.Warn("Document rejected by collection",
			zap.String("run_id", runID),
			zap.String("restaurant_id", r.ID()),
			zap.Error(r.Err()),
		)
	}
	return Summary{
		RunID:      runID,
		Indexed:    ok,
		Rejected:   failed + len(rejected),
		Collection: ix.coll.Name(),
	}
}
