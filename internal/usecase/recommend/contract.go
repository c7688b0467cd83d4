package recommend

import (
	"context"

	"github.com/kailas-cloud/dinemite/internal/db/memory"
	"github.com/kailas-cloud/dinemite/internal/domain"
	"github.com/kailas-cloud/dinemite/internal/domain/restaurant"
	"github.com/kailas-cloud/dinemite/internal/domain/search/result"
)

// Searcher runs similarity queries against the vector collection.
type Searcher interface {
	Query(vec []float32, opts memory.QueryOptions) []result.Result
}

// Embedder vectorizes text into embeddings.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}

// Catalog resolves restaurant ids to their source records.
type Catalog interface {
	Get(id string) (restaurant.Restaurant, bool)
}

// Readiness reports whether the initial index build finished.
type Readiness interface {
	Ready() bool
}
