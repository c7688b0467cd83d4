package indexing

import (
	"context"

	"github.com/kailas-cloud/dinemite/internal/domain"
	dombatch "github.com/kailas-cloud/dinemite/internal/domain/batch"
	domdoc "github.com/kailas-cloud/dinemite/internal/domain/document"
)

// Collection is the vector store the indexer writes into.
type Collection interface {
	Name() string
	UpsertMany(docs []domdoc.Document) []dombatch.Result
	ReplaceAll(docs []domdoc.Document) []dombatch.Result
}

// Embedder vectorizes text into embeddings.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}
