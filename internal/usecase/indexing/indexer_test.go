package indexing

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kailas-cloud/dinemite/internal/db/memory"
	"github.com/kailas-cloud/dinemite/internal/domain"
	"github.com/kailas-cloud/dinemite/internal/domain/restaurant"
	"github.com/kailas-cloud/dinemite/internal/domain/search/filter"
)

// textEmbedder returns a vector whose length depends on the text, so tests can
// provoke dimension mismatches.
type textEmbedder struct {
	mu   sync.Mutex
	dims map[string]int
	fail map[string]bool
}

func (e *textEmbedder) Embed(_ context.Context, text string) (domain.EmbeddingResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.fail[text] {
		return domain.EmbeddingResult{}, domain.ErrEmbeddingProviderError
	}
	n := 3
	if d, ok := e.dims[text]; ok {
		n = d
	}
	v := make([]float32, n)
	v[0] = 1
	return domain.EmbeddingResult{Embedding: v}, nil
}

func restaurants() []restaurant.Restaurant {
	return []restaurant.Restaurant{
		{ID: "r1", Name: "one", Category: "중식", PriceRange: "$$", Address: "마포구 연남동"},
		{ID: "r2", Name: "two", Category: "일식", PriceRange: "$$$$", Address: "청담동"},
		{ID: "r3", Name: "three", Category: "중식", PriceRange: "$", Address: "이태원동"},
	}
}

func newTestIndexer(emb Embedder) (*Indexer, *memory.Collection) {
	coll := memory.NewCollection("restaurants")
	return NewIndexer(NewBuilder(emb), coll, 2, zap.NewNop()), coll
}

func TestIndexer_Reindex(t *testing.T) {
	ix, coll := newTestIndexer(&textEmbedder{})

	if ix.Ready() {
		t.Fatal("indexer must not be ready before the first reindex")
	}

	summary, err := ix.Reindex(context.Background(), restaurants())
	if err != nil {
		t.Fatalf("Reindex: %v", err)
	}
	if summary.Indexed != 3 || summary.Rejected != 0 || summary.Collection != "restaurants" {
		t.Fatalf("unexpected summary %+v", summary)
	}
	if _, err := uuid.Parse(summary.RunID); err != nil {
		t.Errorf("run id is not a uuid: %q", summary.RunID)
	}
	if coll.Len() != 3 {
		t.Fatalf("expected 3 documents, got %d", coll.Len())
	}
	if !ix.Ready() {
		t.Fatal("expected ready after reindex")
	}
	if err := ix.WaitReady(context.Background()); err != nil {
		t.Fatalf("WaitReady: %v", err)
	}
}

func TestIndexer_ReindexReplacesContents(t *testing.T) {
	ix, coll := newTestIndexer(&textEmbedder{})
	_, _ = ix.Reindex(context.Background(), restaurants())

	_, err := ix.Reindex(context.Background(), restaurants()[:1])
	if err != nil {
		t.Fatalf("Reindex: %v", err)
	}
	if coll.Len() != 1 {
		t.Fatalf("expected 1 document after second reindex, got %d", coll.Len())
	}
}

func TestIndexer_RejectsMismatchAndBuildFailures(t *testing.T) {
	rs := restaurants()
	emb := &textEmbedder{
		dims: map[string]int{"two 일식 청담동": 5},
		fail: map[string]bool{"three 중식 이태원동": true},
	}
	ix, coll := newTestIndexer(emb)

	summary, err := ix.Reindex(context.Background(), rs)
	if err != nil {
		t.Fatalf("Reindex: %v", err)
	}
	if summary.Indexed != 1 || summary.Rejected != 2 {
		t.Fatalf("unexpected summary %+v", summary)
	}
	if coll.Len() != 1 {
		t.Fatalf("expected 1 document, got %d", coll.Len())
	}
}

func TestIndexer_UpsertIncremental(t *testing.T) {
	ix, coll := newTestIndexer(&textEmbedder{})
	_, _ = ix.Reindex(context.Background(), restaurants()[:1])

	extra := []restaurant.Restaurant{{ID: "r9", Name: "nine", Category: "한식"}}
	summary, err := ix.UpsertIncremental(context.Background(), extra)
	if err != nil {
		t.Fatalf("UpsertIncremental: %v", err)
	}
	if summary.Indexed != 1 {
		t.Fatalf("unexpected summary %+v", summary)
	}
	if coll.Len() != 2 {
		t.Fatalf("expected 2 documents, got %d", coll.Len())
	}
}

func TestIndexer_Warm(t *testing.T) {
	ix, coll := newTestIndexer(&textEmbedder{})

	f, err := filter.New("중식", "", "", "")
	if err != nil {
		t.Fatalf("filter.New: %v", err)
	}
	summary, err := ix.Warm(context.Background(), restaurants(), f)
	if err != nil {
		t.Fatalf("Warm: %v", err)
	}
	if summary.Indexed != 2 || coll.Len() != 2 {
		t.Fatalf("expected 2 chinese restaurants, got %+v", summary)
	}

	f, _ = filter.New("", "", "$$$$", "")
	_, _ = ix.Warm(context.Background(), restaurants(), f)
	if _, ok := coll.Get("r2"); !ok || coll.Len() != 1 {
		t.Fatalf("expected only r2 after budget warm")
	}
}

func TestIndexer_CanceledContext(t *testing.T) {
	ix, _ := newTestIndexer(&textEmbedder{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := ix.Reindex(ctx, restaurants()); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if ix.Ready() {
		t.Fatal("failed reindex must not mark ready")
	}
}

func TestIndexer_WaitReadyTimeout(t *testing.T) {
	ix, _ := newTestIndexer(&textEmbedder{})
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if err := ix.WaitReady(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}
