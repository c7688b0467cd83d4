// Package memory is an in-process vector collection with brute-force cosine search.
package memory

import (
	"sort"
	"sync"

	"github.com/kailas-cloud/dinemite/internal/domain"
	"github.com/kailas-cloud/dinemite/internal/domain/batch"
	"github.com/kailas-cloud/dinemite/internal/domain/document"
	"github.com/kailas-cloud/dinemite/internal/domain/search/filter"
	"github.com/kailas-cloud/dinemite/internal/domain/search/result"
	"github.com/kailas-cloud/dinemite/internal/domain/vector"
	"github.com/kailas-cloud/dinemite/internal/metrics"
)

// DefaultTopK is the result limit when QueryOptions.TopK is not positive.
const DefaultTopK = 5

// QueryOptions controls a similarity query.
type QueryOptions struct {
	TopK    int
	Filters filter.Filters
}

// Collection maps document id to document. All vectors share the dimension
// established by the first insert into an empty collection.
type Collection struct {
	name string

	mu        sync.RWMutex
	docs      map[string]document.Document
	dimension int
}

// NewCollection creates an empty collection.
func NewCollection(name string) *Collection {
	return &Collection{
		name: name,
		docs: make(map[string]document.Document),
	}
}

// Name returns the collection name.
func (c *Collection) Name() string { return c.name }

// Clear removes every document and resets the dimension.
func (c *Collection) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.clearLocked()
	c.reportSize()
}

// Upsert inserts or replaces doc. Documents with an empty vector are ignored.
// A dimension mismatch leaves the collection unchanged.
func (c *Collection) Upsert(doc document.Document) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	err := c.upsertLocked(doc)
	c.reportSize()
	return err
}

// UpsertMany upserts each document independently.
func (c *Collection) UpsertMany(docs []document.Document) []batch.Result {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := c.upsertManyLocked(docs)
	c.reportSize()
	return out
}

// ReplaceAll clears the collection and upserts docs under one lock, so no
// concurrent query observes a partially built collection.
func (c *Collection) ReplaceAll(docs []document.Document) []batch.Result {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.clearLocked()
	out := c.upsertManyLocked(docs)
	c.reportSize()
	return out
}

// Query returns at most TopK filtered documents ordered by cosine similarity
// descending, ties broken by id ascending.
func (c *Collection) Query(vec []float32, opts QueryOptions) []result.Result {
	if len(vec) == 0 {
		return nil
	}
	topK := opts.TopK
	if topK <= 0 {
		topK = DefaultTopK
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	if len(c.docs) == 0 {
		return nil
	}

	out := make([]result.Result, 0, len(c.docs))
	for _, doc := range c.docs {
		src := doc.Source()
		if !opts.Filters.Matches(&src) {
			continue
		}
		out = append(out, result.New(doc, vector.Cosine(vec, doc.Vector())))
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Score() != out[j].Score() {
			return out[i].Score() > out[j].Score()
		}
		return out[i].ID() < out[j].ID()
	})

	if len(out) > topK {
		out = out[:topK]
	}
	return out
}

// Len returns the number of stored documents.
func (c *Collection) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.docs)
}

// Dimension returns the established dimension, 0 when empty.
func (c *Collection) Dimension() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.dimension
}

// Get returns the document stored under id.
func (c *Collection) Get(id string) (document.Document, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	doc, ok := c.docs[id]
	return doc, ok
}

func (c *Collection) clearLocked() {
	c.docs = make(map[string]document.Document)
	c.dimension = 0
}

func (c *Collection) upsertLocked(doc document.Document) error {
	dim := doc.Dimension()
	if dim == 0 {
		return nil
	}
	if c.dimension == 0 {
		c.dimension = dim
	}
	if dim != c.dimension {
		metrics.UpsertRejectedTotal.WithLabelValues(c.name, "dimension_mismatch").Inc()
		return domain.NewDimensionMismatch(c.name, c.dimension, dim)
	}
	c.docs[doc.ID()] = doc
	return nil
}

func (c *Collection) upsertManyLocked(docs []document.Document) []batch.Result {
	out := make([]batch.Result, 0, len(docs))
	for _, doc := range docs {
		if err := c.upsertLocked(doc); err != nil {
			out = append(out, batch.NewError(doc.ID(), err))
			continue
		}
		out = append(out, batch.NewOK(doc.ID()))
	}
	return out
}

func (c *Collection) reportSize() {
	metrics.CollectionDocuments.WithLabelValues(c.name).Set(float64(len(c.docs)))
}
