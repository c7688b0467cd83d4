package result

import "github.com/kailas-cloud/dinemite/internal/domain/document"

// Result is a single similarity hit.
type Result struct {
	doc   document.Document
	score float64
}

// New creates a search result.
func New(doc document.Document, score float64) Result {
	return Result{doc: doc, score: score}
}

// ID returns the document identifier.
func (r *Result) ID() string { return r.doc.ID() }

// Score returns the cosine similarity.
func (r *Result) Score() float64 { return r.score }

// Document returns the matched document.
func (r *Result) Document() document.Document { return r.doc }
