package document

import (
	"fmt"

	"github.com/kailas-cloud/dinemite/internal/domain/restaurant"
)

// Metadata is the filterable projection derived from a restaurant.
type Metadata struct {
	ID         string
	Name       string
	Category   string
	PriceRange restaurant.PriceRange
	Address    string
	Rating     *float64
	Tags       []string
	Keywords   []string
}

// Document is an indexed restaurant (immutable value object).
type Document struct {
	id             string
	vector         []float32
	metadata       Metadata
	normalizedText string
	rawText        string
	source         restaurant.Restaurant
}

// New validates and creates a Document. The ID mirrors the source restaurant ID.
func New(
	src restaurant.Restaurant, vec []float32, meta Metadata,
	normalizedText, rawText string,
) (Document, error) {
	if src.ID == "" {
		return Document{}, fmt.Errorf("document ID is required")
	}
	if meta.ID != "" && meta.ID != src.ID {
		return Document{}, fmt.Errorf("metadata ID %q does not match restaurant %q", meta.ID, src.ID)
	}
	meta.ID = src.ID

	return Document{
		id:             src.ID,
		vector:         cloneVector(vec),
		metadata:       meta,
		normalizedText: normalizedText,
		rawText:        rawText,
		source:         src,
	}, nil
}

// ID returns the document identifier.
func (d *Document) ID() string { return d.id }

// Vector returns the embedding vector.
func (d *Document) Vector() []float32 { return d.vector }

// Dimension returns the vector length.
func (d *Document) Dimension() int { return len(d.vector) }

// Metadata returns the derived metadata.
func (d *Document) Metadata() Metadata { return d.metadata }

// NormalizedText returns the text that was embedded.
func (d *Document) NormalizedText() string { return d.normalizedText }

// RawText returns the searchable text before normalization.
func (d *Document) RawText() string { return d.rawText }

// Source returns the restaurant the document was built from.
func (d *Document) Source() restaurant.Restaurant { return d.source }

func cloneVector(v []float32) []float32 {
	if v == nil {
		return nil
	}
	c := make([]float32, len(v))
	copy(c, v)
	return c
}
