package request

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/kailas-cloud/dinemite/internal/domain/search/filter"
)

// Query parameter limits.
const (
	// MaxQueryLength is the maximum query length in runes.
	MaxQueryLength = 1000
	DefaultTopK    = 5
	MaxTopK        = 20
)

// Request is a validated recommendation query.
type Request struct {
	text    string
	filters filter.Filters
	topK    int
}

// New validates the query. topK <= 0 falls back to DefaultTopK, larger values clamp to MaxTopK.
func New(text string, filters filter.Filters, topK int) (Request, error) {
	return NewWithLimits(text, filters, topK, DefaultTopK, MaxTopK)
}

// NewWithLimits is New with caller-supplied topK default and ceiling.
func NewWithLimits(text string, filters filter.Filters, topK, defaultTopK, maxTopK int) (Request, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Request{}, fmt.Errorf("query is required")
	}
	if utf8.RuneCountInString(text) > MaxQueryLength {
		return Request{}, fmt.Errorf("query too long (max %d chars)", MaxQueryLength)
	}
	if topK <= 0 {
		topK = defaultTopK
	}
	if topK > maxTopK {
		topK = maxTopK
	}
	return Request{text: text, filters: filters, topK: topK}, nil
}

// Text returns the trimmed free-text query.
func (r *Request) Text() string { return r.text }

// Filters returns the structured predicate.
func (r *Request) Filters() filter.Filters { return r.filters }

// TopK returns the maximum number of results.
func (r *Request) TopK() int { return r.topK }
