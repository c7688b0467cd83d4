package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
	// ErrDimensionMismatch signals a vector whose length differs from the collection dimension.
	ErrDimensionMismatch = errors.New("vector dimension mismatch")
	// ErrInvalidFilter signals a malformed structured query filter.
	ErrInvalidFilter = errors.New("invalid filter")
	// ErrInvalidQuery signals a malformed recommendation query.
	ErrInvalidQuery = errors.New("invalid query")
	// ErrIndexNotReady signals a query issued before the initial index build finished.
	ErrIndexNotReady = errors.New("index not ready")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
	// ErrProviderNotConfigured signals a missing embedding credential.
	ErrProviderNotConfigured = errors.New("embedding provider not configured")
	// ErrRecommendationFailed is the user-visible failure of the query pipeline.
	ErrRecommendationFailed = errors.New("failed to retrieve recommendations")
)

// DimensionMismatchError wraps ErrDimensionMismatch with the expected and received lengths.
type DimensionMismatchError struct {
	Collection string
	Expected   int
	Actual     int
}

func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("%s for collection %s: expected %d, received %d",
		ErrDimensionMismatch.Error(), e.Collection, e.Expected, e.Actual)
}

func (e *DimensionMismatchError) Unwrap() error { return ErrDimensionMismatch }

// NewDimensionMismatch creates a dimension mismatch error.
func NewDimensionMismatch(collection string, expected, actual int) error {
	return &DimensionMismatchError{Collection: collection, Expected: expected, Actual: actual}
}
