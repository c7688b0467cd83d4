package dinemite

import (
	"fmt"

	"github.com/kailas-cloud/dinemite/internal/domain"
)

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrNotFound               = domain.ErrNotFound
	ErrInvalidQuery           = domain.ErrInvalidQuery
	ErrIndexNotReady          = domain.ErrIndexNotReady
	ErrEmbeddingProviderError = domain.ErrEmbeddingProviderError
	ErrProviderNotConfigured  = domain.ErrProviderNotConfigured
	ErrRecommendationFailed   = domain.ErrRecommendationFailed
)

// APIError is a non-2xx response from the service.
type APIError struct {
	Status  int
	Code    string
	Message string
	Details string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("dinemite: %d %s: %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("dinemite: %d: %s", e.Status, e.Message)
}

// Unwrap maps the response onto a sentinel so callers can use errors.Is.
func (e *APIError) Unwrap() error {
	switch e.Code {
	case "validation_failed", "bad_request":
		return domain.ErrInvalidQuery
	case "index_not_ready":
		return domain.ErrIndexNotReady
	case "not_found":
		return domain.ErrNotFound
	}
	switch e.Message {
	case "Server embedding key is not configured.":
		return domain.ErrProviderNotConfigured
	case "Embedding provider request failed.", "Failed to generate embedding.":
		return domain.ErrEmbeddingProviderError
	case "failed to retrieve recommendations":
		return domain.ErrRecommendationFailed
	}
	return nil
}
