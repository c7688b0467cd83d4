package dinemite

import (
	"github.com/kailas-cloud/dinemite/internal/domain/recommendation"
)

// State is the lifecycle of the latest recommendation query.
type State = recommendation.State

// Query states.
const (
	StateIdle    = recommendation.StateIdle
	StateLoading = recommendation.StateLoading
	StateSuccess = recommendation.StateSuccess
	StateEmpty   = recommendation.StateEmpty
	StateError   = recommendation.StateError
)

// Recommendation is a ranked restaurant with its justification.
type Recommendation = recommendation.Recommendation

// Filters are optional structured constraints. Budget is an alias of
// PriceRange and wins when both are set.
type Filters struct {
	Category   string `json:"category,omitempty"`
	PriceRange string `json:"priceRange,omitempty"`
	Budget     string `json:"budget,omitempty"`
	Location   string `json:"location,omitempty"`
}

// Query is a free-text recommendation request.
type Query struct {
	Text    string
	Filters *Filters
	TopK    int // 0 uses the server default
}

// IndexSummary describes one reindex run.
type IndexSummary struct {
	RunID      string `json:"run_id"`
	Indexed    int    `json:"indexed"`
	Rejected   int    `json:"rejected"`
	Collection string `json:"collection"`
}

// HealthStatus represents the aggregated service health.
type HealthStatus struct {
	Status string            `json:"status"` // "ok", "degraded", "error"
	Checks map[string]string `json:"checks"` // component → "ok"/"error"/"pending"/"fallback"
}
