package health

import "context"

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates partial failure. Queries are still served.
	Degraded Status = "degraded"
	// Unhealthy indicates the service cannot answer queries.
	Unhealthy Status = "error"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
	// CheckFallback indicates no remote provider is configured and local vectors are used.
	CheckFallback CheckResult = "fallback"
	// CheckPending indicates the index is still being built.
	CheckPending CheckResult = "pending"
)

// Report aggregates health check results.
type Report struct {
	Status Status                 `json:"status"`
	Checks map[string]CheckResult `json:"checks"`
}

// Service coordinates health checks.
type Service struct {
	index     IndexReadiness
	embedding EmbeddingChecker
	cache     CachePinger
}

// New creates a Service. embedding nil means fallback-only mode; cache can be nil.
func New(index IndexReadiness, embedding EmbeddingChecker, cache CachePinger) *Service {
	return &Service{index: index, embedding: embedding, cache: cache}
}

// Check runs health checks against all components.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)
	status := Healthy

	if s.index.Ready() {
		checks["index"] = CheckOK
	} else {
		checks["index"] = CheckPending
		status = Unhealthy
	}

	if s.embedding == nil {
		checks["embedding"] = CheckFallback
	} else if err := s.embedding.HealthCheck(ctx); err != nil {
		checks["embedding"] = CheckError
		status = degrade(status)
	} else {
		checks["embedding"] = CheckOK
	}

	if s.cache != nil {
		if err := s.cache.Ping(ctx); err != nil {
			checks["cache"] = CheckError
			status = degrade(status)
		} else {
			checks["cache"] = CheckOK
		}
	}

	return Report{Status: status, Checks: checks}
}

func degrade(s Status) Status {
	if s == Healthy {
		return Degraded
	}
	return s
}
