package chi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/dinemite/internal/domain"
	"github.com/kailas-cloud/dinemite/internal/domain/restaurant"
	healthuc "github.com/kailas-cloud/dinemite/internal/usecase/health"
	"github.com/kailas-cloud/dinemite/internal/usecase/indexing"
	recommenduc "github.com/kailas-cloud/dinemite/internal/usecase/recommend"
)

// Error codes returned alongside error messages.
const (
	CodeBadRequest       = "bad_request"
	CodeValidationFailed = "validation_failed"
	CodeUnauthorized     = "unauthorized"
	CodeIndexNotReady    = "index_not_ready"
	CodeNotFound         = "not_found"
	CodeProviderError    = "embedding_provider_error"
	CodeInternalError    = "internal_error"
)

// ErrorResponse is the JSON error body.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error) bool

// Server serves the recommendation HTTP API.
type Server struct {
	recommend     *recommenduc.Service
	indexer       *indexing.Indexer
	catalog       *restaurant.Catalog
	proxy         EmbeddingProxy
	health        *healthuc.Service
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	recommend *recommenduc.Service,
	indexer *indexing.Indexer,
	catalog *restaurant.Catalog,
	proxy EmbeddingProxy,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	s := &Server{
		recommend: recommend,
		indexer:   indexer,
		catalog:   catalog,
		proxy:     proxy,
		health:    health,
		logger:    logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrInvalidFilter, http.StatusBadRequest, CodeValidationFailed, ""),
		sentinelHandler(domain.ErrInvalidQuery, http.StatusBadRequest, CodeValidationFailed, ""),
		sentinelHandler(domain.ErrIndexNotReady, http.StatusServiceUnavailable, CodeIndexNotReady, ""),
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, CodeNotFound, ""),
		sentinelHandler(domain.ErrRecommendationFailed, http.StatusInternalServerError, CodeInternalError,
			domain.ErrRecommendationFailed.Error()),
	}
	return s
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, report)
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{Error: message, Code: code})
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
// An empty msg exposes the wrapped error text, which for validation sentinels
// carries the offending field.
func sentinelHandler(sentinel error, status int, code, msg string) errorHandler {
	return func(w http.ResponseWriter, err error) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		text := msg
		if text == "" {
			text = err.Error()
		}
		writeError(w, status, code, text)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	for _, h := range s.errorHandlers {
		if h(w, err) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, CodeInternalError, domain.ErrRecommendationFailed.Error())
}
