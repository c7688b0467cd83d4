package chi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/kailas-cloud/dinemite/internal/domain/search/filter"
)

// ReindexRequest optionally restricts a rebuild to matching restaurants.
type ReindexRequest struct {
	Filters *RecommendFilters `json:"filters,omitempty"`
}

// Reindex handles POST /api/index/reindex. It rebuilds the collection from the
// loaded catalog. An empty body rebuilds everything.
func (s *Server) Reindex(w http.ResponseWriter, r *http.Request) {
	var req ReindexRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	var f filter.Filters
	if req.Filters != nil {
		var err error
		f, err = filter.New(req.Filters.Category, req.Filters.PriceRange, req.Filters.Budget, req.Filters.Location)
		if err != nil {
			writeError(w, http.StatusBadRequest, CodeValidationFailed, err.Error())
			return
		}
	}

	summary, err := s.indexer.Warm(r.Context(), s.catalog.All(), f)
	if err != nil {
		s.logger.Error("Reindex failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, CodeInternalError, "reindex failed")
		return
	}
	writeJSON(w, http.StatusOK, summary)
}
