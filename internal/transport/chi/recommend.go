package chi

import (
	"encoding/json"
	"net/http"

	"github.com/kailas-cloud/dinemite/internal/domain/recommendation"
	recommenduc "github.com/kailas-cloud/dinemite/internal/usecase/recommend"
)

// RecommendFilters are the optional structured constraints of a query.
type RecommendFilters struct {
	Category   string `json:"category,omitempty"`
	PriceRange string `json:"priceRange,omitempty"`
	Budget     string `json:"budget,omitempty"`
	Location   string `json:"location,omitempty"`
}

// RecommendRequest is the body of POST /api/recommendations.
type RecommendRequest struct {
	Query   string            `json:"query"`
	Filters *RecommendFilters `json:"filters,omitempty"`
	TopK    int               `json:"top_k,omitempty"`
}

// RecommendResponse is the body of a successful recommendation query.
type RecommendResponse struct {
	State   recommendation.State             `json:"state"`
	Results []recommendation.Recommendation `json:"results"`
}

// Recommend handles POST /api/recommendations.
func (s *Server) Recommend(w http.ResponseWriter, r *http.Request) {
	var req RecommendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	q := recommenduc.Query{Text: req.Query, TopK: req.TopK}
	if req.Filters != nil {
		q.Category = req.Filters.Category
		q.PriceRange = req.Filters.PriceRange
		q.Budget = req.Filters.Budget
		q.Location = req.Filters.Location
	}

	recs, err := s.recommend.Recommend(r.Context(), q)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	if recs == nil {
		recs = []recommendation.Recommendation{}
	}

	writeJSON(w, http.StatusOK, RecommendResponse{
		State:   recommendation.Outcome(recs, nil),
		Results: recs,
	})
}
