package recommendation

// Recommendation is the presentation-facing projection of a ranked restaurant.
type Recommendation struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	MatchScore  int      `json:"match_score"`
	Reason      string   `json:"reason"`
	Tags        []string `json:"tags"`
	ExternalURL string   `json:"external_url"`
	ImageURL    string   `json:"image_url"`
	Category    string   `json:"category"`
	PriceRange  string   `json:"price_range"`
	Address     string   `json:"address,omitempty"`
}
