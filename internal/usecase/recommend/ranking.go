package recommend

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/kailas-cloud/dinemite/internal/domain/recommendation"
	"github.com/kailas-cloud/dinemite/internal/domain/restaurant"
	"github.com/kailas-cloud/dinemite/internal/domain/search/result"
)

const maxReasonSnippets = 2

// MatchScore converts a similarity into an integer percentage in [0, 100].
// NaN maps to 0.
func MatchScore(score float64) int {
	if math.IsNaN(score) {
		return 0
	}
	v := math.Round(score * 100)
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return int(v)
}

// BuildReason quotes up to two reviews, or describes the restaurant when it has none.
func BuildReason(r restaurant.Restaurant) string {
	snippets := make([]string, 0, maxReasonSnippets)
	for _, content := range r.ReviewContents() {
		s := strings.TrimSpace(content)
		if s == "" {
			continue
		}
		snippets = append(snippets, fmt.Sprintf("리뷰 %d: %s", len(snippets)+1, s))
		if len(snippets) == maxReasonSnippets {
			break
		}
	}
	if len(snippets) == 0 {
		return fmt.Sprintf("%s는 %s 카테고리의 매장으로 %s에 있습니다.", r.Name, r.Category, r.Address)
	}
	return strings.Join(snippets, " | ")
}

// Rank sorts by match score descending, keeping input order among equals.
func Rank(items []recommendation.Recommendation) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].MatchScore > items[j].MatchScore
	})
}

// Format turns a search hit into a recommendation using the indexed document.
func Format(res result.Result) recommendation.Recommendation {
	doc := res.Document()
	src := doc.Source()
	meta := doc.Metadata()
	return recommendation.Recommendation{
		ID:         res.ID(),
		Name:       meta.Name,
		MatchScore: MatchScore(res.Score()),
		Reason:     BuildReason(src),
		Tags:       meta.Tags,
	}
}

// Hydrate fills display fields from the catalog. Unknown ids are dropped.
func Hydrate(items []recommendation.Recommendation, cat Catalog) []recommendation.Recommendation {
	out := make([]recommendation.Recommendation, 0, len(items))
	for _, it := range items {
		r, ok := cat.Get(it.ID)
		if !ok {
			continue
		}
		it.Name = r.Name
		it.ExternalURL = r.ExternalMapURL
		it.ImageURL = r.ImageURL
		it.Category = r.Category
		it.PriceRange = string(r.PriceRange)
		it.Address = r.Address
		out = append(out, it)
	}
	return out
}
