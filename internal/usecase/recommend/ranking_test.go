package recommend

import (
	"math"
	"testing"

	"github.com/kailas-cloud/dinemite/internal/domain/recommendation"
	"github.com/kailas-cloud/dinemite/internal/domain/restaurant"
)

func TestMatchScore(t *testing.T) {
	tests := []struct {
		score float64
		want  int
	}{
		{0.87, 87},
		{0.874, 87},
		{0.875, 88},
		{1, 100},
		{1.3, 100},
		{0, 0},
		{-0.4, 0},
		{math.NaN(), 0},
		{math.Inf(1), 100},
		{math.Inf(-1), 0},
	}
	for _, tc := range tests {
		if got := MatchScore(tc.score); got != tc.want {
			t.Errorf("MatchScore(%v) = %d, want %d", tc.score, got, tc.want)
		}
	}
}

func TestBuildReason(t *testing.T) {
	r := restaurant.Restaurant{
		Name: "스시 젠", Category: "오마카세", Address: "청담동 202",
		Reviews: []restaurant.Review{
			{Content: "   "},
			{Content: "  아주 조용하고 엄숙한 분위기. "},
			{Content: "비즈니스 접대 추천."},
			{Content: "잊을 수 없는 맛."},
		},
	}
	want := "리뷰 1: 아주 조용하고 엄숙한 분위기. | 리뷰 2: 비즈니스 접대 추천."
	if got := BuildReason(r); got != want {
		t.Fatalf("BuildReason = %q, want %q", got, want)
	}

	r.Reviews = nil
	want = "스시 젠는 오마카세 카테고리의 매장으로 청담동 202에 있습니다."
	if got := BuildReason(r); got != want {
		t.Fatalf("BuildReason = %q, want %q", got, want)
	}
}

func TestRank_StableDescending(t *testing.T) {
	items := []recommendation.Recommendation{
		{ID: "a", MatchScore: 40},
		{ID: "b", MatchScore: 90},
		{ID: "c", MatchScore: 40},
		{ID: "d", MatchScore: 95},
	}
	Rank(items)
	order := ""
	for _, it := range items {
		order += it.ID
	}
	if order != "dbac" {
		t.Fatalf("unexpected order %s", order)
	}
}

type mapCatalog map[string]restaurant.Restaurant

func (m mapCatalog) Get(id string) (restaurant.Restaurant, bool) {
	r, ok := m[id]
	return r, ok
}

func TestHydrate(t *testing.T) {
	cat := mapCatalog{
		"x": {ID: "x", Name: "버거 앤 브루", Category: "수제버거 펍", Address: "이태원동 101",
			PriceRange: "$", ExternalMapURL: "https://maps.example/x", ImageURL: "https://img.example/x"},
	}
	out := Hydrate([]recommendation.Recommendation{
		{ID: "x", MatchScore: 50},
		{ID: "ghost", MatchScore: 99},
	}, cat)

	if len(out) != 1 {
		t.Fatalf("expected unknown id to be dropped, got %d items", len(out))
	}
	got := out[0]
	if got.Name != "버거 앤 브루" || got.ExternalURL != "https://maps.example/x" ||
		got.ImageURL != "https://img.example/x" || got.Category != "수제버거 펍" ||
		got.PriceRange != "$" || got.Address != "이태원동 101" || got.MatchScore != 50 {
		t.Fatalf("unexpected hydration: %+v", got)
	}
}
