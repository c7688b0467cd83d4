package filter

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/kailas-cloud/dinemite/internal/domain/restaurant"
)

// MaxLocationLength is the maximum location filter length in runes.
const MaxLocationLength = 128

// Filters is a conjunctive structured predicate over restaurants.
// Zero value matches everything.
type Filters struct {
	category   string
	priceRange restaurant.PriceRange
	location   string
}

// New validates and creates Filters.
// category: exact match. priceRange/budget: exact tier match, budget is an alias
// and wins when both are set. location: case-insensitive substring of address.
func New(category, priceRange, budget, location string) (Filters, error) {
	category = strings.TrimSpace(category)
	location = strings.TrimSpace(location)

	tier := strings.TrimSpace(priceRange)
	if b := strings.TrimSpace(budget); b != "" {
		tier = b
	}
	pr := restaurant.PriceRange(tier)
	if pr != "" && !pr.IsValid() {
		return Filters{}, fmt.Errorf("price range must be one of $, $$, $$$, $$$$, got %q", tier)
	}
	if utf8.RuneCountInString(location) > MaxLocationLength {
		return Filters{}, fmt.Errorf("location too long (max %d chars)", MaxLocationLength)
	}

	return Filters{category: category, priceRange: pr, location: location}, nil
}

// Category returns the exact category constraint.
func (f Filters) Category() string { return f.category }

// PriceRange returns the exact price tier constraint.
func (f Filters) PriceRange() restaurant.PriceRange { return f.priceRange }

// Location returns the address substring constraint.
func (f Filters) Location() string { return f.location }

// IsEmpty reports whether no predicate is set.
func (f Filters) IsEmpty() bool {
	return f.category == "" && f.priceRange == "" && f.location == ""
}

// Matches reports whether r passes every specified predicate.
func (f Filters) Matches(r *restaurant.Restaurant) bool {
	if f.category != "" && r.Category != f.category {
		return false
	}
	if f.priceRange != "" && r.PriceRange != f.priceRange {
		return false
	}
	if f.location != "" &&
		!strings.Contains(strings.ToLower(r.Address), strings.ToLower(f.location)) {
		return false
	}
	return true
}
