package restaurant

import (
	"fmt"
	"strings"
)

// PriceRange is the price tier token of a restaurant.
type PriceRange string

// Price tiers, cheapest first.
const (
	PriceBudget   PriceRange = "$"
	PriceModerate PriceRange = "$$"
	PriceUpscale  PriceRange = "$$$"
	PriceLuxury   PriceRange = "$$$$"
)

// IsValid reports whether p is one of the known tiers.
func (p PriceRange) IsValid() bool {
	switch p {
	case PriceBudget, PriceModerate, PriceUpscale, PriceLuxury:
		return true
	}
	return false
}

// Review is a single free-text review snippet.
type Review struct {
	Content string `yaml:"content" json:"content"`
}

// Restaurant is the immutable source record loaded at startup.
type Restaurant struct {
	ID             string     `yaml:"id" json:"id"`
	Name           string     `yaml:"name" json:"name"`
	Category       string     `yaml:"category" json:"category"`
	Address        string     `yaml:"address" json:"address"`
	ExternalMapURL string     `yaml:"external_map_url" json:"external_map_url"`
	ImageURL       string     `yaml:"image_url" json:"image_url"`
	PriceRange     PriceRange `yaml:"price_range" json:"price_range"`
	Rating         *float64   `yaml:"rating,omitempty" json:"rating,omitempty"`
	Reviews        []Review   `yaml:"reviews" json:"reviews"`
}

// Validate checks the fields the retrieval pipeline relies on.
func (r *Restaurant) Validate() error {
	if strings.TrimSpace(r.ID) == "" {
		return fmt.Errorf("restaurant ID is required")
	}
	if strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("restaurant %s: name is required", r.ID)
	}
	if r.PriceRange != "" && !r.PriceRange.IsValid() {
		return fmt.Errorf("restaurant %s: unknown price range %q", r.ID, r.PriceRange)
	}
	if r.Rating != nil && (*r.Rating < 0 || *r.Rating > 5) {
		return fmt.Errorf("restaurant %s: rating must be between 0 and 5", r.ID)
	}
	return nil
}

// ReviewContents returns the raw review texts in source order.
func (r *Restaurant) ReviewContents() []string {
	out := make([]string, len(r.Reviews))
	for i, rev := range r.Reviews {
		out[i] = rev.Content
	}
	return out
}
