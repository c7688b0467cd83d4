package indexing

import (
	"context"
	"fmt"
	"strings"

	domdoc "github.com/kailas-cloud/dinemite/internal/domain/document"
	"github.com/kailas-cloud/dinemite/internal/domain/restaurant"
	"github.com/kailas-cloud/dinemite/internal/textnorm"
)

// MaxTags caps the number of display tags per restaurant.
const MaxTags = 4

// vibeWords are matched literally against raw review text, in this order.
var vibeWords = []string{"조용", "데이트", "가족", "회식", "매운", "가성비", "오마카세"}

// Builder turns restaurants into indexable documents.
type Builder struct {
	embed Embedder
}

// NewBuilder creates a document builder.
func NewBuilder(embed Embedder) *Builder {
	return &Builder{embed: embed}
}

// Build derives the searchable text, metadata and vector for r.
func (b *Builder) Build(ctx context.Context, r restaurant.Restaurant) (domdoc.Document, error) {
	raw := RawText(r)
	normalized := textnorm.Normalize(raw)

	res, err := b.embed.Embed(ctx, normalized)
	if err != nil {
		return domdoc.Document{}, fmt.Errorf("vectorize restaurant %s: %w", r.ID, err)
	}

	tags := BuildTags(r)
	meta := domdoc.Metadata{
		ID:         r.ID,
		Name:       r.Name,
		Category:   r.Category,
		PriceRange: r.PriceRange,
		Address:    r.Address,
		Rating:     r.Rating,
		Tags:       tags,
		Keywords:   BuildKeywords(r, tags),
	}

	doc, err := domdoc.New(r, res.Embedding, meta, normalized, raw)
	if err != nil {
		return domdoc.Document{}, fmt.Errorf("build document: %w", err)
	}
	return doc, nil
}

// RawText joins name, category, address and the space-joined review contents
// with " | ", skipping empty parts.
func RawText(r restaurant.Restaurant) string {
	parts := []string{r.Name, r.Category, r.Address, strings.Join(r.ReviewContents(), " ")}
	out := parts[:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, " | ")
}

// BuildTags returns at most MaxTags display tags in insertion order:
// category, price tier, then vibe words found in the reviews.
func BuildTags(r restaurant.Restaurant) []string {
	set := newOrderedSet()
	set.add("#" + textnorm.Normalize(r.Category))
	set.add("#" + strings.ReplaceAll(string(r.PriceRange), "$", "원") + "대")

	for _, word := range vibeWords {
		for _, content := range r.ReviewContents() {
			if strings.Contains(content, word) {
				set.add("#" + word)
				break
			}
		}
	}

	tags := set.items
	if len(tags) > MaxTags {
		tags = tags[:MaxTags]
	}
	return tags
}

// BuildKeywords returns the normalized category, price range, address and
// tag words, deduplicated in first-occurrence order with empties removed.
func BuildKeywords(r restaurant.Restaurant, tags []string) []string {
	set := newOrderedSet()
	set.add(textnorm.Normalize(r.Category))
	set.add(textnorm.Normalize(string(r.PriceRange)))
	set.add(textnorm.Normalize(r.Address))
	for _, tag := range tags {
		set.add(textnorm.Normalize(strings.TrimPrefix(tag, "#")))
	}

	out := make([]string, 0, len(set.items))
	for _, k := range set.items {
		if k != "" {
			out = append(out, k)
		}
	}
	return out
}

type orderedSet struct {
	seen  map[string]struct{}
	items []string
}

func newOrderedSet() *orderedSet {
	return &orderedSet{seen: make(map[string]struct{})}
}

func (s *orderedSet) add(v string) {
	if _, ok := s.seen[v]; ok {
		return
	}
	s.seen[v] = struct{}{}
	s.items = append(s.items, v)
}
