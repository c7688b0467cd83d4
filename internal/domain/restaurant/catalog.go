package restaurant

import "fmt"

// Catalog is an ordered, read-only set of restaurants indexed by ID.
type Catalog struct {
	items []Restaurant
	byID  map[string]int
}

// NewCatalog validates the records and builds a catalog.
// Duplicate IDs are rejected.
func NewCatalog(items []Restaurant) (*Catalog, error) {
	c := &Catalog{
		items: make([]Restaurant, 0, len(items)),
		byID:  make(map[string]int, len(items)),
	}
	for i := range items {
		if err := items[i].Validate(); err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		if _, dup := c.byID[items[i].ID]; dup {
			return nil, fmt.Errorf("item %d: duplicate restaurant ID %q", i, items[i].ID)
		}
		c.byID[items[i].ID] = len(c.items)
		c.items = append(c.items, items[i])
	}
	return c, nil
}

// Get returns the restaurant with the given ID.
func (c *Catalog) Get(id string) (Restaurant, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Restaurant{}, false
	}
	return c.items[i], true
}

// All returns a copy of the restaurants in load order.
func (c *Catalog) All() []Restaurant {
	out := make([]Restaurant, len(c.items))
	copy(out, c.items)
	return out
}

// Len returns the number of restaurants.
func (c *Catalog) Len() int { return len(c.items) }
