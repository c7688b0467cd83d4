// Package seed loads the restaurant dataset.
package seed

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/kailas-cloud/dinemite/internal/domain/restaurant"
)

//go:embed restaurants.yaml
var builtin []byte

// Builtin returns the catalog compiled into the binary.
func Builtin() (*restaurant.Catalog, error) {
	return parse(builtin)
}

// Load reads a catalog from path, or returns the builtin one when path is empty.
func Load(path string) (*restaurant.Catalog, error) {
	if path == "" {
		return Builtin()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read restaurants %s: %w", path, err)
	}
	cat, err := parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cat, nil
}

func parse(data []byte) (*restaurant.Catalog, error) {
	var items []restaurant.Restaurant
	if err := yaml.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("parse restaurants: %w", err)
	}
	cat, err := restaurant.NewCatalog(items)
	if err != nil {
		return nil, fmt.Errorf("validate restaurants: %w", err)
	}
	return cat, nil
}
