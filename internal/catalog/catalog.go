// Package catalog is the furniture dimension table. Agent commands and the
// furniture tool resolve a furniture type here before placing anything.
package catalog

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed furniture.yaml
var furnitureYAML []byte

// Item describes one furniture type.
type Item struct {
	Type     string  `yaml:"type" json:"type"`
	Label    string  `yaml:"label" json:"label"`
	Category string  `yaml:"category" json:"category"`
	Width    float64 `yaml:"width" json:"width"`
	Depth    float64 `yaml:"depth" json:"depth"`
}

// Catalog maps furniture types to their default dimensions.
type Catalog struct {
	items map[string]Item
	types []string
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
	defaultErr     error
)

// Default returns the embedded catalog. It panics if the embedded table is
// malformed, which only a broken build can cause.
func Default() *Catalog {
	defaultOnce.Do(func() {
		defaultCatalog, defaultErr = Parse(furnitureYAML)
	})
	if defaultErr != nil {
		panic(fmt.Sprintf("catalog: embedded furniture table: %v", defaultErr))
	}
	return defaultCatalog
}

// Parse builds a catalog from a YAML list of items.
func Parse(data []byte) (*Catalog, error) {
	var items []Item
	if err := yaml.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("parse furniture table: %w", err)
	}

	c := &Catalog{items: make(map[string]Item, len(items))}
	for i, it := range items {
		it.Type = normalizeType(it.Type)
		if it.Type == "" {
			return nil, fmt.Errorf("item %d: type is required", i)
		}
		if it.Width <= 0 || it.Depth <= 0 {
			return nil, fmt.Errorf("item %q: width and depth must be positive", it.Type)
		}
		if _, dup := c.items[it.Type]; dup {
			return nil, fmt.Errorf("item %q: duplicate type", it.Type)
		}
		c.items[it.Type] = it
		c.types = append(c.types, it.Type)
	}
	sort.Strings(c.types)
	return c, nil
}

// Lookup returns the item for a furniture type. Matching ignores case and
// treats spaces and underscores as hyphens.
func (c *Catalog) Lookup(furnitureType string) (Item, bool) {
	it, ok := c.items[normalizeType(furnitureType)]
	return it, ok
}

// Types returns every known furniture type, sorted.
func (c *Catalog) Types() []string {
	return append([]string(nil), c.types...)
}

func normalizeType(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.NewReplacer(" ", "-", "_", "-").Replace(s)
	return s
}
