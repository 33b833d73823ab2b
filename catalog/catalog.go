package catalog

import (
	"encoding/json"
	"fmt"
	"os"
)

// Category represents one item group from the ERP with its pricing policy.
type Category struct {
	Code            int64   `json:"code"`
	Name            string  `json:"name"`
	TargetMarginPct float64 `json:"target_margin_pct"`
	SoldByAC        bool    `json:"sold_by_ac"`
}

// Catalog is the read-only category table, keyed by group code.
// It is loaded once at process start and never mutated afterwards.
type Catalog struct {
	byCode map[int64]Category
}

// New builds a catalog from a list of categories.
// Returns an error on an empty list or a duplicated group code.
func New(categories []Category) (*Catalog, error) {
	if len(categories) == 0 {
		return nil, fmt.Errorf("category catalog is empty")
	}

	byCode := make(map[int64]Category, len(categories))
	for _, cat := range categories {
		if cat.Name == "" {
			return nil, fmt.Errorf("category %d has no name", cat.Code)
		}
		if _, exists := byCode[cat.Code]; exists {
			return nil, fmt.Errorf("duplicate category code %d", cat.Code)
		}
		byCode[cat.Code] = cat
	}

	return &Catalog{byCode: byCode}, nil
}

// Load reads the category catalog from a JSON file.
// A missing or malformed file is a fatal condition for the caller: no fetch
// may start without a valid catalog.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read category catalog: %w", err)
	}

	var categories []Category
	if err := json.Unmarshal(data, &categories); err != nil {
		return nil, fmt.Errorf("failed to parse category catalog: %w", err)
	}

	return New(categories)
}

// Lookup returns the category for a group code.
func (c *Catalog) Lookup(code int64) (Category, bool) {
	cat, ok := c.byCode[code]
	return cat, ok
}

// Len returns the number of categories in the catalog.
func (c *Catalog) Len() int {
	return len(c.byCode)
}
