// Package catalog loads the bundled restaurant/pharmacy dataset once at
// startup and answers lookup, search and filter queries over it. The data is
// read-only for the lifetime of the process.
package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"foodie-app/models"
)

// Catalog is the in-memory vendor dataset.
type Catalog struct {
	restaurants []models.Restaurant
	byID        map[string]int
}

// Load reads the catalog asset from path.
func Load(path string) (*Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog asset: %w", err)
	}
	var doc struct {
		Restaurants []models.Restaurant `json:"restaurants"`
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse catalog asset: %w", err)
	}

	c := &Catalog{
		restaurants: doc.Restaurants,
		byID:        make(map[string]int, len(doc.Restaurants)),
	}
	for i, r := range doc.Restaurants {
		if r.ID == "" {
			return nil, fmt.Errorf("catalog entry %q has no id", r.Name)
		}
		if _, dup := c.byID[r.ID]; dup {
			return nil, fmt.Errorf("duplicate catalog id %q", r.ID)
		}
		c.byID[r.ID] = i
	}
	return c, nil
}

// All returns every vendor, sorted by name.
func (c *Catalog) All() []models.Restaurant {
	out := make([]models.Restaurant, len(c.restaurants))
	copy(out, c.restaurants)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// ByID looks a vendor up by its catalog id.
func (c *Catalog) ByID(id string) (models.Restaurant, bool) {
	i, ok := c.byID[id]
	if !ok {
		return models.Restaurant{}, false
	}
	return c.restaurants[i], true
}

// IDs returns every catalog id.
func (c *Catalog) IDs() []string {
	ids := make([]string, 0, len(c.restaurants))
	for _, r := range c.restaurants {
		ids = append(ids, r.ID)
	}
	return ids
}

// ByKind filters vendors by kind ("restaurant", "pharmacy"). An empty kind
// returns everything.
func (c *Catalog) ByKind(kind string) []models.Restaurant {
	if kind == "" {
		return c.All()
	}
	var out []models.Restaurant
	for _, r := range c.All() {
		if strings.EqualFold(r.Kind, kind) {
			out = append(out, r)
		}
	}
	return out
}

// Search matches a case-insensitive substring against vendor names, cuisines
// and menu item names.
func (c *Catalog) Search(query string) []models.Restaurant {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return c.All()
	}
	var out []models.Restaurant
	for _, r := range c.All() {
		if matches(r, q) {
			out = append(out, r)
		}
	}
	return out
}

// FindItem resolves a menu item by name within a vendor, so quantities posted
// by clients are always priced from reference data.
func (c *Catalog) FindItem(restaurantID, itemName string) (models.MenuItem, bool) {
	r, ok := c.ByID(restaurantID)
	if !ok {
		return models.MenuItem{}, false
	}
	for _, item := range r.Menu {
		if strings.EqualFold(item.Name, itemName) {
			return item, true
		}
	}
	return models.MenuItem{}, false
}

func matches(r models.Restaurant, q string) bool {
	if strings.Contains(strings.ToLower(r.Name), q) ||
		strings.Contains(strings.ToLower(r.Cuisine), q) {
		return true
	}
	for _, item := range r.Menu {
		if strings.Contains(strings.ToLower(item.Name), q) {
			return true
		}
	}
	return false
}
