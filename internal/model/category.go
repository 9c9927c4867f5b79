package model

import (
	"fmt"
	"strconv"
	"strings"
)

// NoCategory is the "none selected" value. It never names a real category.
const NoCategory = 0

// Category is a fixed classification label for list items.
type Category struct {
	ID   int    `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

// Catalog is the ordered, read-only set of known categories.
type Catalog struct {
	cats  []Category
	index map[int]int
}

// DefaultCategories ships with the binary and is used when the config
// file does not provide its own list.
func DefaultCategories() []Category {
	return []Category{
		{ID: 1, Name: "Fruits"},
		{ID: 2, Name: "Vegetables"},
		{ID: 3, Name: "Bakery"},
		{ID: 4, Name: "Dairy"},
		{ID: 5, Name: "Meat"},
		{ID: 6, Name: "Beverages"},
		{ID: 7, Name: "Cleaning"},
		{ID: 8, Name: "Hygiene"},
		{ID: 9, Name: "Other"},
	}
}

// NewCatalog validates cats and returns a catalog preserving their order.
func NewCatalog(cats []Category) (*Catalog, error) {
	if len(cats) == 0 {
		return nil, fmt.Errorf("catalog: no categories")
	}
	c := &Catalog{
		cats:  make([]Category, 0, len(cats)),
		index: make(map[int]int, len(cats)),
	}
	for _, cat := range cats {
		if cat.ID <= NoCategory {
			return nil, fmt.Errorf("catalog: category %q: id must be > 0, got %d", cat.Name, cat.ID)
		}
		if strings.TrimSpace(cat.Name) == "" {
			return nil, fmt.Errorf("catalog: category %d: empty name", cat.ID)
		}
		if _, dup := c.index[cat.ID]; dup {
			return nil, fmt.Errorf("catalog: duplicate category id %d", cat.ID)
		}
		c.index[cat.ID] = len(c.cats)
		c.cats = append(c.cats, cat)
	}
	return c, nil
}

// MustCatalog is NewCatalog for static data known to be valid.
func MustCatalog(cats []Category) *Catalog {
	c, err := NewCatalog(cats)
	if err != nil {
		panic(err)
	}
	return c
}

// Categories returns a copy of the catalog in its declared order.
func (c *Catalog) Categories() []Category {
	out := make([]Category, len(c.cats))
	copy(out, c.cats)
	return out
}

func (c *Catalog) Lookup(id int) (Category, bool) {
	i, ok := c.index[id]
	if !ok {
		return Category{}, false
	}
	return c.cats[i], true
}

// Valid reports whether id references a known category.
func (c *Catalog) Valid(id int) bool {
	_, ok := c.index[id]
	return ok
}

// Name returns the category name for id, or "" when unknown.
func (c *Catalog) Name(id int) string {
	cat, _ := c.Lookup(id)
	return cat.Name
}

// Resolve accepts either a numeric id or a case-insensitive category name.
func (c *Catalog) Resolve(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if id, err := strconv.Atoi(s); err == nil {
		return id, c.Valid(id)
	}
	for _, cat := range c.cats {
		if strings.EqualFold(cat.Name, s) {
			return cat.ID, true
		}
	}
	return NoCategory, false
}
