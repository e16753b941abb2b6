package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Product is one purchasable catalog record.
type Product struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Price    float64  `json:"price"`
	Currency string   `json:"currency"`
	Category string   `json:"category,omitempty"`
	Color    string   `json:"color,omitempty"`
	Size     string   `json:"size,omitempty"`
	Tags     []string `json:"tags,omitempty"`
}

// Filter is a conjunction of optional criteria. Zero values are ignored.
type Filter struct {
	Category    string
	MaxPrice    *float64
	Color       string
	SearchQuery string
}

// Catalog is an immutable, ordered list of products.
type Catalog struct {
	products []Product
	byID     map[string]int
}

func New(products []Product) (*Catalog, error) {
	c := &Catalog{
		products: make([]Product, 0, len(products)),
		byID:     make(map[string]int, len(products)),
	}
	for _, p := range products {
		id := strings.TrimSpace(p.ID)
		if id == "" {
			return nil, fmt.Errorf("catalog product %q has empty id", p.Name)
		}
		if _, dup := c.byID[id]; dup {
			return nil, fmt.Errorf("catalog product id %q is duplicated", id)
		}
		p.ID = id
		c.byID[id] = len(c.products)
		c.products = append(c.products, p)
	}
	return c, nil
}

// Load reads a JSON array of products. A missing file yields an empty catalog.
func Load(path string) (*Catalog, error) {
	var products []Product
	if err := readJSONList(path, &products); err != nil {
		return nil, fmt.Errorf("load catalog %s: %w", path, err)
	}
	return New(products)
}

func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.products)
}

func (c *Catalog) All() []Product {
	if c == nil {
		return nil
	}
	return append([]Product(nil), c.products...)
}

// ByID returns the product with exactly this id.
func (c *Catalog) ByID(id string) (Product, bool) {
	if c == nil {
		return Product{}, false
	}
	idx, ok := c.byID[strings.TrimSpace(id)]
	if !ok {
		return Product{}, false
	}
	return c.products[idx], true
}

// Find returns the first product, in catalog order, whose id equals the query or
// whose name or id contains it. Matching ignores case.
func (c *Catalog) Find(query string) (Product, bool) {
	q := strings.ToLower(strings.TrimSpace(query))
	if c == nil || q == "" {
		return Product{}, false
	}
	for _, p := range c.products {
		id := strings.ToLower(p.ID)
		if id == q || strings.Contains(strings.ToLower(p.Name), q) || strings.Contains(id, q) {
			return p, true
		}
	}
	return Product{}, false
}

// Filter returns every product matching all supplied criteria, in catalog order.
func (c *Catalog) Filter(f Filter) []Product {
	if c == nil {
		return nil
	}
	out := make([]Product, 0, len(c.products))
	for _, p := range c.products {
		if f.Category != "" && !p.matchesTerm(f.Category) {
			continue
		}
		if f.MaxPrice != nil && p.Price > *f.MaxPrice {
			continue
		}
		if f.Color != "" && !containsFold(p.Color, f.Color) {
			continue
		}
		if f.SearchQuery != "" && !p.matchesTerm(f.SearchQuery) {
			continue
		}
		out = append(out, p)
	}
	return out
}

func (p Product) matchesTerm(term string) bool {
	if containsFold(p.Name, term) ||
		containsFold(p.Category, term) ||
		containsFold(p.ID, term) ||
		containsFold(p.Color, term) ||
		containsFold(p.Size, term) {
		return true
	}
	for _, tag := range p.Tags {
		if containsFold(tag, term) {
			return true
		}
	}
	return false
}

// FormatPrice renders an amount the way the assistants speak it: whole amounts
// without decimals, everything else with two.
func FormatPrice(amount float64) string {
	if amount == float64(int64(amount)) {
		return strconv.FormatInt(int64(amount), 10)
	}
	return strconv.FormatFloat(amount, 'f', 2, 64)
}

func containsFold(s, sub string) bool {
	sub = strings.TrimSpace(sub)
	if sub == "" {
		return true
	}
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

func readJSONList(path string, dst any) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if len(strings.TrimSpace(string(raw))) == 0 {
		return nil
	}
	return json.Unmarshal(raw, dst)
}
