package state

import (
	"fmt"
	"strings"

	catalogx "github.com/tanpawarit/Chative-Voice-Desk/agent/catalog"
	contractx "github.com/tanpawarit/Chative-Voice-Desk/agent/contract"
)

const defaultCurrency = "USD"

type CartItem struct {
	ItemID    string  `json:"item_id"`
	Name      string  `json:"name"`
	UnitPrice float64 `json:"price"`
	Currency  string  `json:"currency,omitempty"`
	Quantity  int     `json:"quantity"`
	Notes     string  `json:"notes,omitempty"`
}

func (i CartItem) LineTotal() float64 {
	return i.UnitPrice * float64(i.Quantity)
}

// Cart holds at most one line per catalog item.
type Cart struct {
	Items []CartItem `json:"items,omitempty"`
}

// Add appends a line for p or, when p is already in the cart, grows that line.
// Non-empty notes replace the existing notes. The returned item is the line after
// the change.
func (c *Cart) Add(p catalogx.Product, quantity int, notes string) (CartItem, bool, error) {
	if quantity < 1 {
		return CartItem{}, false, fmt.Errorf("%w: quantity must be at least 1, got %d", contractx.ErrValidation, quantity)
	}
	notes = strings.TrimSpace(notes)

	for i := range c.Items {
		if c.Items[i].ItemID != p.ID {
			continue
		}
		c.Items[i].Quantity += quantity
		if notes != "" {
			c.Items[i].Notes = notes
		}
		return c.Items[i], true, nil
	}

	item := CartItem{
		ItemID:    p.ID,
		Name:      p.Name,
		UnitPrice: p.Price,
		Currency:  p.Currency,
		Quantity:  quantity,
		Notes:     notes,
	}
	c.Items = append(c.Items, item)
	return item, false, nil
}

// RemoveByName drops the first line whose name contains ref, ignoring case.
func (c *Cart) RemoveByName(ref string) (CartItem, error) {
	q := strings.ToLower(strings.TrimSpace(ref))
	if q == "" {
		return CartItem{}, fmt.Errorf("%w: item name is required", contractx.ErrValidation)
	}
	for i, item := range c.Items {
		if strings.Contains(strings.ToLower(item.Name), q) {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			return item, nil
		}
	}
	return CartItem{}, fmt.Errorf("%w: %q is not in the cart", contractx.ErrNotFound, ref)
}

// Total is recomputed from the current lines on every call.
func (c *Cart) Total() float64 {
	var total float64
	for _, item := range c.Items {
		total += item.LineTotal()
	}
	return total
}

func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// Currency is the currency of the first line, USD for an empty or unlabeled cart.
func (c *Cart) Currency() string {
	for _, item := range c.Items {
		if item.Currency != "" {
			return item.Currency
		}
	}
	return defaultCurrency
}

func (c *Cart) Snapshot() []CartItem {
	return append([]CartItem(nil), c.Items...)
}

func (c *Cart) Clear() {
	c.Items = nil
}
