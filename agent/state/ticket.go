package state

import (
	"fmt"
	"strings"

	contractx "github.com/tanpawarit/Chative-Voice-Desk/agent/contract"
)

// OrderTicket is the barista's drink order, filled in over several turns.
type OrderTicket struct {
	DrinkType string   `json:"drinkType,omitempty"`
	Size      string   `json:"size,omitempty"`
	Milk      string   `json:"milk,omitempty"`
	Extras    []string `json:"extras"`
	Name      string   `json:"name,omitempty"`
	Submitted bool     `json:"submitted,omitempty"`
}

// TicketPatch carries only the fields the customer mentioned. A non-nil Extras
// replaces the list, including with an empty list for "no extras".
type TicketPatch struct {
	DrinkType *string
	Size      *string
	Milk      *string
	Extras    *[]string
	Name      *string
}

func (t *OrderTicket) Apply(p TicketPatch) error {
	if t.Submitted {
		return fmt.Errorf("%w: order was already submitted", contractx.ErrFinalized)
	}
	mergeString(&t.DrinkType, p.DrinkType)
	mergeString(&t.Size, p.Size)
	mergeString(&t.Milk, p.Milk)
	mergeString(&t.Name, p.Name)
	if p.Extras != nil {
		extras := make([]string, 0, len(*p.Extras))
		for _, e := range *p.Extras {
			if e = strings.TrimSpace(e); e != "" {
				extras = append(extras, e)
			}
		}
		t.Extras = extras
	}
	return nil
}

func (t *OrderTicket) Missing() []string {
	var missing []string
	if blank(t.DrinkType) {
		missing = append(missing, "Drink Type")
	}
	if blank(t.Size) {
		missing = append(missing, "Size")
	}
	if blank(t.Milk) {
		missing = append(missing, "Milk")
	}
	if blank(t.Name) {
		missing = append(missing, "Customer Name")
	}
	return missing
}

func (t *OrderTicket) IsComplete() bool {
	return len(t.Missing()) == 0
}

// CheckSubmittable reports why the ticket cannot be submitted yet, if anything.
func (t *OrderTicket) CheckSubmittable() error {
	if t.Submitted {
		return fmt.Errorf("%w: order was already submitted", contractx.ErrFinalized)
	}
	if missing := t.Missing(); len(missing) > 0 {
		return &contractx.IncompleteError{Subject: "order", Missing: missing}
	}
	return nil
}

func (t *OrderTicket) Snapshot() OrderTicket {
	out := *t
	out.Extras = append([]string{}, t.Extras...)
	return out
}
