package ledger

import (
	"context"
	"crypto/rand"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/uptrace/bun"
)

// OrderLine is one cart line frozen at checkout.
type OrderLine struct {
	ItemID    string  `json:"item_id"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
	Notes     string  `json:"notes,omitempty"`
}

// OrderRecord is written once at checkout and never mutated afterwards.
type OrderRecord struct {
	bun.BaseModel `bun:"table:orders,alias:o" json:"-"`

	ID        string      `bun:"id,pk" json:"id"`
	Assistant string      `bun:"assistant" json:"assistant,omitempty"`
	Customer  string      `bun:"customer" json:"customer,omitempty"`
	Items     []OrderLine `bun:"items" json:"items"`
	Total     float64     `bun:"total" json:"total"`
	Currency  string      `bun:"currency" json:"currency"`
	Status    string      `bun:"status" json:"status"`
	CreatedAt time.Time   `bun:"created_at,notnull" json:"created_at"`
}

type TicketRecord struct {
	bun.BaseModel `bun:"table:barista_tickets,alias:t" json:"-"`

	ID        string    `bun:"id,pk" json:"id"`
	DrinkType string    `bun:"drink_type" json:"drinkType"`
	Size      string    `bun:"size" json:"size"`
	Milk      string    `bun:"milk" json:"milk"`
	Extras    []string  `bun:"extras" json:"extras"`
	Name      string    `bun:"name" json:"name"`
	CreatedAt time.Time `bun:"created_at,notnull" json:"created_at"`
}

type LeadRecord struct {
	bun.BaseModel `bun:"table:leads,alias:l" json:"-"`

	ID        string    `bun:"id,pk" json:"id"`
	Name      string    `bun:"name" json:"name"`
	Company   string    `bun:"company" json:"company"`
	Email     string    `bun:"email" json:"email"`
	Role      string    `bun:"role" json:"role,omitempty"`
	UseCase   string    `bun:"use_case" json:"use_case,omitempty"`
	TeamSize  string    `bun:"team_size" json:"team_size,omitempty"`
	Timeline  string    `bun:"timeline" json:"timeline,omitempty"`
	CreatedAt time.Time `bun:"created_at,notnull" json:"created_at"`
}

// Ledger is the durable store for finalized records. Append calls return only
// after the write is confirmed; any failure wraps contract.ErrPersistence.
type Ledger interface {
	AppendOrder(ctx context.Context, rec OrderRecord) error
	LastOrder(ctx context.Context) (OrderRecord, error)
	AppendTicket(ctx context.Context, rec TicketRecord) error
	AppendLead(ctx context.Context, rec LeadRecord) error
	Close() error
}

// NewID returns a prefixed, time-sortable record id such as ORD-01J....
func NewID(prefix string, now time.Time) string {
	entropy := ulid.Monotonic(rand.Reader, 0)
	id := ulid.MustNew(ulid.Timestamp(now), entropy).String()
	if prefix == "" {
		return id
	}
	return prefix + "-" + id
}
