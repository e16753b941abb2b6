package tool

import (
	"context"
	"fmt"
	"strings"

	ledgerx "github.com/tanpawarit/Chative-Voice-Desk/agent/ledger"
	statex "github.com/tanpawarit/Chative-Voice-Desk/agent/state"
)

type updateOrderArgs struct {
	DrinkType *string   `json:"drink_type"`
	Size      *string   `json:"size"`
	Milk      *string   `json:"milk"`
	Extras    *[]string `json:"extras"`
	Name      *string   `json:"name"`
}

func (e *Executor) updateOrderDetails(_ context.Context, st *statex.SessionState, args map[string]any) (string, error) {
	in, err := decodeArgs[updateOrderArgs](args)
	if err != nil {
		return "", err
	}
	err = st.Ticket.Apply(statex.TicketPatch{
		DrinkType: in.DrinkType,
		Size:      in.Size,
		Milk:      in.Milk,
		Extras:    in.Extras,
		Name:      in.Name,
	})
	if err != nil {
		return "", err
	}

	snapshot := describeTicket(st.Ticket.Snapshot())
	if !st.Ticket.IsComplete() {
		return fmt.Sprintf("Order updated.\nCurrent order: %s\nMissing: %s. Ask for these.",
			snapshot, strings.Join(st.Ticket.Missing(), ", ")), nil
	}
	return fmt.Sprintf("Order complete: %s. Read it back to the customer for confirmation.", snapshot), nil
}

// describeTicket lists every ticket field, marking the empty ones.
func describeTicket(t statex.OrderTicket) string {
	orUnset := func(v string) string {
		if strings.TrimSpace(v) == "" {
			return "not set"
		}
		return v
	}
	extras := "none"
	if len(t.Extras) > 0 {
		extras = strings.Join(t.Extras, ", ")
	}
	return fmt.Sprintf("drink %s; size %s; milk %s; extras %s; name %s",
		orUnset(t.DrinkType), orUnset(t.Size), orUnset(t.Milk), extras, orUnset(t.Name))
}

func (e *Executor) submitOrder(ctx context.Context, st *statex.SessionState, _ map[string]any) (string, error) {
	if err := st.Ticket.CheckSubmittable(); err != nil {
		return "", err
	}

	now := e.deps.Now()
	ticket := st.Ticket.Snapshot()
	rec := ledgerx.TicketRecord{
		ID:        ledgerx.NewID("TKT", now),
		DrinkType: ticket.DrinkType,
		Size:      ticket.Size,
		Milk:      ticket.Milk,
		Extras:    ticket.Extras,
		Name:      ticket.Name,
		CreatedAt: now,
	}
	if err := e.deps.Ledger.AppendTicket(ctx, rec); err != nil {
		return "", err
	}
	st.Ticket.Submitted = true
	e.notify(ctx, "ticket.submitted", rec)

	return fmt.Sprintf("Order %s submitted. Thank %s and end the interaction.", rec.ID, rec.Name), nil
}
