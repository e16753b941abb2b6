package tool

import (
	"context"
	"errors"
	"fmt"
	"strings"

	catalogx "github.com/tanpawarit/Chative-Voice-Desk/agent/catalog"
	contractx "github.com/tanpawarit/Chative-Voice-Desk/agent/contract"
	ledgerx "github.com/tanpawarit/Chative-Voice-Desk/agent/ledger"
	statex "github.com/tanpawarit/Chative-Voice-Desk/agent/state"
)

const NoProductsMessage = "No products found matching those criteria."

type listProductsArgs struct {
	Category    string   `json:"category"`
	MaxPrice    *float64 `json:"max_price"`
	Color       string   `json:"color"`
	SearchQuery string   `json:"search_query"`
}

type createOrderArgs struct {
	ProductID string `json:"product_id"`
	Quantity  *int   `json:"quantity"`
}

func (e *Executor) listProducts(_ context.Context, _ *statex.SessionState, args map[string]any) (string, error) {
	in, err := decodeArgs[listProductsArgs](args)
	if err != nil {
		return "", err
	}

	results := e.deps.Catalog.Filter(catalogx.Filter{
		Category:    in.Category,
		MaxPrice:    in.MaxPrice,
		Color:       in.Color,
		SearchQuery: in.SearchQuery,
	})
	if len(results) == 0 {
		return NoProductsMessage, nil
	}

	lines := make([]string, 0, len(results))
	for _, p := range results {
		line := fmt.Sprintf("ID: %s | Name: %s | Price: %s", p.ID, p.Name, money(p.Price, p.Currency))
		if p.Color != "" {
			line += " | Color: " + p.Color
		}
		if p.Size != "" {
			line += " | Size: " + p.Size
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n"), nil
}

func (e *Executor) createOrder(ctx context.Context, _ *statex.SessionState, args map[string]any) (string, error) {
	in, err := decodeArgs[createOrderArgs](args)
	if err != nil {
		return "", err
	}
	qty, err := quantityOrDefault(in.Quantity)
	if err != nil {
		return "", err
	}
	product, ok := e.deps.Catalog.ByID(in.ProductID)
	if !ok {
		return "", fmt.Errorf("%w: product id %q is not in the catalog", contractx.ErrNotFound, in.ProductID)
	}

	now := e.deps.Now()
	total := product.Price * float64(qty)
	rec := ledgerx.OrderRecord{
		ID:        ledgerx.NewID("ORD", now),
		Assistant: string(e.assistant),
		Items: []ledgerx.OrderLine{{
			ItemID:    product.ID,
			Name:      product.Name,
			Quantity:  qty,
			UnitPrice: product.Price,
		}},
		Total:     total,
		Currency:  product.Currency,
		Status:    "created",
		CreatedAt: now,
	}
	if err := e.deps.Ledger.AppendOrder(ctx, rec); err != nil {
		return "", err
	}
	e.notify(ctx, "order.created", rec)

	return fmt.Sprintf("Order created. Order ID: %s. Total: %s.", rec.ID, money(total, product.Currency)), nil
}

func (e *Executor) getLastOrder(ctx context.Context, _ *statex.SessionState, _ map[string]any) (string, error) {
	last, err := e.deps.Ledger.LastOrder(ctx)
	if errors.Is(err, contractx.ErrNotFound) {
		return "", fmt.Errorf("%w: no recent orders found", contractx.ErrNotFound)
	}
	if err != nil {
		return "", err
	}
	return DescribeOrder(last), nil
}

// DescribeOrder summarises a persisted order in one line.
func DescribeOrder(rec ledgerx.OrderRecord) string {
	items := make([]string, 0, len(rec.Items))
	for _, line := range rec.Items {
		items = append(items, fmt.Sprintf("%dx %s", line.Quantity, line.Name))
	}
	return fmt.Sprintf("Last order %s (%s): %s. Total: %s.",
		rec.ID, rec.CreatedAt.Format("2006-01-02 15:04"), strings.Join(items, ", "), money(rec.Total, rec.Currency))
}
