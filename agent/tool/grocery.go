package tool

import (
	"context"
	"fmt"
	"strings"

	catalogx "github.com/tanpawarit/Chative-Voice-Desk/agent/catalog"
	contractx "github.com/tanpawarit/Chative-Voice-Desk/agent/contract"
	ledgerx "github.com/tanpawarit/Chative-Voice-Desk/agent/ledger"
	statex "github.com/tanpawarit/Chative-Voice-Desk/agent/state"
)

const (
	EmptyCartMessage    = "Your cart is empty."
	defaultCustomerName = "Valued Customer"
)

type addToCartArgs struct {
	ItemName string `json:"item_name"`
	Quantity *int   `json:"quantity"`
	Notes    string `json:"notes"`
}

type removeFromCartArgs struct {
	ItemName string `json:"item_name"`
}

type addRecipeArgs struct {
	DishName string `json:"dish_name"`
	Quantity *int   `json:"quantity"`
}

type checkoutArgs struct {
	CustomerName string `json:"customer_name"`
}

func (e *Executor) addToCart(_ context.Context, st *statex.SessionState, args map[string]any) (string, error) {
	in, err := decodeArgs[addToCartArgs](args)
	if err != nil {
		return "", err
	}
	qty, err := quantityOrDefault(in.Quantity)
	if err != nil {
		return "", err
	}
	product, ok := e.deps.Catalog.Find(in.ItemName)
	if !ok {
		return "", fmt.Errorf("%w: %q is not in the catalog, ask for another item", contractx.ErrNotFound, in.ItemName)
	}

	line, merged, err := st.Cart.Add(product, qty, in.Notes)
	if err != nil {
		return "", err
	}
	total := money(st.Cart.Total(), st.Cart.Currency())
	if merged {
		return fmt.Sprintf("Updated %s quantity to %d. Cart total: %s.", line.Name, line.Quantity, total), nil
	}
	return fmt.Sprintf("Added %dx %s to the cart. Cart total: %s.", line.Quantity, line.Name, total), nil
}

func (e *Executor) removeFromCart(_ context.Context, st *statex.SessionState, args map[string]any) (string, error) {
	in, err := decodeArgs[removeFromCartArgs](args)
	if err != nil {
		return "", err
	}
	removed, err := st.Cart.RemoveByName(in.ItemName)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Removed %s from the cart. Cart total: %s.",
		removed.Name, money(st.Cart.Total(), st.Cart.Currency())), nil
}

func (e *Executor) viewCart(_ context.Context, st *statex.SessionState, _ map[string]any) (string, error) {
	if st.Cart.IsEmpty() {
		return EmptyCartMessage, nil
	}
	currency := st.Cart.Currency()
	lines := []string{"Current cart:"}
	for _, item := range st.Cart.Items {
		line := fmt.Sprintf("- %dx %s @ %s = %s", item.Quantity, item.Name,
			money(item.UnitPrice, currency), money(item.LineTotal(), currency))
		if item.Notes != "" {
			line += " (" + item.Notes + ")"
		}
		lines = append(lines, line)
	}
	lines = append(lines, "Total: "+money(st.Cart.Total(), currency))
	return strings.Join(lines, "\n"), nil
}

// addRecipeIngredients adds each recipe item the catalog stocks and skips the rest.
func (e *Executor) addRecipeIngredients(_ context.Context, st *statex.SessionState, args map[string]any) (string, error) {
	in, err := decodeArgs[addRecipeArgs](args)
	if err != nil {
		return "", err
	}
	qty, err := quantityOrDefault(in.Quantity)
	if err != nil {
		return "", err
	}
	recipe, ok := catalogx.MatchRecipe(e.deps.Recipes, in.DishName)
	if !ok {
		return "", fmt.Errorf("%w: there is no preset recipe for %q, add the items one by one (known dishes: %s)",
			contractx.ErrNotFound, in.DishName, strings.Join(catalogx.RecipeDishes(e.deps.Recipes), ", "))
	}

	var added []string
	for _, id := range recipe.ItemIDs {
		product, ok := e.deps.Catalog.ByID(id)
		if !ok {
			continue
		}
		if _, _, err := st.Cart.Add(product, qty, ""); err != nil {
			return "", err
		}
		added = append(added, product.Name)
	}
	if len(added) == 0 {
		return "", fmt.Errorf("%w: none of the ingredients for %s are in stock", contractx.ErrNotFound, recipe.Dish)
	}
	return fmt.Sprintf("Added ingredients for %s (%s) to the cart. Cart total: %s.",
		in.DishName, strings.Join(added, ", "), money(st.Cart.Total(), st.Cart.Currency())), nil
}

// checkout persists the cart as an order and clears it only after the ledger
// confirmed the write.
func (e *Executor) checkout(ctx context.Context, st *statex.SessionState, args map[string]any) (string, error) {
	in, err := decodeArgs[checkoutArgs](args)
	if err != nil {
		return "", err
	}
	if st.Cart.IsEmpty() {
		return "", fmt.Errorf("%w: cannot check out, the cart is empty", contractx.ErrEmptyState)
	}
	customer := strings.TrimSpace(in.CustomerName)
	if customer == "" {
		customer = defaultCustomerName
	}

	now := e.deps.Now()
	rec := ledgerx.OrderRecord{
		ID:        ledgerx.NewID("ORD", now),
		Assistant: string(e.assistant),
		Customer:  customer,
		Items:     orderLines(st.Cart.Snapshot()),
		Total:     st.Cart.Total(),
		Currency:  st.Cart.Currency(),
		Status:    "placed",
		CreatedAt: now,
	}
	if err := e.deps.Ledger.AppendOrder(ctx, rec); err != nil {
		return "", err
	}
	st.Cart.Clear()
	e.notify(ctx, "order.placed", rec)

	return fmt.Sprintf("Order placed! Total charged: %s. The order id is %s.", money(rec.Total, rec.Currency), rec.ID), nil
}

func orderLines(items []statex.CartItem) []ledgerx.OrderLine {
	out := make([]ledgerx.OrderLine, 0, len(items))
	for _, item := range items {
		out = append(out, ledgerx.OrderLine{
			ItemID:    item.ItemID,
			Name:      item.Name,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Notes:     item.Notes,
		})
	}
	return out
}
