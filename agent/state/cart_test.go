package state

import (
	"errors"
	"math"
	"testing"

	catalogx "github.com/tanpawarit/Chative-Voice-Desk/agent/catalog"
	contractx "github.com/tanpawarit/Chative-Voice-Desk/agent/contract"
)

var (
	bread = catalogx.Product{ID: "g_bread", Name: "Bread", Price: 3, Currency: "USD"}
	milk  = catalogx.Product{ID: "g_milk", Name: "Whole Milk", Price: 2.5, Currency: "USD"}
)

func expectedTotal(c *Cart) float64 {
	var sum float64
	for _, item := range c.Items {
		sum += item.UnitPrice * float64(item.Quantity)
	}
	return sum
}

func TestCartAddMergesSameItem(t *testing.T) {
	t.Parallel()

	var cart Cart
	if _, merged, err := cart.Add(bread, 2, ""); err != nil || merged {
		t.Fatalf("first Add() merged=%v err=%v", merged, err)
	}
	line, merged, err := cart.Add(bread, 3, "sliced")
	if err != nil {
		t.Fatalf("second Add() error = %v", err)
	}
	if !merged {
		t.Fatal("expected second add to merge")
	}
	if len(cart.Items) != 1 {
		t.Fatalf("expected one line, got %d", len(cart.Items))
	}
	if line.Quantity != 5 || cart.Items[0].Quantity != 5 {
		t.Fatalf("expected quantity 5, got %d", cart.Items[0].Quantity)
	}
	if cart.Items[0].Notes != "sliced" {
		t.Fatalf("expected notes to be overwritten, got %q", cart.Items[0].Notes)
	}

	if _, _, err := cart.Add(bread, 1, ""); err != nil {
		t.Fatalf("third Add() error = %v", err)
	}
	if cart.Items[0].Notes != "sliced" {
		t.Fatalf("empty notes must keep existing notes, got %q", cart.Items[0].Notes)
	}
}

func TestCartAddRejectsNonPositiveQuantity(t *testing.T) {
	t.Parallel()

	var cart Cart
	_, _, err := cart.Add(bread, 0, "")
	if !errors.Is(err, contractx.ErrValidation) {
		t.Fatalf("Add() error = %v, want ErrValidation", err)
	}
	if !cart.IsEmpty() {
		t.Fatal("cart must stay empty")
	}
}

func TestCartTotalTracksEveryMutation(t *testing.T) {
	t.Parallel()

	var cart Cart
	steps := []func() error{
		func() error { _, _, err := cart.Add(bread, 2, ""); return err },
		func() error { _, _, err := cart.Add(milk, 3, ""); return err },
		func() error { _, _, err := cart.Add(bread, 1, ""); return err },
		func() error { _, err := cart.RemoveByName("MILK"); return err },
		func() error { _, _, err := cart.Add(milk, 1, ""); return err },
	}
	for i, step := range steps {
		if err := step(); err != nil {
			t.Fatalf("step %d error = %v", i, err)
		}
		if got, want := cart.Total(), expectedTotal(&cart); math.Abs(got-want) > 1e-9 {
			t.Fatalf("step %d: Total() = %v, want %v", i, got, want)
		}
	}
	if got := cart.Total(); math.Abs(got-11.5) > 1e-9 {
		t.Fatalf("final Total() = %v, want 11.5", got)
	}
}

func TestCartRemoveByNameNotFound(t *testing.T) {
	t.Parallel()

	var cart Cart
	if _, _, err := cart.Add(bread, 1, ""); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	_, err := cart.RemoveByName("cheese")
	if !errors.Is(err, contractx.ErrNotFound) {
		t.Fatalf("RemoveByName() error = %v, want ErrNotFound", err)
	}
	if len(cart.Items) != 1 {
		t.Fatal("cart must be unchanged")
	}
}

func TestCartCurrency(t *testing.T) {
	t.Parallel()

	var cart Cart
	if cart.Currency() != "USD" {
		t.Fatalf("empty cart currency = %q", cart.Currency())
	}
	_, _, _ = cart.Add(catalogx.Product{ID: "x", Name: "X", Price: 1, Currency: "INR"}, 1, "")
	if cart.Currency() != "INR" {
		t.Fatalf("cart currency = %q, want INR", cart.Currency())
	}
}
