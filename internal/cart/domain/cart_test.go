package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestPurchaseOptionValid(t *testing.T) {
	for _, o := range []PurchaseOption{OptionCombo, OptionShirt, OptionPant} {
		if !o.Valid() {
			t.Fatalf("expected %q to be valid", o)
		}
	}
	if PurchaseOption("sock").Valid() {
		t.Fatal("unknown option reported valid")
	}
	if PurchaseOption("").Valid() {
		t.Fatal("empty option reported valid")
	}
}

func TestSameLine(t *testing.T) {
	a := CartItem{ProductID: "shirt-1", Size: "M", Color: "white"}

	if !a.SameLine(CartItem{ProductID: "shirt-1", Size: "M", Color: "white", Quantity: 5}) {
		t.Fatal("quantity should not affect line identity")
	}
	if a.SameLine(CartItem{ProductID: "shirt-1", Size: "L", Color: "white"}) {
		t.Fatal("different size must be a different line")
	}
	if a.SameLine(CartItem{ProductID: "pant-1", Size: "M", Color: "white"}) {
		t.Fatal("different product must be a different line")
	}
}

func TestStockErrorUnwrapsThroughWrapping(t *testing.T) {
	inner := &StockError{AvailableStock: 3, MaxAllowed: 3}
	wrapped := fmt.Errorf("update quantity: %w", inner)

	var se *StockError
	if !errors.As(wrapped, &se) {
		t.Fatal("expected errors.As to find StockError")
	}
	if se.AvailableStock != 3 {
		t.Fatalf("got availableStock=%d", se.AvailableStock)
	}
	if se.Error() == "" {
		t.Fatal("expected a message")
	}
}
