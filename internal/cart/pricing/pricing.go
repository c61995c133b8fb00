// Package pricing derives line and order totals from cart state.
// Everything here is pure; amounts are in minor currency units.
package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/hanifwst/klozet/internal/cart/domain"
)

// comboRate is the bundled-item multiplier: buy the combo and save 20%,
// or buy either half at full price.
var (
	comboRate = decimal.RequireFromString("0.8")
	hundred   = decimal.NewFromInt(100)
)

// UnitPrice is the effective per-unit price after the purchase-option
// multiplier, rounded half-up to the minor unit. Rounding happens on the
// unit, before any quantity multiplication, so recomputation is idempotent.
func UnitPrice(it domain.CartItem) int64 {
	if it.Option == domain.OptionCombo {
		return decimal.NewFromInt(it.UnitPrice.Amount).Mul(comboRate).Round(0).IntPart()
	}
	return it.UnitPrice.Amount
}

// LineTotal prices one line: option-adjusted unit price times quantity.
func LineTotal(it domain.CartItem) domain.Money {
	return domain.Money{
		Currency: it.UnitPrice.Currency,
		Amount:   UnitPrice(it) * int64(it.Quantity),
	}
}

// Totals computes order-level figures from scratch. Subtotal is the raw
// price-at-addition sum, ignoring options and coupon, for "original price"
// display. Total applies options per line and then the coupon, clamped at
// zero. An empty cart yields all zeros no matter the coupon.
func Totals(items []domain.CartItem, coupon *domain.Coupon) domain.Totals {
	var t domain.Totals
	for _, it := range items {
		if t.Currency == "" {
			t.Currency = it.UnitPrice.Currency
		}
		t.Subtotal += it.UnitPrice.Amount * int64(it.Quantity)
		t.Total += LineTotal(it).Amount
		t.ItemCount += it.Quantity
	}

	if coupon == nil || len(items) == 0 {
		return t
	}

	var discount int64
	switch coupon.Type {
	case domain.CouponPercentage:
		discount = decimal.NewFromInt(t.Total).Mul(coupon.Value).Div(hundred).Round(0).IntPart()
	case domain.CouponFlat:
		discount = coupon.Value.Round(0).IntPart()
	}
	if discount < 0 {
		discount = 0
	}
	if discount > t.Total {
		discount = t.Total
	}
	t.Discount = discount
	t.Total -= discount
	return t
}
