package domain

import "github.com/shopspring/decimal"

type Money struct {
	Currency string
	Amount   int64
}

// PurchaseOption selects which unit-price multiplier applies to a line.
type PurchaseOption string

const (
	OptionCombo PurchaseOption = "combo"
	OptionShirt PurchaseOption = "shirt"
	OptionPant  PurchaseOption = "pant"
)

func (o PurchaseOption) Valid() bool {
	switch o {
	case OptionCombo, OptionShirt, OptionPant:
		return true
	}
	return false
}

// ProductRef is the catalog snapshot a line needs to render and price itself
// without a second fetch. Price is captured once, at add time.
type ProductRef struct {
	ID       string
	Name     string
	ImageURL string
	Price    Money
}

type CartItem struct {
	ID        string
	ProductID string
	Name      string
	ImageURL  string
	UnitPrice Money // price at addition, never re-read from the catalog
	Quantity  int32
	Size      string
	Color     string
	Option    PurchaseOption
}

// SameLine reports whether two items address the same logical line,
// i.e. same product in the same variant.
func (it CartItem) SameLine(other CartItem) bool {
	return it.ProductID == other.ProductID &&
		it.Size == other.Size &&
		it.Color == other.Color
}

type CouponType string

const (
	CouponPercentage CouponType = "percentage"
	CouponFlat       CouponType = "flat"
)

// Coupon is an order-level discount. At most one is active per cart;
// applying a new one replaces the previous one.
type Coupon struct {
	Code  string
	Type  CouponType
	Value decimal.Decimal // percent for percentage, minor units for flat
}

// AddItem is the input of an add-to-cart operation.
type AddItem struct {
	Product  ProductRef
	Quantity int32
	Size     string
	Color    string
	Option   PurchaseOption
}

// CartState is the replaceable part of a cart: the lines plus the active
// coupon. Gateway responses and guest storage both produce this shape.
type CartState struct {
	Items  []CartItem
	Coupon *Coupon
}

type Totals struct {
	Currency  string
	Subtotal  int64
	Discount  int64
	Total     int64
	ItemCount int32
}

type Status string

const (
	StatusIdle      Status = "idle"
	StatusLoading   Status = "loading"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// Cart is a read snapshot of the store: state, derived totals, and the
// outcome of the most recent operation.
type Cart struct {
	Items     []CartItem
	Coupon    *Coupon
	Totals    Totals
	Status    Status
	LastError error
}
