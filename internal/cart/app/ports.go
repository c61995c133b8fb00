package app

import (
	"context"

	"github.com/hanifwst/klozet/internal/cart/domain"
)

// CartGateway is the remote cart API. Every response carries the server's
// full, current view; the store replaces its state wholesale with it.
// Add/update/remove responses carry items only, leaving the coupon alone.
type CartGateway interface {
	FetchCart(ctx context.Context) (domain.CartState, error)
	AddItem(ctx context.Context, add domain.AddItem) ([]domain.CartItem, error)
	SetItemQuantity(ctx context.Context, itemID string, quantity int32) ([]domain.CartItem, error)
	RemoveItem(ctx context.Context, itemID string) ([]domain.CartItem, error)
	ApplyCoupon(ctx context.Context, code string) (domain.CartState, error)
	MergeItems(ctx context.Context, items []domain.CartItem) (domain.CartState, error)
	ClearCart(ctx context.Context) error
}

// GuestStorage persists the anonymous cart on the device. Load on a missing
// record returns an empty state, not an error.
type GuestStorage interface {
	Load(ctx context.Context) (domain.CartState, error)
	Save(ctx context.Context, state domain.CartState) error
	Clear(ctx context.Context) error
}

// CouponCatalog validates coupon codes for the guest path. Unknown codes
// return domain.ErrCouponInvalid.
type CouponCatalog interface {
	Lookup(code string) (domain.Coupon, error)
}
