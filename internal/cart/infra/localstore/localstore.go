// Package localstore persists the guest cart on the device, the way a
// browser storefront would use local storage. The on-disk record has its own
// field names (`cartId`, `price`); it is normalized to the canonical item
// shape on load so nothing above this package branches on session type.
package localstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/shopspring/decimal"

	"github.com/hanifwst/klozet/internal/cart/domain"
)

type fileItem struct {
	CartID         string `json:"cartId"`
	ProductID      string `json:"productId"`
	Name           string `json:"name"`
	Image          string `json:"image,omitempty"`
	Price          int64  `json:"price"`
	Currency       string `json:"currency,omitempty"`
	Quantity       int32  `json:"quantity"`
	Size           string `json:"size,omitempty"`
	Color          string `json:"color,omitempty"`
	PurchaseOption string `json:"purchaseOption"`
}

type fileCoupon struct {
	Code          string  `json:"code"`
	DiscountType  string  `json:"discountType"`
	DiscountValue float64 `json:"discountValue"`
}

type fileCart struct {
	Items  []fileItem  `json:"items"`
	Coupon *fileCoupon `json:"coupon,omitempty"`
}

// FileStore keeps the guest cart in a single JSON file.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Load reads the persisted guest cart. A missing file is an empty cart.
func (f *FileStore) Load(_ context.Context) (domain.CartState, error) {
	raw, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return domain.CartState{}, nil
	}
	if err != nil {
		return domain.CartState{}, fmt.Errorf("read %s: %w", f.path, err)
	}

	var rec fileCart
	if err := json.Unmarshal(raw, &rec); err != nil {
		return domain.CartState{}, fmt.Errorf("decode %s: %w", f.path, err)
	}
	return rec.toDomain(), nil
}

// Save writes the full cart, replacing the previous record atomically.
func (f *FileStore) Save(_ context.Context, state domain.CartState) error {
	raw, err := json.MarshalIndent(fromDomain(state), "", "  ")
	if err != nil {
		return fmt.Errorf("encode guest cart: %w", err)
	}

	if dir := filepath.Dir(f.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, f.path)
}

// Clear removes the record. Clearing a cart that was never saved succeeds.
func (f *FileStore) Clear(_ context.Context) error {
	err := os.Remove(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

func (rec fileCart) toDomain() domain.CartState {
	var items []domain.CartItem
	for _, it := range rec.Items {
		items = append(items, domain.CartItem{
			ID:        it.CartID,
			ProductID: it.ProductID,
			Name:      it.Name,
			ImageURL:  it.Image,
			UnitPrice: domain.Money{Currency: it.Currency, Amount: it.Price},
			Quantity:  it.Quantity,
			Size:      it.Size,
			Color:     it.Color,
			Option:    domain.PurchaseOption(it.PurchaseOption),
		})
	}

	var coupon *domain.Coupon
	if rec.Coupon != nil {
		coupon = &domain.Coupon{
			Code:  rec.Coupon.Code,
			Type:  domain.CouponType(rec.Coupon.DiscountType),
			Value: decimal.NewFromFloat(rec.Coupon.DiscountValue),
		}
	}
	return domain.CartState{Items: items, Coupon: coupon}
}

func fromDomain(state domain.CartState) fileCart {
	rec := fileCart{Items: make([]fileItem, 0, len(state.Items))}
	for _, it := range state.Items {
		rec.Items = append(rec.Items, fileItem{
			CartID:         it.ID,
			ProductID:      it.ProductID,
			Name:           it.Name,
			Image:          it.ImageURL,
			Price:          it.UnitPrice.Amount,
			Currency:       it.UnitPrice.Currency,
			Quantity:       it.Quantity,
			Size:           it.Size,
			Color:          it.Color,
			PurchaseOption: string(it.Option),
		})
	}
	if state.Coupon != nil {
		v, _ := state.Coupon.Value.Float64()
		rec.Coupon = &fileCoupon{
			Code:          state.Coupon.Code,
			DiscountType:  string(state.Coupon.Type),
			DiscountValue: v,
		}
	}
	return rec
}
