package httpgw

import (
	"github.com/shopspring/decimal"

	"github.com/hanifwst/klozet/internal/cart/domain"
)

// Wire shapes of the cart API. Server lines use `_id` and `priceAtAddition`;
// they are normalized into domain.CartItem here and nowhere else.

type wireItem struct {
	ID             string `json:"_id"`
	ProductID      string `json:"productId"`
	Name           string `json:"name"`
	Image          string `json:"image,omitempty"`
	Price          int64  `json:"priceAtAddition"`
	Currency       string `json:"currency,omitempty"`
	Quantity       int32  `json:"quantity"`
	Size           string `json:"size,omitempty"`
	Color          string `json:"color,omitempty"`
	PurchaseOption string `json:"purchaseOption"`
}

type wireCoupon struct {
	Code          string  `json:"code"`
	DiscountType  string  `json:"discountType"`
	DiscountValue float64 `json:"discountValue"`
}

type wireCart struct {
	Items         []wireItem  `json:"items"`
	CouponApplied *wireCoupon `json:"couponApplied"`
}

type cartEnvelope struct {
	Cart wireCart `json:"cart"`
}

type errorBody struct {
	Message        string `json:"message"`
	AvailableStock int32  `json:"availableStock"`
	MaxAllowed     int32  `json:"maxAllowed"`
}

type addRequest struct {
	ProductID      string `json:"productId"`
	Quantity       int32  `json:"quantity"`
	Size           string `json:"size,omitempty"`
	Color          string `json:"color,omitempty"`
	PurchaseOption string `json:"purchaseOption"`
}

type updateRequest struct {
	Quantity int32 `json:"quantity"`
}

type couponRequest struct {
	Code string `json:"code"`
}

type mergeRequest struct {
	Items []wireItem `json:"items"`
}

func (w wireCart) toDomain() domain.CartState {
	var items []domain.CartItem
	for _, it := range w.Items {
		items = append(items, domain.CartItem{
			ID:        it.ID,
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
	if w.CouponApplied != nil {
		coupon = &domain.Coupon{
			Code:  w.CouponApplied.Code,
			Type:  domain.CouponType(w.CouponApplied.DiscountType),
			Value: decimal.NewFromFloat(w.CouponApplied.DiscountValue),
		}
	}

	return domain.CartState{Items: items, Coupon: coupon}
}

func toWireItems(items []domain.CartItem) []wireItem {
	out := make([]wireItem, 0, len(items))
	for _, it := range items {
		out = append(out, wireItem{
			ID:             it.ID,
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
	return out
}
