package cartapi

import (
	"encoding/json"
	"net/http"

	"github.com/hanifwst/klozet/internal/cart/domain"
)

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
	CouponApplied *wireCoupon `json:"couponApplied,omitempty"`
}

type cartEnvelope struct {
	Cart wireCart `json:"cart"`
}

type errorBody struct {
	Message        string `json:"message"`
	AvailableStock int32  `json:"availableStock,omitempty"`
	MaxAllowed     int32  `json:"maxAllowed,omitempty"`
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

func writeCart(w http.ResponseWriter, status int, items []domain.CartItem, coupon *domain.Coupon, withCoupon bool) {
	cart := wireCart{Items: make([]wireItem, 0, len(items))}
	for _, it := range items {
		cart.Items = append(cart.Items, wireItem{
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
	if withCoupon && coupon != nil {
		v, _ := coupon.Value.Float64()
		cart.CouponApplied = &wireCoupon{
			Code:          coupon.Code,
			DiscountType:  string(coupon.Type),
			DiscountValue: v,
		}
	}
	writeJSON(w, status, cartEnvelope{Cart: cart})
}

func writeError(w http.ResponseWriter, status int, body errorBody) {
	writeJSON(w, status, body)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
