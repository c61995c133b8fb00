// Package coupons is the static coupon catalog the guest path validates
// codes against. It holds whatever the caller seeds it with; it does not
// invent discount rules of its own.
package coupons

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/hanifwst/klozet/internal/cart/domain"
)

type Static struct {
	byCode map[string]domain.Coupon
}

func NewStatic(list ...domain.Coupon) *Static {
	byCode := make(map[string]domain.Coupon, len(list))
	for _, c := range list {
		byCode[normalize(c.Code)] = c
	}
	return &Static{byCode: byCode}
}

func (s *Static) Lookup(code string) (domain.Coupon, error) {
	c, ok := s.byCode[normalize(code)]
	if !ok {
		return domain.Coupon{}, fmt.Errorf("%w: %s", domain.ErrCouponInvalid, code)
	}
	return c, nil
}

func normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Defaults are the storefront's standing promotions, used to seed dev and
// test environments.
func Defaults() []domain.Coupon {
	return []domain.Coupon{
		{Code: "WELCOME10", Type: domain.CouponPercentage, Value: decimal.NewFromInt(10)},
		{Code: "FLAT50", Type: domain.CouponFlat, Value: decimal.NewFromInt(5000)},
	}
}
