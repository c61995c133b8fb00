package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput  = errors.New("invalid input")
	ErrNotFound      = errors.New("not found")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrCouponInvalid = errors.New("invalid coupon")
)

// StockError is the gateway's rejection of a quantity change. AvailableStock
// is how many units remain; MaxAllowed, when set, is the ceiling the server
// would have accepted for the whole line. The store never applies either on
// its own initiative.
type StockError struct {
	Message        string
	AvailableStock int32
	MaxAllowed     int32
}

func (e *StockError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("insufficient stock: %d available", e.AvailableStock)
}
