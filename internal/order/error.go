package order

import (
	"errors"
	"fmt"
)

var (
	ErrOrderNotFound     = errors.New("order not found")
	ErrNotAuthorized     = errors.New("not authorized")
	ErrIllegalTransition = errors.New("illegal status transition")
	ErrEmptyOrder        = errors.New("order has no items")
	ErrValidation        = errors.New("invalid shipping address")
	ErrInvalidProduct    = errors.New("product missing or not approved")
	ErrInsufficientStock = errors.New("insufficient stock")
)

// LineError identifies which line item made a checkout fail.
type LineError struct {
	ProductID string
	Err       error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("product %s: %v", e.ProductID, e.Err)
}

func (e *LineError) Unwrap() error {
	return e.Err
}
