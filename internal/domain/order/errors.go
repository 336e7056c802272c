// internal/domain/order/errors.go
package order

import (
	"errors"
	"fmt"
)

// ErrEmptyCart is returned when checkout is attempted with an empty cart
var ErrEmptyCart = errors.New("cart is empty")

// ErrOrderNotFound is returned when an order does not exist
var ErrOrderNotFound = errors.New("order not found")

// ErrInvalidStatus is returned when a status update names a value outside the status set
var ErrInvalidStatus = errors.New("invalid order status")

// PerfumeUnavailableError is returned when a cart references a perfume that
// no longer exists; the whole checkout is aborted.
type PerfumeUnavailableError struct {
	PerfumeID uint
	Name      string
}

func (e *PerfumeUnavailableError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("%s is no longer available", e.Name)
	}
	return fmt.Sprintf("perfume %d is no longer available", e.PerfumeID)
}

// InsufficientStockError is returned when a requested quantity exceeds stock
type InsufficientStockError struct {
	PerfumeID uint
	Name      string
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s: requested %d, available %d", e.Name, e.Requested, e.Available)
}
