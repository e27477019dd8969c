package service

import (
	"errors"
	"fmt"
)

// Sentinel errors the handler layer maps to HTTP status codes.
var (
	ErrNotFound           = errors.New("resource not found")
	ErrMissingInput       = errors.New("missing required input")
	ErrInvalidNumeric     = errors.New("invalid numeric value")
	ErrDuplicateName      = errors.New("a medicine with that name already exists")
	ErrInvalidDateRange   = errors.New("end date must not be before start date")
	ErrPhoneTaken         = errors.New("phone number already registered")
	ErrInvalidCredentials = errors.New("invalid phone or password")
)

// InsufficientStockError aborts a bill when a cart line asks for more units
// than are on hand. The item name lets the till show which line failed.
type InsufficientStockError struct {
	Item string
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %q", e.Item)
}
