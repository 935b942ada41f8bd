// Package domain defines the error taxonomy shared by services and handlers.
// Services wrap these sentinels with context; handlers map them to HTTP
// statuses with errors.Is / errors.As.
package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput marks a missing or malformed field caught before any mutation.
	ErrInvalidInput = errors.New("invalid input")
	// ErrNotFound marks a referenced item, category, or user that does not exist.
	ErrNotFound = errors.New("not found")
	// ErrConflict marks a uniqueness violation (duplicate category name or username).
	ErrConflict = errors.New("already exists")
	// ErrCategoryInUse marks a category deletion rejected because items still reference it.
	ErrCategoryInUse = errors.New("category still referenced by items")
	// ErrStorage marks a failed or unreachable backing store. Callers surface it,
	// they never retry it: a retry after a partial mutation could duplicate
	// ledger entries.
	ErrStorage = errors.New("storage failure")
)

// InsufficientStockError rejects a withdrawal that would drive an item's
// quantity negative. Available carries the pre-mutation quantity for user
// messaging.
type InsufficientStockError struct {
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("cannot withdraw more than available quantity (%d)", e.Available)
}
