package domain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrInvalidQuery marks malformed or out-of-range filter input. It is
	// rejected before any store interaction.
	ErrInvalidQuery = errors.New("invalid query")

	// ErrStoreUnavailable wraps persistence failures. Raw store errors never
	// reach the caller.
	ErrStoreUnavailable = errors.New("store unavailable")
)

type NotFoundError struct {
	Entity string
	ID     int
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with id %d not found", e.Entity, e.ID)
}

// InsufficientStockError reports every product in a reservation batch whose
// remaining stock could not cover the requested quantity. The batch as a
// whole was not applied.
type InsufficientStockError struct {
	ProductIDs []int
}

func (e *InsufficientStockError) Error() string {
	ids := make([]string, 0, len(e.ProductIDs))
	for _, id := range e.ProductIDs {
		ids = append(ids, strconv.Itoa(id))
	}
	return fmt.Sprintf("insufficient stock for product(s): %s", strings.Join(ids, ", "))
}
