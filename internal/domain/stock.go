package domain

import "context"

// LineItem is a (product, quantity) pair from a cart.
type LineItem struct {
	ProductID int `json:"product_id"`
	Quantity  int `json:"quantity"`
}

// StockLedger is the authoritative counter of remaining stock and sold
// units. Reserve is all-or-nothing for the whole batch: either every line
// is applied (stock -= q, sold += q, stock never below zero) or none is.
type StockLedger interface {
	Reserve(ctx context.Context, items []LineItem) error
	// Release is the compensating inverse of Reserve. It exists only for
	// rolling back a reservation whose order could not be persisted.
	Release(ctx context.Context, items []LineItem) error
}
