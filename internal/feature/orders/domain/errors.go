// Package domain defines domain-level errors for the orders feature.
package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrOrderNotFound indicates that no order exists with the given id.
	ErrOrderNotFound = errors.New("order not found")

	// ErrNoOrders indicates that the requested page contains no orders.
	ErrNoOrders = errors.New("no orders found")

	// ErrOrderAccessDenied indicates the order belongs to a different user.
	ErrOrderAccessDenied = errors.New("order belongs to a different user")

	// ErrOrderAlreadyCancelled indicates a transition out of the terminal
	// cancelled state was attempted.
	ErrOrderAlreadyCancelled = errors.New("order is already cancelled")

	// ErrInvalidStatus indicates an unrecognized order status value.
	ErrInvalidStatus = errors.New("invalid order status")
)

// ProductNotFoundError is returned from order placement when a line item
// references a product that does not exist. The whole transaction is rolled
// back when it occurs.
type ProductNotFoundError struct {
	ProductID uint
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("product %d not found", e.ProductID)
}

// InsufficientStockError is returned from order placement when a line item
// requests more units than the product has in stock. The whole transaction
// is rolled back when it occurs.
type InsufficientStockError struct {
	ProductID uint
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %d: requested %d, available %d",
		e.ProductID, e.Requested, e.Available)
}
