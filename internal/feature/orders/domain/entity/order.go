// Package entity defines the domain entities for the orders feature.
package entity

import "time"

// Order status values. Orders start as StatusPending; StatusCancelled is
// terminal. All other pairwise transitions are permitted.
const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusShipped    = "shipped"
	StatusDelivered  = "delivered"
	StatusCancelled  = "cancelled"
)

// ValidStatus reports whether s is one of the recognized order statuses.
func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// OrderItem is a line item: a product reference and a positive quantity.
type OrderItem struct {
	ProductID uint
	Quantity  int
}

// Order represents a placed order owned by a single user.
type Order struct {
	// ID is the unique identifier for the order.
	ID uint

	// UserID references the user that placed the order. Only that user
	// may read the order.
	UserID uint

	// Items is the ordered sequence of line items.
	Items []OrderItem

	// Status is the current order status.
	Status string

	// CreatedAt is the timestamp when the order was placed.
	CreatedAt time.Time

	// UpdatedAt is the timestamp when the order was last updated.
	UpdatedAt time.Time
}
