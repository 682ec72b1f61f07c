// Package entity defines the domain entities for the catalog feature.
package entity

import "time"

// Product represents a sellable catalog entry.
type Product struct {
	// ID is the unique identifier for the product.
	ID uint

	// Name is the product's display name.
	Name string

	// Description is the product's description text.
	Description string

	// Price is the unit price. It is never negative.
	Price float64

	// Stock is the count of sellable units. It is never negative;
	// the order-placement transaction enforces this, not the store.
	Stock int

	// CreatedAt is the timestamp when the product was created.
	CreatedAt time.Time

	// UpdatedAt is the timestamp when the product was last updated.
	UpdatedAt time.Time
}
