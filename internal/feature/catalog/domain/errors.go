// Package domain defines domain-level errors for the catalog feature.
package domain

import "errors"

var (
	// ErrProductNotFound indicates that no product exists with the given id.
	ErrProductNotFound = errors.New("product not found")

	// ErrNoFieldsToUpdate indicates a partial update carrying no updatable fields.
	ErrNoFieldsToUpdate = errors.New("no fields to update")

	// ErrInvalidProductData indicates a negative price or stock value.
	ErrInvalidProductData = errors.New("price and stock must be non-negative")
)
