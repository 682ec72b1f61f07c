// Package domain defines domain-level errors for the auth feature.
package domain

import "errors"

// Domain errors for authentication operations.
// These errors represent business logic failures and should be handled appropriately by upper layers.
var (
	// ErrEmailAlreadyExists indicates that a user with the given email already exists.
	// This is returned during registration when attempting to create a duplicate user.
	ErrEmailAlreadyExists = errors.New("user with this email already exists")

	// ErrUserNotFound indicates that no user was found with the given criteria.
	ErrUserNotFound = errors.New("user not found")

	// ErrInvalidCredentials indicates that the provided credentials are incorrect.
	// Login returns this for both unknown emails and wrong passwords so that
	// user existence is never leaked.
	ErrInvalidCredentials = errors.New("invalid email or password")
)
