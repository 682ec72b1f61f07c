// Package domain defines domain-level errors for the users feature.
package domain

import "errors"

var (
	// ErrUserNotFound indicates that no user exists with the given email.
	ErrUserNotFound = errors.New("user not found")

	// ErrEmailTaken indicates the new email collides with an existing account.
	ErrEmailTaken = errors.New("email is already in use by another user")

	// ErrInvalidRole indicates a role outside {user, admin}.
	ErrInvalidRole = errors.New("invalid role")

	// ErrSamePassword indicates the new password matches the current one.
	ErrSamePassword = errors.New("new password must differ from the current password")

	// ErrSelfDeletion indicates an admin attempted to delete their own account.
	ErrSelfDeletion = errors.New("cannot delete your own account")
)
