package users

import "errors"

var (
	// ErrMissingFields is returned when a required signup/login field is empty
	ErrMissingFields = errors.New("email or password cannot be empty")

	// ErrInvalidCredentials is returned when email/password do not match
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrDuplicateEmail is returned when signing up with an email already in use
	ErrDuplicateEmail = errors.New("email already registered")

	// ErrUserNotFound is returned when a user lookup matches nothing
	ErrUserNotFound = errors.New("user not found")
)
