package repository

import "errors"

// Sentinel kinds for record store errors.
var (
	ErrValidation        = errors.New("missing required field")
	ErrUserNotFound      = errors.New("user not found")
	ErrCredentialsNotSet = errors.New("credentials not set")
	ErrInvalidRecord     = errors.New("record violates points invariant")
)
