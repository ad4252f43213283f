package domain

import "errors"

// Sentinel errors for the domain layer. These provide consistent, checkable
// errors for common business logic failures.
var (
	ErrNotFound     = errors.New("requested resource not found")
	ErrForbidden    = errors.New("operation not permitted for this user")
	ErrUnauthorized = errors.New("missing or unknown authorization token")
	ErrInvalidInput = errors.New("invalid input data")
)
