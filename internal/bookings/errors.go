package bookings

import "errors"

// Every error returned by the service wraps exactly one of these.
var (
	ErrValidation = errors.New("validation failed")
	ErrState      = errors.New("invalid booking state")
	ErrConflict   = errors.New("booking was modified concurrently")
	ErrNotFound   = errors.New("booking not found")
	ErrRepository = errors.New("booking storage failure")
)
