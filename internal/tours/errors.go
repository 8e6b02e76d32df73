package tours

import "errors"

var (
	ErrTourNotFound    = errors.New("tour not found")
	ErrOptionNotFound  = errors.New("pricing option not found")
	ErrTourExists      = errors.New("a tour with a similar title already exists")
	ErrTourHasBookings = errors.New("tour has bookings")
	ErrInvalidTour     = errors.New("invalid tour")
	ErrInvalidReorder  = errors.New("invalid pricing option order")
)
