package bookings

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Filter narrows a booking list. Zero values mean "any".
type Filter struct {
	Search        string
	Status        Status
	PaymentStatus PaymentStatus
	TourID        *uuid.UUID
	DateFrom      *time.Time
	DateTo        *time.Time
}

// Matches applies the filter to a single booking in memory. It mirrors the
// repository query so that lists can be narrowed again without a round trip.
func (f Filter) Matches(b *Booking) bool {
	if f.Status != "" && b.Status != f.Status {
		return false
	}
	if f.PaymentStatus != "" && b.PaymentStatus != f.PaymentStatus {
		return false
	}
	if f.TourID != nil && b.TourID != *f.TourID {
		return false
	}
	if f.DateFrom != nil && dayOf(b.TourDate).Before(dayOf(*f.DateFrom)) {
		return false
	}
	if f.DateTo != nil && dayOf(b.TourDate).After(dayOf(*f.DateTo)) {
		return false
	}

	search := strings.ToLower(strings.TrimSpace(f.Search))
	if search == "" {
		return true
	}
	for _, field := range []string{b.CustomerName, b.BookingRef, b.TourTitle()} {
		if strings.Contains(strings.ToLower(field), search) {
			return true
		}
	}
	return false
}

// ToFilter validates the raw query values.
func (q BookingListQuery) ToFilter() (Filter, error) {
	f := Filter{Search: strings.TrimSpace(q.Search)}

	if q.Status != "" {
		status, ok := ParseStatus(q.Status)
		if !ok {
			return f, fmt.Errorf("%w: unknown status %q, expected one of %s", ErrValidation, q.Status, statusNames())
		}
		f.Status = status
	}
	if q.PaymentStatus != "" {
		ps := PaymentStatus(strings.ToLower(q.PaymentStatus))
		if !ps.IsValid() {
			return f, fmt.Errorf("%w: unknown payment status %q", ErrValidation, q.PaymentStatus)
		}
		f.PaymentStatus = ps
	}
	if q.TourID != "" {
		id, err := uuid.Parse(q.TourID)
		if err != nil {
			return f, fmt.Errorf("%w: invalid tour id", ErrValidation)
		}
		f.TourID = &id
	}
	if q.DateFrom != "" {
		d, err := ParseTourDate(q.DateFrom)
		if err != nil {
			return f, err
		}
		f.DateFrom = &d
	}
	if q.DateTo != "" {
		d, err := ParseTourDate(q.DateTo)
		if err != nil {
			return f, err
		}
		f.DateTo = &d
	}
	if f.DateFrom != nil && f.DateTo != nil && f.DateTo.Before(*f.DateFrom) {
		return f, fmt.Errorf("%w: date_to is before date_from", ErrValidation)
	}
	return f, nil
}

// ParseTourDate accepts YYYY-MM-DD or RFC 3339 and keeps only the calendar day.
func ParseTourDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(dateLayout, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: tour date %q is not a valid date", ErrValidation, s)
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
}

// dayOf drops the clock part, keeping the value's own calendar day.
func dayOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
