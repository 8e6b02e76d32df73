package dashboard

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tourdesk/internal/bookings"

	"github.com/google/uuid"
)

var ErrInvalidMonth = errors.New("invalid calendar month")

// BookingSource is the slice of the booking service the dashboard reads.
type BookingSource interface {
	ListBookings(ctx context.Context, filter bookings.Filter) ([]bookings.Booking, error)
	GetBooking(ctx context.Context, id uuid.UUID) (*bookings.Booking, error)
	ListPayments(ctx context.Context, id uuid.UUID) ([]bookings.Payment, error)
}

type Overview struct {
	Stats bookings.Stats `json:"stats"`
	Cards []StatCard     `json:"cards"`
	Rows  []Row          `json:"rows"`
}

type BookingDetail struct {
	Row      Row                        `json:"booking"`
	Notes    string                     `json:"notes,omitempty"`
	Payments []bookings.PaymentResponse `json:"payments"`
}

type Service interface {
	GetOverview(ctx context.Context, filter bookings.Filter) (*Overview, error)
	GetCalendar(ctx context.Context, year int, month time.Month, filter bookings.Filter) (*CalendarMonth, error)
	GetBookingDetail(ctx context.Context, id uuid.UUID) (*BookingDetail, error)
}

type service struct {
	bookings BookingSource
}

func NewService(source BookingSource) Service {
	return &service{bookings: source}
}

func (s *service) GetOverview(ctx context.Context, filter bookings.Filter) (*Overview, error) {
	list, err := s.bookings.ListBookings(ctx, filter)
	if err != nil {
		return nil, err
	}

	stats := bookings.Aggregate(list)
	return &Overview{
		Stats: stats,
		Cards: BuildStatCards(stats),
		Rows:  BuildRows(list),
	}, nil
}

// GetCalendar loads the whole month once and applies the remaining filter in
// memory, so the month total stays visible next to the filtered days.
func (s *service) GetCalendar(ctx context.Context, year int, month time.Month, filter bookings.Filter) (*CalendarMonth, error) {
	if month < time.January || month > time.December {
		return nil, fmt.Errorf("%w: month must be 1-12", ErrInvalidMonth)
	}
	if year < 2000 || year > 2100 {
		return nil, fmt.Errorf("%w: year %d out of range", ErrInvalidMonth, year)
	}

	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)

	monthList, err := s.bookings.ListBookings(ctx, bookings.Filter{DateFrom: &first, DateTo: &last})
	if err != nil {
		return nil, err
	}

	filter.DateFrom = &first
	filter.DateTo = &last
	cal := BuildCalendar(bookings.FilterBookings(monthList, filter), year, month)
	cal.MonthTotal = len(monthList)
	return &cal, nil
}

func (s *service) GetBookingDetail(ctx context.Context, id uuid.UUID) (*BookingDetail, error) {
	booking, err := s.bookings.GetBooking(ctx, id)
	if err != nil {
		return nil, err
	}

	payments, err := s.bookings.ListPayments(ctx, id)
	if err != nil {
		return nil, err
	}

	history := make([]bookings.PaymentResponse, len(payments))
	for i := range payments {
		history[i] = payments[i].ToResponse()
	}

	return &BookingDetail{
		Row:      BuildRow(booking),
		Notes:    booking.Notes,
		Payments: history,
	}, nil
}
