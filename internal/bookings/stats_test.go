package bookings

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d, hour int) time.Time {
	return time.Date(y, m, d, hour, 0, 0, 0, time.UTC)
}

func TestAggregate(t *testing.T) {
	list := []Booking{
		{Status: StatusPending, PaidAmount: 0},
		{Status: StatusConfirmed, PaidAmount: 200},
		{Status: StatusCompleted, PaidAmount: 300},
		{Status: StatusCancelled, PaidAmount: 150},
	}

	stats := Aggregate(list)
	assert.Equal(t, Stats{Total: 4, Pending: 1, Confirmed: 1, Completed: 1, Cancelled: 1, TotalRevenue: 500}, stats)
}

func TestAggregateEmpty(t *testing.T) {
	assert.Equal(t, Stats{}, Aggregate(nil))
}

func TestGroupByDateIgnoresTimeOfDay(t *testing.T) {
	list := []Booking{
		{BookingRef: "BK-AAAAAAAA", TourDate: day(2026, 1, 15, 0)},
		{BookingRef: "BK-BBBBBBBB", TourDate: day(2026, 1, 16, 0)},
	}

	got := GroupByDate(list, day(2026, 1, 15, 23))
	require.Len(t, got, 1)
	assert.Equal(t, "BK-AAAAAAAA", got[0].BookingRef)

	assert.Empty(t, GroupByDate(list, day(2026, 1, 17, 12)))
}

func TestFilterMatches(t *testing.T) {
	tourID := uuid.New()
	b := &Booking{
		BookingRef:    "BK-AB12CD34",
		TourID:        tourID,
		CustomerName:  "Ana Lima",
		TourDate:      day(2026, 3, 5, 0),
		Status:        StatusConfirmed,
		PaymentStatus: PaymentStatusPartial,
		Tour:          &TourRef{Title: "Harbour Sunset Cruise"},
	}
	other := uuid.New()
	from, to := day(2026, 3, 1, 0), day(2026, 3, 5, 18)
	late := day(2026, 3, 6, 0)

	cases := []struct {
		name   string
		filter Filter
		want   bool
	}{
		{"empty filter", Filter{}, true},
		{"name search", Filter{Search: "ana"}, true},
		{"reference search", Filter{Search: "ab12"}, true},
		{"tour title search", Filter{Search: "SUNSET"}, true},
		{"search miss", Filter{Search: "kayak"}, false},
		{"status", Filter{Status: StatusConfirmed}, true},
		{"status miss", Filter{Status: StatusPending}, false},
		{"payment status", Filter{PaymentStatus: PaymentStatusPartial}, true},
		{"payment status miss", Filter{PaymentStatus: PaymentStatusPaid}, false},
		{"tour", Filter{TourID: &tourID}, true},
		{"other tour", Filter{TourID: &other}, false},
		{"inclusive range", Filter{DateFrom: &from, DateTo: &to}, true},
		{"after range", Filter{DateFrom: &late}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.filter.Matches(b))
		})
	}
}

func TestBookingListQueryToFilter(t *testing.T) {
	f, err := BookingListQuery{Status: "Pending", PaymentStatus: "paid", DateFrom: "2026-01-01", DateTo: "2026-01-31"}.ToFilter()
	require.NoError(t, err)
	assert.Equal(t, StatusPending, f.Status)
	assert.Equal(t, PaymentStatusPaid, f.PaymentStatus)
	require.NotNil(t, f.DateFrom)
	assert.Equal(t, day(2026, 1, 1, 0), *f.DateFrom)

	_, err = BookingListQuery{Status: "archived"}.ToFilter()
	assert.ErrorIs(t, err, ErrValidation)
	assert.ErrorContains(t, err, "pending, confirmed, cancelled, completed")

	_, err = BookingListQuery{DateFrom: "2026-02-01", DateTo: "2026-01-01"}.ToFilter()
	assert.ErrorIs(t, err, ErrValidation)
}

func TestGuestLabelAndOutstanding(t *testing.T) {
	b := &Booking{Adults: 2, Children: 1, TotalAmount: 250, PaidAmount: 100, Status: StatusConfirmed, PaymentStatus: PaymentStatusPartial}
	assert.Equal(t, "2 adults, 1 child", b.GuestLabel())
	assert.Equal(t, 150.0, b.Outstanding())

	b.Status = StatusCancelled
	assert.Equal(t, 0.0, b.Outstanding())

	single := &Booking{Adults: 1}
	assert.Equal(t, "1 adult", single.GuestLabel())
}
