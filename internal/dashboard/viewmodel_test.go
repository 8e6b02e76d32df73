package dashboard

import (
	"testing"
	"time"

	"tourdesk/internal/bookings"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func booking(status bookings.Status, payment bookings.PaymentStatus, total, paid float64, date time.Time) bookings.Booking {
	return bookings.Booking{
		ID:            uuid.New(),
		BookingRef:    bookings.GenerateReference(),
		CustomerName:  "Ana Lima",
		CustomerEmail: "ana@example.com",
		TourDate:      date,
		Adults:        2,
		Children:      1,
		TotalAmount:   total,
		PaidAmount:    paid,
		Status:        status,
		PaymentStatus: payment,
		Tour:          &bookings.TourRef{Title: "Old Town Walk"},
	}
}

func day(y int, m time.Month, d, hour int) time.Time {
	return time.Date(y, m, d, hour, 0, 0, 0, time.UTC)
}

func TestAvailableActions(t *testing.T) {
	date := day(2026, time.March, 3, 0)

	tests := []struct {
		name string
		b    bookings.Booking
		want []Action
	}{
		{
			"pending unpaid",
			booking(bookings.StatusPending, bookings.PaymentStatusUnpaid, 250, 0, date),
			[]Action{ActionConfirm, ActionCancel, ActionComplete, ActionRecordPayment},
		},
		{
			"confirmed partial",
			booking(bookings.StatusConfirmed, bookings.PaymentStatusPartial, 250, 100, date),
			[]Action{ActionCancel, ActionComplete, ActionRecordPayment, ActionRefund},
		},
		{
			"completed paid",
			booking(bookings.StatusCompleted, bookings.PaymentStatusPaid, 250, 250, date),
			[]Action{ActionRefund},
		},
		{
			"cancelled paid can still refund",
			booking(bookings.StatusCancelled, bookings.PaymentStatusPaid, 250, 250, date),
			[]Action{ActionRefund},
		},
		{
			"cancelled refunded",
			booking(bookings.StatusCancelled, bookings.PaymentStatusRefunded, 250, 250, date),
			[]Action{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AvailableActions(&tt.b))
		})
	}
}

func TestBuildRows(t *testing.T) {
	list := []bookings.Booking{
		booking(bookings.StatusConfirmed, bookings.PaymentStatusPartial, 250, 100, day(2026, time.January, 15, 0)),
		booking(bookings.StatusPending, bookings.PaymentStatusUnpaid, 80, 0, day(2026, time.January, 16, 0)),
	}

	rows := BuildRows(list)
	require.Len(t, rows, 2)

	row := rows[0]
	assert.Equal(t, list[0].BookingRef, row.Reference)
	assert.Equal(t, "Old Town Walk", row.TourTitle)
	assert.Equal(t, "2026-01-15", row.TourDate)
	assert.Equal(t, "Thu, Jan 15, 2026", row.TourDateLabel)
	assert.Equal(t, 3, row.Guests)
	assert.Equal(t, "2 adults, 1 child", row.GuestLabel)
	assert.Equal(t, 150.0, row.Outstanding)

	// Pure: building twice gives the same result
	assert.Equal(t, rows, BuildRows(list))
}

func TestBuildStatCards(t *testing.T) {
	list := []bookings.Booking{
		booking(bookings.StatusConfirmed, bookings.PaymentStatusPaid, 200, 200, day(2026, time.January, 1, 0)),
		booking(bookings.StatusCancelled, bookings.PaymentStatusPaid, 500, 500, day(2026, time.January, 2, 0)),
		booking(bookings.StatusCompleted, bookings.PaymentStatusPaid, 300, 300, day(2026, time.January, 3, 0)),
	}

	cards := BuildStatCards(bookings.Aggregate(list))
	require.Len(t, cards, 6)

	byKey := map[string]StatCard{}
	for _, c := range cards {
		byKey[c.Key] = c
	}
	assert.Equal(t, "3", byKey["total"].Display)
	assert.Equal(t, 1.0, byKey["cancelled"].Value)
	assert.Equal(t, 500.0, byKey["revenue"].Value)
	assert.Equal(t, "$500.00", byKey["revenue"].Display)
}

func TestBuildCalendar(t *testing.T) {
	list := []bookings.Booking{
		booking(bookings.StatusPending, bookings.PaymentStatusUnpaid, 100, 0, day(2026, time.February, 14, 0)),
		booking(bookings.StatusConfirmed, bookings.PaymentStatusUnpaid, 100, 0, day(2026, time.February, 14, 23)),
		booking(bookings.StatusConfirmed, bookings.PaymentStatusUnpaid, 100, 0, day(2026, time.February, 28, 0)),
		booking(bookings.StatusConfirmed, bookings.PaymentStatusUnpaid, 100, 0, day(2026, time.March, 1, 0)),
	}

	cal := BuildCalendar(list, 2026, time.February)

	assert.Equal(t, 2026, cal.Year)
	assert.Len(t, cal.Days, 28)
	assert.Equal(t, 0, cal.LeadingBlanks, "Feb 1 2026 is a Sunday")
	assert.Equal(t, 3, cal.Total)

	valentines := cal.Days[13]
	assert.Equal(t, "2026-02-14", valentines.Date)
	assert.Equal(t, 2, valentines.Count)
	assert.Equal(t, 6, valentines.Guests)
	assert.Len(t, valentines.Bookings, 2)

	assert.Equal(t, 1, cal.Days[27].Count)
	assert.Equal(t, 0, cal.Days[0].Count)
	assert.NotNil(t, cal.Days[0].Bookings)
}

func TestBuildCalendarLeapYear(t *testing.T) {
	cal := BuildCalendar(nil, 2028, time.February)
	assert.Len(t, cal.Days, 29)
	assert.Equal(t, 2, cal.LeadingBlanks, "Feb 1 2028 is a Tuesday")
}
