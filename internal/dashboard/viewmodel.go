package dashboard

import (
	"fmt"
	"time"

	"tourdesk/internal/bookings"
)

const (
	dateLayout      = "2006-01-02"
	dateLabelLayout = "Mon, Jan 2, 2006"
)

// Action is an affordance the admin table offers for a booking.
type Action string

const (
	ActionConfirm       Action = "confirm"
	ActionCancel        Action = "cancel"
	ActionComplete      Action = "complete"
	ActionRecordPayment Action = "record_payment"
	ActionRefund        Action = "refund"
)

// Row is one line of the admin bookings table.
type Row struct {
	ID            string                 `json:"id"`
	Reference     string                 `json:"reference"`
	CustomerName  string                 `json:"customer_name"`
	CustomerEmail string                 `json:"customer_email"`
	CustomerPhone string                 `json:"customer_phone,omitempty"`
	TourTitle     string                 `json:"tour_title"`
	TourDate      string                 `json:"tour_date"`
	TourDateLabel string                 `json:"tour_date_label"`
	Guests        int                    `json:"guests"`
	GuestLabel    string                 `json:"guest_label"`
	TotalAmount   float64                `json:"total_amount"`
	PaidAmount    float64                `json:"paid_amount"`
	Outstanding   float64                `json:"outstanding"`
	Status        bookings.Status        `json:"status"`
	PaymentStatus bookings.PaymentStatus `json:"payment_status"`
	Actions       []Action               `json:"actions"`
	CreatedAt     time.Time              `json:"created_at"`
}

type StatCard struct {
	Key     string  `json:"key"`
	Label   string  `json:"label"`
	Value   float64 `json:"value"`
	Display string  `json:"display"`
}

type CalendarDay struct {
	Date     string       `json:"date"`
	Day      int          `json:"day"`
	Weekday  time.Weekday `json:"weekday"`
	Count    int          `json:"count"`
	Guests   int          `json:"guests"`
	Bookings []Row        `json:"bookings"`
}

type CalendarMonth struct {
	Year  int        `json:"year"`
	Month time.Month `json:"month"`
	// LeadingBlanks is the number of empty cells before day 1 in a
	// Sunday-first grid.
	LeadingBlanks int           `json:"leading_blanks"`
	Days          []CalendarDay `json:"days"`
	Total         int           `json:"total"`
	// MonthTotal counts the month's bookings before status and search filters.
	MonthTotal int `json:"month_total"`
}

// AvailableActions lists what an admin may do with b right now. Status
// actions follow the lifecycle table; money actions follow the payment rules.
func AvailableActions(b *bookings.Booking) []Action {
	actions := make([]Action, 0, 4)

	if !b.Status.IsTerminal() {
		if b.Status.CanTransitionTo(bookings.StatusConfirmed) {
			actions = append(actions, ActionConfirm)
		}
		if b.Status.CanTransitionTo(bookings.StatusCancelled) {
			actions = append(actions, ActionCancel)
		}
		if b.Status.CanTransitionTo(bookings.StatusCompleted) {
			actions = append(actions, ActionComplete)
		}
	}
	if b.Outstanding() > 0 {
		actions = append(actions, ActionRecordPayment)
	}
	if b.PaidAmount > 0 && b.PaymentStatus != bookings.PaymentStatusRefunded {
		actions = append(actions, ActionRefund)
	}

	return actions
}

func BuildRow(b *bookings.Booking) Row {
	return Row{
		ID:            b.ID.String(),
		Reference:     b.BookingRef,
		CustomerName:  b.CustomerName,
		CustomerEmail: b.CustomerEmail,
		CustomerPhone: b.CustomerPhone,
		TourTitle:     b.TourTitle(),
		TourDate:      b.TourDate.Format(dateLayout),
		TourDateLabel: b.TourDate.Format(dateLabelLayout),
		Guests:        b.Guests(),
		GuestLabel:    b.GuestLabel(),
		TotalAmount:   b.TotalAmount,
		PaidAmount:    b.PaidAmount,
		Outstanding:   b.Outstanding(),
		Status:        b.Status,
		PaymentStatus: b.PaymentStatus,
		Actions:       AvailableActions(b),
		CreatedAt:     b.CreatedAt,
	}
}

// BuildRows keeps the input order.
func BuildRows(list []bookings.Booking) []Row {
	rows := make([]Row, len(list))
	for i := range list {
		rows[i] = BuildRow(&list[i])
	}
	return rows
}

func BuildStatCards(stats bookings.Stats) []StatCard {
	count := func(key, label string, n int) StatCard {
		return StatCard{Key: key, Label: label, Value: float64(n), Display: fmt.Sprintf("%d", n)}
	}

	return []StatCard{
		count("total", "Total Bookings", stats.Total),
		count("pending", "Pending", stats.Pending),
		count("confirmed", "Confirmed", stats.Confirmed),
		count("completed", "Completed", stats.Completed),
		count("cancelled", "Cancelled", stats.Cancelled),
		{
			Key:     "revenue",
			Label:   "Total Revenue",
			Value:   stats.TotalRevenue,
			Display: fmt.Sprintf("$%.2f", stats.TotalRevenue),
		},
	}
}

// BuildCalendar lays out every day of the month with the bookings whose
// tour date falls on it. Bookings outside the month are ignored.
func BuildCalendar(list []bookings.Booking, year int, month time.Month) CalendarMonth {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	daysInMonth := first.AddDate(0, 1, -1).Day()

	cal := CalendarMonth{
		Year:          year,
		Month:         month,
		LeadingBlanks: int(first.Weekday()),
		Days:          make([]CalendarDay, daysInMonth),
	}

	for d := 0; d < daysInMonth; d++ {
		date := first.AddDate(0, 0, d)
		onDay := bookings.GroupByDate(list, date)

		day := CalendarDay{
			Date:     date.Format(dateLayout),
			Day:      d + 1,
			Weekday:  date.Weekday(),
			Count:    len(onDay),
			Bookings: BuildRows(onDay),
		}
		for i := range onDay {
			day.Guests += onDay[i].Guests()
		}

		cal.Days[d] = day
		cal.Total += day.Count
	}

	return cal
}
