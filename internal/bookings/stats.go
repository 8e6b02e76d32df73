package bookings

import "time"

// Stats summarizes a booking list for the admin dashboard.
type Stats struct {
	Total        int     `json:"total"`
	Pending      int     `json:"pending"`
	Confirmed    int     `json:"confirmed"`
	Completed    int     `json:"completed"`
	Cancelled    int     `json:"cancelled"`
	TotalRevenue float64 `json:"total_revenue"`
}

// Aggregate counts bookings per status and sums the paid amount of every
// booking that is not cancelled.
func Aggregate(list []Booking) Stats {
	var s Stats
	for i := range list {
		b := &list[i]
		s.Total++
		switch b.Status {
		case StatusPending:
			s.Pending++
		case StatusConfirmed:
			s.Confirmed++
		case StatusCompleted:
			s.Completed++
		case StatusCancelled:
			s.Cancelled++
		}
		if b.Status != StatusCancelled {
			s.TotalRevenue += b.PaidAmount
		}
	}
	return s
}

// GroupByDate returns the bookings whose tour date falls on the same calendar
// day as date. Times of day are ignored on both sides.
func GroupByDate(list []Booking, date time.Time) []Booking {
	day := dayOf(date)
	out := make([]Booking, 0)
	for i := range list {
		if dayOf(list[i].TourDate).Equal(day) {
			out = append(out, list[i])
		}
	}
	return out
}

// FilterBookings narrows an in-memory list.
func FilterBookings(list []Booking, f Filter) []Booking {
	out := make([]Booking, 0, len(list))
	for i := range list {
		if f.Matches(&list[i]) {
			out = append(out, list[i])
		}
	}
	return out
}
