package bookings

import (
	"context"
	"fmt"
	"strconv"

	"github.com/google/uuid"
)

// Template ids understood by the notification service.
const (
	TemplateBookingReceived  = "booking_received"
	TemplateBookingConfirmed = "booking_confirmed"
	TemplateBookingCancelled = "booking_cancelled"
	TemplateBookingCompleted = "booking_completed"
	TemplatePaymentReceived  = "payment_received"
	TemplateBookingRefunded  = "booking_refunded"
)

// Placeholder keys carried in Notification.Data.
const (
	PlaceholderCustomerName     = "customer_name"
	PlaceholderCustomerEmail    = "customer_email"
	PlaceholderBookingReference = "booking_reference"
	PlaceholderTourName         = "tour_name"
	PlaceholderTourDate         = "tour_date"
	PlaceholderTourTime         = "tour_time"
	PlaceholderGuestCount       = "guest_count"
	PlaceholderTotalAmount      = "total_amount"
	PlaceholderPaidAmount       = "paid_amount"
	PlaceholderMeetingPoint     = "meeting_point"
	PlaceholderTransactionID    = "transaction_id"
	PlaceholderRefundAmount     = "refund_amount"
	PlaceholderCancellationFee  = "cancellation_fee"
)

var statusTemplates = map[Status]string{
	StatusConfirmed: TemplateBookingConfirmed,
	StatusCancelled: TemplateBookingCancelled,
	StatusCompleted: TemplateBookingCompleted,
}

// Notification is a customer message about a booking.
type Notification struct {
	TemplateID     string
	BookingID      uuid.UUID
	RecipientEmail string
	RecipientName  string
	Data           map[string]string
}

// Notifier delivers booking notifications. Delivery failures never undo the
// booking change that triggered them.
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

// NotificationData snapshots the booking into template placeholders.
func NotificationData(b *Booking, extra map[string]string) map[string]string {
	data := map[string]string{
		PlaceholderCustomerName:     b.CustomerName,
		PlaceholderCustomerEmail:    b.CustomerEmail,
		PlaceholderBookingReference: b.BookingRef,
		PlaceholderTourName:         b.TourTitle(),
		PlaceholderTourDate:         b.TourDate.Format("Monday, January 2, 2006"),
		PlaceholderGuestCount:       strconv.Itoa(b.Guests()),
		PlaceholderTotalAmount:      formatAmount(b.TotalAmount),
		PlaceholderPaidAmount:       formatAmount(b.PaidAmount),
	}
	if b.Tour != nil {
		data[PlaceholderTourTime] = b.Tour.StartTime
		data[PlaceholderMeetingPoint] = b.Tour.MeetingPoint
	}
	for k, v := range extra {
		data[k] = v
	}
	return data
}

func (s *service) notify(ctx context.Context, templateID string, b *Booking, extra map[string]string) {
	if s.notifier == nil {
		return
	}

	n := Notification{
		TemplateID:     templateID,
		BookingID:      b.ID,
		RecipientEmail: b.CustomerEmail,
		RecipientName:  b.CustomerName,
		Data:           NotificationData(b, extra),
	}
	if err := s.notifier.Notify(ctx, n); err != nil {
		s.log.ErrorWithContext(ctx, "Failed to dispatch booking notification", err, map[string]interface{}{
			"template_id": templateID,
			"booking_ref": b.BookingRef,
		})
	}
}

func formatAmount(v float64) string {
	return fmt.Sprintf("%.2f", v)
}
