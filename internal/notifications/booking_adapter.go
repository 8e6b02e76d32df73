package notifications

import (
	"context"

	"tourdesk/internal/bookings"
)

// BookingNotifier adapts the notification service to bookings.Notifier.
type BookingNotifier struct {
	service NotificationService
}

func NewBookingNotifier(service NotificationService) *BookingNotifier {
	return &BookingNotifier{service: service}
}

func (bn *BookingNotifier) Notify(ctx context.Context, n bookings.Notification) error {
	if _, err := GetTemplate(n.TemplateID); err != nil {
		return err
	}

	notification := NewNotificationBuilder().
		WithTemplate(n.TemplateID).
		WithRecipient(n.RecipientEmail, n.RecipientName).
		WithTemplateData(n.Data).
		WithBookingContext(n.BookingID).
		Build()

	return bn.service.Send(ctx, notification)
}
