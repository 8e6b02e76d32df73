package notifications

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
)

type NotificationPriority string

const (
	NotificationPriorityLow    NotificationPriority = "LOW"
	NotificationPriorityMedium NotificationPriority = "MEDIUM"
	NotificationPriorityHigh   NotificationPriority = "HIGH"
)

type NotificationStatus string

const (
	NotificationStatusPending NotificationStatus = "PENDING"
	NotificationStatusQueued  NotificationStatus = "QUEUED"
	NotificationStatusSending NotificationStatus = "SENDING"
	NotificationStatusSent    NotificationStatus = "SENT"
	NotificationStatusFailed  NotificationStatus = "FAILED"
	NotificationStatusExpired NotificationStatus = "EXPIRED"
)

// EmailNotification is the message carried on the notifications topic.
type EmailNotification struct {
	ID         uuid.UUID            `json:"id"`
	TemplateID string               `json:"template_id"`
	Priority   NotificationPriority `json:"priority"`

	RecipientEmail string `json:"recipient_email"`
	RecipientName  string `json:"recipient_name"`

	// Flat placeholder values for the template
	TemplateData map[string]string `json:"template_data"`

	BookingID *uuid.UUID `json:"booking_id,omitempty"`

	ExpiresAt *time.Time `json:"expires_at,omitempty"`

	Status     NotificationStatus `json:"status"`
	RetryCount int                `json:"retry_count"`
	MaxRetries *int               `json:"max_retries,omitempty"` // nil defers to the service limit
	LastError  *string            `json:"last_error,omitempty"`
	CreatedAt  time.Time          `json:"created_at"`
	UpdatedAt  time.Time          `json:"updated_at"`
	SentAt     *time.Time         `json:"sent_at,omitempty"`
}

type NotificationBuilder struct {
	notification *EmailNotification
}

func NewNotificationBuilder() *NotificationBuilder {
	now := time.Now()
	return &NotificationBuilder{
		notification: &EmailNotification{
			ID:           uuid.New(),
			Priority:     NotificationPriorityMedium,
			Status:       NotificationStatusPending,
			CreatedAt:    now,
			UpdatedAt:    now,
			TemplateData: make(map[string]string),
		},
	}
}

func (nb *NotificationBuilder) WithTemplate(templateID string) *NotificationBuilder {
	nb.notification.TemplateID = templateID
	nb.notification.Priority = GetDefaultPriority(templateID)
	return nb
}

func (nb *NotificationBuilder) WithRecipient(email, name string) *NotificationBuilder {
	nb.notification.RecipientEmail = email
	nb.notification.RecipientName = name
	return nb
}

func (nb *NotificationBuilder) WithPriority(priority NotificationPriority) *NotificationBuilder {
	nb.notification.Priority = priority
	return nb
}

func (nb *NotificationBuilder) WithTemplateData(data map[string]string) *NotificationBuilder {
	for k, v := range data {
		nb.notification.TemplateData[k] = v
	}
	return nb
}

func (nb *NotificationBuilder) WithBookingContext(bookingID uuid.UUID) *NotificationBuilder {
	nb.notification.BookingID = &bookingID
	return nb
}

func (nb *NotificationBuilder) WithExpiration(expiresAt time.Time) *NotificationBuilder {
	nb.notification.ExpiresAt = &expiresAt
	return nb
}

// WithMaxRetries caps retries for this notification; 0 means a single attempt.
func (nb *NotificationBuilder) WithMaxRetries(maxRetries int) *NotificationBuilder {
	if maxRetries < 0 {
		maxRetries = 0
	}
	nb.notification.MaxRetries = &maxRetries
	return nb
}

func (nb *NotificationBuilder) Build() *EmailNotification {
	return nb.notification
}

// GetDefaultPriority ranks money and cancellation messages above the rest.
func GetDefaultPriority(templateID string) NotificationPriority {
	switch templateID {
	case TemplatePaymentReceived, TemplateBookingRefunded, TemplateBookingCancelled:
		return NotificationPriorityHigh
	case TemplateBookingCompleted:
		return NotificationPriorityLow
	default:
		return NotificationPriorityMedium
	}
}

// GetPartitionKey keeps every message for one recipient on one partition so
// they are delivered in order.
func (en *EmailNotification) GetPartitionKey() string {
	return strings.ToLower(en.RecipientEmail)
}

// RetryLimit returns the smaller of the service limit and the notification's own.
func (en *EmailNotification) RetryLimit(serviceLimit int) int {
	if en.MaxRetries != nil && *en.MaxRetries < serviceLimit {
		return max(*en.MaxRetries, 0)
	}
	return serviceLimit
}

func (en *EmailNotification) ToJSON() ([]byte, error) {
	return json.Marshal(en)
}

func (en *EmailNotification) IsExpired() bool {
	return en.ExpiresAt != nil && time.Now().After(*en.ExpiresAt)
}

func (en *EmailNotification) MarkSent() {
	now := time.Now()
	en.Status = NotificationStatusSent
	en.SentAt = &now
	en.UpdatedAt = now
}

func (en *EmailNotification) MarkFailed(err error) {
	en.Status = NotificationStatusFailed
	en.UpdatedAt = time.Now()

	errorStr := err.Error()
	en.LastError = &errorStr
}
