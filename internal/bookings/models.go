package bookings

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Booking defines the main booking structure
type Booking struct {
	ID              uuid.UUID     `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	BookingRef      string        `gorm:"type:varchar(11);uniqueIndex;not null" json:"booking_ref"`
	TourID          uuid.UUID     `gorm:"type:uuid;index;not null" json:"tour_id"`
	PricingOptionID *uuid.UUID    `gorm:"type:uuid;index" json:"pricing_option_id,omitempty"`
	CustomerName    string        `gorm:"type:varchar(255);not null" json:"customer_name"`
	CustomerEmail   string        `gorm:"type:varchar(255);index;not null" json:"customer_email"`
	CustomerPhone   string        `gorm:"type:varchar(50)" json:"customer_phone,omitempty"`
	TourDate        time.Time     `gorm:"type:date;index;not null" json:"tour_date"`
	Adults          int           `gorm:"not null;check:adults >= 1" json:"adults"`
	Children        int           `gorm:"not null;default:0;check:children >= 0" json:"children"`
	UnitPrice       float64       `gorm:"type:decimal(10,2);not null;check:unit_price >= 0" json:"unit_price"`
	TotalAmount     float64       `gorm:"type:decimal(10,2);not null;check:total_amount >= 0" json:"total_amount"`
	PaidAmount      float64       `gorm:"type:decimal(10,2);not null;default:0;check:paid_amount >= 0" json:"paid_amount"`
	Status          Status        `gorm:"type:varchar(20);not null;default:'pending';check:status IN ('pending', 'confirmed', 'cancelled', 'completed')" json:"status"`
	PaymentStatus   PaymentStatus `gorm:"type:varchar(20);not null;default:'unpaid';check:payment_status IN ('unpaid', 'partial', 'paid', 'refunded')" json:"payment_status"`
	Notes           string        `gorm:"type:text" json:"notes,omitempty"`
	IdempotencyKey  *string       `gorm:"type:varchar(255);uniqueIndex" json:"-"`
	ConfirmedAt     *time.Time    `json:"confirmed_at,omitempty"`
	CancelledAt     *time.Time    `json:"cancelled_at,omitempty"`
	CompletedAt     *time.Time    `json:"completed_at,omitempty"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`

	// Relationships
	Tour     *TourRef  `json:"tour,omitempty" gorm:"foreignKey:TourID;references:ID;-:migration"`
	Payments []Payment `json:"payments,omitempty" gorm:"foreignKey:BookingID;constraint:OnDelete:RESTRICT;"`
}

// Payment is one money movement on a booking. PAYMENT rows add to the paid
// amount; a REFUND row returns it.
type Payment struct {
	ID            uuid.UUID   `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	BookingID     uuid.UUID   `gorm:"type:uuid;index;not null" json:"booking_id"`
	Kind          PaymentKind `gorm:"type:varchar(10);not null;check:kind IN ('PAYMENT', 'REFUND')" json:"kind"`
	Amount        float64     `gorm:"type:decimal(10,2);not null;check:amount > 0" json:"amount"`
	Currency      string      `gorm:"type:varchar(3);default:'USD'" json:"currency"`
	PaymentMethod string      `gorm:"type:varchar(50)" json:"payment_method,omitempty"`
	TransactionID string      `gorm:"uniqueIndex;not null" json:"transaction_id"`
	Note          string      `gorm:"type:text" json:"note,omitempty"`
	ProcessedAt   time.Time   `gorm:"not null" json:"processed_at"`
	CreatedAt     time.Time   `json:"created_at"`
}

// TourRef is the slice of a tour a booking needs for display and messages.
// It reads the tours table owned by the tours package.
type TourRef struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Title        string    `json:"title"`
	Slug         string    `json:"slug"`
	MeetingPoint string    `json:"meeting_point"`
	StartTime    string    `json:"start_time"`
}

// TableName sets the table name for Booking
func (Booking) TableName() string {
	return "bookings"
}

// TableName sets the table name for Payment
func (Payment) TableName() string {
	return "payments"
}

func (TourRef) TableName() string {
	return "tours"
}

// Guests is the total head count.
func (b *Booking) Guests() int {
	return b.Adults + b.Children
}

// Outstanding is what is still owed; refunded and cancelled bookings owe nothing.
func (b *Booking) Outstanding() float64 {
	if b.Status == StatusCancelled || b.PaymentStatus == PaymentStatusRefunded {
		return 0
	}
	if b.PaidAmount >= b.TotalAmount {
		return 0
	}
	return b.TotalAmount - b.PaidAmount
}

// TourTitle returns the joined tour title when it was loaded.
func (b *Booking) TourTitle() string {
	if b.Tour == nil {
		return ""
	}
	return b.Tour.Title
}

// GuestLabel renders the party size, e.g. "2 adults, 1 child".
func (b *Booking) GuestLabel() string {
	label := plural(b.Adults, "adult", "adults")
	if b.Children > 0 {
		label += ", " + plural(b.Children, "child", "children")
	}
	return label
}

// markStatus applies a transition to the in-memory record after it was persisted.
func (b *Booking) markStatus(status Status, at time.Time) {
	b.Status = status
	b.UpdatedAt = at
	switch status {
	case StatusConfirmed:
		b.ConfirmedAt = &at
	case StatusCancelled:
		b.CancelledAt = &at
	case StatusCompleted:
		b.CompletedAt = &at
	}
}

func plural(n int, one, many string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, one)
	}
	return fmt.Sprintf("%d %s", n, many)
}
