package bookings

import (
	"time"

	"tourdesk/internal/pricing"
)

const dateLayout = "2006-01-02"

type BookingResponse struct {
	ID              string        `json:"id"`
	BookingRef      string        `json:"booking_ref"`
	TourID          string        `json:"tour_id"`
	TourTitle       string        `json:"tour_title,omitempty"`
	PricingOptionID *string       `json:"pricing_option_id,omitempty"`
	CustomerName    string        `json:"customer_name"`
	CustomerEmail   string        `json:"customer_email"`
	CustomerPhone   string        `json:"customer_phone,omitempty"`
	TourDate        string        `json:"tour_date"`
	Adults          int           `json:"adults"`
	Children        int           `json:"children"`
	UnitPrice       float64       `json:"unit_price"`
	TotalAmount     float64       `json:"total_amount"`
	PaidAmount      float64       `json:"paid_amount"`
	Outstanding     float64       `json:"outstanding"`
	Status          Status        `json:"status"`
	PaymentStatus   PaymentStatus `json:"payment_status"`
	Notes           string        `json:"notes,omitempty"`
	ConfirmedAt     *time.Time    `json:"confirmed_at,omitempty"`
	CancelledAt     *time.Time    `json:"cancelled_at,omitempty"`
	CompletedAt     *time.Time    `json:"completed_at,omitempty"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
}

// PublicBookingResponse is what a customer sees on lookup; no internal notes.
type PublicBookingResponse struct {
	BookingRef    string        `json:"booking_ref"`
	TourTitle     string        `json:"tour_title,omitempty"`
	MeetingPoint  string        `json:"meeting_point,omitempty"`
	StartTime     string        `json:"start_time,omitempty"`
	CustomerName  string        `json:"customer_name"`
	TourDate      string        `json:"tour_date"`
	Adults        int           `json:"adults"`
	Children      int           `json:"children"`
	TotalAmount   float64       `json:"total_amount"`
	PaidAmount    float64       `json:"paid_amount"`
	Status        Status        `json:"status"`
	PaymentStatus PaymentStatus `json:"payment_status"`
}

type PaymentResponse struct {
	ID            string      `json:"id"`
	Kind          PaymentKind `json:"kind"`
	Amount        float64     `json:"amount"`
	Currency      string      `json:"currency"`
	PaymentMethod string      `json:"payment_method,omitempty"`
	TransactionID string      `json:"transaction_id"`
	Note          string      `json:"note,omitempty"`
	ProcessedAt   time.Time   `json:"processed_at"`
}

// QuoteResponse is a priced party for the storefront checkout.
type QuoteResponse struct {
	TourID     string `json:"tour_id"`
	TourTitle  string `json:"tour_title"`
	OptionName string `json:"option_name,omitempty"`
	pricing.Quote
}

type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
	Stats    Stats             `json:"stats"`
}

func (b *Booking) ToResponse() BookingResponse {
	resp := BookingResponse{
		ID:            b.ID.String(),
		BookingRef:    b.BookingRef,
		TourID:        b.TourID.String(),
		TourTitle:     b.TourTitle(),
		CustomerName:  b.CustomerName,
		CustomerEmail: b.CustomerEmail,
		CustomerPhone: b.CustomerPhone,
		TourDate:      b.TourDate.Format(dateLayout),
		Adults:        b.Adults,
		Children:      b.Children,
		UnitPrice:     b.UnitPrice,
		TotalAmount:   b.TotalAmount,
		PaidAmount:    b.PaidAmount,
		Outstanding:   b.Outstanding(),
		Status:        b.Status,
		PaymentStatus: b.PaymentStatus,
		Notes:         b.Notes,
		ConfirmedAt:   b.ConfirmedAt,
		CancelledAt:   b.CancelledAt,
		CompletedAt:   b.CompletedAt,
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
	}
	if b.PricingOptionID != nil {
		id := b.PricingOptionID.String()
		resp.PricingOptionID = &id
	}
	return resp
}

func (b *Booking) ToPublicResponse() PublicBookingResponse {
	resp := PublicBookingResponse{
		BookingRef:    b.BookingRef,
		TourTitle:     b.TourTitle(),
		CustomerName:  b.CustomerName,
		TourDate:      b.TourDate.Format(dateLayout),
		Adults:        b.Adults,
		Children:      b.Children,
		TotalAmount:   b.TotalAmount,
		PaidAmount:    b.PaidAmount,
		Status:        b.Status,
		PaymentStatus: b.PaymentStatus,
	}
	if b.Tour != nil {
		resp.MeetingPoint = b.Tour.MeetingPoint
		resp.StartTime = b.Tour.StartTime
	}
	return resp
}

func (p *Payment) ToResponse() PaymentResponse {
	return PaymentResponse{
		ID:            p.ID.String(),
		Kind:          p.Kind,
		Amount:        p.Amount,
		Currency:      p.Currency,
		PaymentMethod: p.PaymentMethod,
		TransactionID: p.TransactionID,
		Note:          p.Note,
		ProcessedAt:   p.ProcessedAt,
	}
}

func ToResponses(list []Booking) []BookingResponse {
	out := make([]BookingResponse, 0, len(list))
	for i := range list {
		out = append(out, list[i].ToResponse())
	}
	return out
}
