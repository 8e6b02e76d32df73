package bookings

// CreateBookingRequest is the storefront checkout payload.
// TotalAmount is advisory; the server recomputes it.
type CreateBookingRequest struct {
	TourID          string   `json:"tour_id" binding:"required,uuid"`
	PricingOptionID *string  `json:"pricing_option_id,omitempty" binding:"omitempty,uuid"`
	CustomerName    string   `json:"customer_name" binding:"required,max=255"`
	CustomerEmail   string   `json:"customer_email" binding:"required,max=255"`
	CustomerPhone   string   `json:"customer_phone,omitempty" binding:"omitempty,max=50"`
	TourDate        string   `json:"tour_date" binding:"required"`
	Adults          int      `json:"adults"`
	Children        int      `json:"children"`
	TotalAmount     *float64 `json:"total_amount,omitempty"`
	Notes           string   `json:"notes,omitempty" binding:"omitempty,max=2000"`
	IdempotencyKey  string   `json:"-"`
}

// QuoteRequest prices a party without creating anything.
type QuoteRequest struct {
	TourID          string  `json:"tour_id" binding:"required,uuid"`
	PricingOptionID *string `json:"pricing_option_id,omitempty" binding:"omitempty,uuid"`
	Adults          int     `json:"adults"`
	Children        int     `json:"children"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type RecordPaymentRequest struct {
	Amount        float64 `json:"amount" binding:"required"`
	PaymentMethod string  `json:"payment_method" binding:"omitempty,max=50"`
	Note          string  `json:"note,omitempty" binding:"omitempty,max=500"`
}

type RefundRequest struct {
	Reason string `json:"reason,omitempty" binding:"omitempty,max=500"`
}

// BookingListQuery binds the admin list filters from the query string.
type BookingListQuery struct {
	Search        string `form:"search"`
	Status        string `form:"status"`
	PaymentStatus string `form:"payment_status"`
	TourID        string `form:"tour_id" binding:"omitempty,uuid"`
	DateFrom      string `form:"date_from"`
	DateTo        string `form:"date_to"`
}

type LookupQuery struct {
	Reference string `form:"reference" binding:"required"`
	Email     string `form:"email" binding:"required"`
}
