package tours

import (
	"time"

	"tourdesk/internal/bookings"
)

type CategoryInfo struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Slug  string `json:"slug"`
	Color string `json:"color"`
}

type PricingOptionResponse struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Price           float64  `json:"price"`
	OriginalPrice   *float64 `json:"original_price,omitempty"`
	DiscountPercent *int     `json:"discount_percent,omitempty"`
	Description     string   `json:"description,omitempty"`
	Position        int      `json:"position"`
}

type TourResponse struct {
	ID              string                      `json:"id"`
	Title           string                      `json:"title"`
	Slug            string                      `json:"slug"`
	Description     string                      `json:"description"`
	Location        string                      `json:"location"`
	MeetingPoint    string                      `json:"meeting_point"`
	StartTime       string                      `json:"start_time"`
	DurationMinutes int                         `json:"duration_minutes"`
	BasePrice       float64                     `json:"base_price"`
	OriginalPrice   *float64                    `json:"original_price,omitempty"`
	DiscountPercent *int                        `json:"discount_percent,omitempty"`
	Category        *CategoryInfo               `json:"category,omitempty"`
	IsActive        bool                        `json:"is_active"`
	Cancellation    bookings.CancellationPolicy `json:"cancellation_policy"`
	PricingOptions  []PricingOptionResponse     `json:"pricing_options"`
	CreatedAt       time.Time                   `json:"created_at"`
	UpdatedAt       time.Time                   `json:"updated_at"`
}

type PaginatedTours struct {
	Tours      []TourResponse `json:"tours"`
	TotalCount int64          `json:"total_count"`
	Page       int            `json:"page"`
	Limit      int            `json:"limit"`
	TotalPages int            `json:"total_pages"`
}
