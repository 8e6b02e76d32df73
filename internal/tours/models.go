package tours

import (
	"time"

	"tourdesk/internal/bookings"
	"tourdesk/internal/categories"

	"github.com/google/uuid"
)

type Tour struct {
	ID              uuid.UUID            `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	Title           string               `json:"title" gorm:"not null;size:255"`
	Slug            string               `json:"slug" gorm:"uniqueIndex;not null;size:255"`
	Description     string               `json:"description" gorm:"type:text"`
	Location        string               `json:"location" gorm:"size:255"`
	MeetingPoint    string               `json:"meeting_point" gorm:"size:255"`
	StartTime       string               `json:"start_time" gorm:"size:5"` // HH:MM, local to the tour
	DurationMinutes int                  `json:"duration_minutes" gorm:"default:0;check:duration_minutes >= 0"`
	BasePrice       float64              `json:"base_price" gorm:"type:numeric(10,2);not null;check:base_price >= 0"`
	OriginalPrice   *float64             `json:"original_price" gorm:"type:numeric(10,2)"`
	CategoryID      *uuid.UUID           `json:"category_id" gorm:"type:uuid;index"`
	Category        *categories.Category `json:"-" gorm:"foreignKey:CategoryID;constraint:OnDelete:SET NULL"`
	IsActive        bool                 `json:"is_active" gorm:"default:true;index"`

	// Cancellation terms; the zero values allow free cancellation at any time
	DisallowCancellation    bool    `json:"disallow_cancellation" gorm:"default:false"`
	CancellationWindowHours int     `json:"cancellation_window_hours" gorm:"default:0;check:cancellation_window_hours >= 0"`
	CancellationFeeType     string  `json:"cancellation_fee_type" gorm:"type:varchar(20);default:'NONE';check:cancellation_fee_type IN ('NONE', 'FIXED', 'PERCENTAGE')"`
	CancellationFeeAmount   float64 `json:"cancellation_fee_amount" gorm:"type:numeric(10,2);default:0;check:cancellation_fee_amount >= 0"`

	PricingOptions []PricingOption `json:"-" gorm:"foreignKey:TourID;constraint:OnDelete:CASCADE"`

	CreatedBy *uuid.UUID `json:"created_by" gorm:"type:uuid"`
	UpdatedBy *uuid.UUID `json:"updated_by" gorm:"type:uuid"`
	CreatedAt time.Time  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time  `json:"updated_at" gorm:"autoUpdateTime"`
}

// PricingOption is one purchasable variant of a tour. Position orders the
// options and is unique within a tour.
type PricingOption struct {
	ID            uuid.UUID `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	TourID        uuid.UUID `json:"tour_id" gorm:"type:uuid;not null;uniqueIndex:idx_pricing_options_tour_position,priority:1"`
	Name          string    `json:"name" gorm:"not null;size:100"`
	Price         float64   `json:"price" gorm:"type:numeric(10,2);not null;check:price >= 0"`
	OriginalPrice *float64  `json:"original_price" gorm:"type:numeric(10,2)"`
	Description   string    `json:"description" gorm:"type:text"`
	Position      int       `json:"position" gorm:"not null;default:0;check:position >= 0;uniqueIndex:idx_pricing_options_tour_position,priority:2"`
	CreatedAt     time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt     time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

func (t *Tour) ToResponse() TourResponse {
	resp := TourResponse{
		ID:              t.ID.String(),
		Title:           t.Title,
		Slug:            t.Slug,
		Description:     t.Description,
		Location:        t.Location,
		MeetingPoint:    t.MeetingPoint,
		StartTime:       t.StartTime,
		DurationMinutes: t.DurationMinutes,
		BasePrice:       t.BasePrice,
		OriginalPrice:   t.OriginalPrice,
		DiscountPercent: discountOf(t.OriginalPrice, t.BasePrice),
		IsActive:        t.IsActive,
		Cancellation:    t.CancellationPolicy(),
		PricingOptions:  make([]PricingOptionResponse, len(t.PricingOptions)),
		CreatedAt:       t.CreatedAt,
		UpdatedAt:       t.UpdatedAt,
	}

	if t.Category != nil {
		resp.Category = &CategoryInfo{
			ID:    t.Category.ID.String(),
			Name:  t.Category.Name,
			Slug:  t.Category.Slug,
			Color: t.Category.Color,
		}
	}

	sorted := sortedOptions(t.PricingOptions)
	for i := range sorted {
		resp.PricingOptions[i] = sorted[i].ToResponse()
	}
	return resp
}

func (o *PricingOption) ToResponse() PricingOptionResponse {
	return PricingOptionResponse{
		ID:              o.ID.String(),
		Name:            o.Name,
		Price:           o.Price,
		OriginalPrice:   o.OriginalPrice,
		DiscountPercent: discountOf(o.OriginalPrice, o.Price),
		Description:     o.Description,
		Position:        o.Position,
	}
}

// CancellationPolicy returns the tour's cancellation terms.
func (t *Tour) CancellationPolicy() bookings.CancellationPolicy {
	feeType := bookings.FeeType(t.CancellationFeeType)
	if feeType == "" {
		feeType = bookings.FeeTypeNone
	}
	return bookings.CancellationPolicy{
		AllowCancellation: !t.DisallowCancellation,
		WindowHours:       t.CancellationWindowHours,
		FeeType:           feeType,
		FeeAmount:         t.CancellationFeeAmount,
	}
}

// FindOption returns the tour's option with the given id, or nil.
func (t *Tour) FindOption(id uuid.UUID) *PricingOption {
	for i := range t.PricingOptions {
		if t.PricingOptions[i].ID == id {
			return &t.PricingOptions[i]
		}
	}
	return nil
}

// TableName specifies the table name for GORM
func (Tour) TableName() string {
	return "tours"
}

func (PricingOption) TableName() string {
	return "pricing_options"
}
