package tours

type PricingOptionRequest struct {
	Name          string   `json:"name" binding:"required,min=1,max=100"`
	Price         float64  `json:"price" binding:"min=0"`
	OriginalPrice *float64 `json:"original_price" binding:"omitempty,min=0"`
	Description   string   `json:"description" binding:"max=1000"`
}

type UpdatePricingOptionRequest struct {
	Name          *string  `json:"name" binding:"omitempty,min=1,max=100"`
	Price         *float64 `json:"price" binding:"omitempty,min=0"`
	OriginalPrice *float64 `json:"original_price" binding:"omitempty,min=0"`
	ClearOriginal bool     `json:"clear_original_price"`
	Description   *string  `json:"description" binding:"omitempty,max=1000"`
}

// CancellationPolicyRequest sets a tour's cancellation terms. A nil
// AllowCancellation keeps cancellation allowed.
type CancellationPolicyRequest struct {
	AllowCancellation *bool   `json:"allow_cancellation"`
	WindowHours       int     `json:"window_hours" binding:"min=0,max=720"`
	FeeType           string  `json:"fee_type" binding:"omitempty,oneof=NONE FIXED PERCENTAGE"`
	FeeAmount         float64 `json:"fee_amount" binding:"min=0"`
}

type CreateTourRequest struct {
	Title           string                 `json:"title" binding:"required,min=3,max=255"`
	Description     string                 `json:"description" binding:"max=5000"`
	Location        string                 `json:"location" binding:"max=255"`
	MeetingPoint    string                 `json:"meeting_point" binding:"max=255"`
	StartTime       string                 `json:"start_time" binding:"omitempty,len=5"`
	DurationMinutes int                    `json:"duration_minutes" binding:"min=0,max=10080"`
	BasePrice       float64                `json:"base_price" binding:"min=0"`
	OriginalPrice   *float64               `json:"original_price" binding:"omitempty,min=0"`
	CategoryID      *string                `json:"category_id" binding:"omitempty,uuid"`
	PricingOptions  []PricingOptionRequest `json:"pricing_options" binding:"omitempty,dive"`

	CancellationPolicy *CancellationPolicyRequest `json:"cancellation_policy"`
}

type UpdateTourRequest struct {
	Title           *string  `json:"title" binding:"omitempty,min=3,max=255"`
	Description     *string  `json:"description" binding:"omitempty,max=5000"`
	Location        *string  `json:"location" binding:"omitempty,max=255"`
	MeetingPoint    *string  `json:"meeting_point" binding:"omitempty,max=255"`
	StartTime       *string  `json:"start_time" binding:"omitempty,len=5"`
	DurationMinutes *int     `json:"duration_minutes" binding:"omitempty,min=0,max=10080"`
	BasePrice       *float64 `json:"base_price" binding:"omitempty,min=0"`
	OriginalPrice   *float64 `json:"original_price" binding:"omitempty,min=0"`
	ClearOriginal   bool     `json:"clear_original_price"`
	CategoryID      *string  `json:"category_id" binding:"omitempty"`
	IsActive        *bool    `json:"is_active"`

	CancellationPolicy *CancellationPolicyRequest `json:"cancellation_policy"`
}

type TourListQuery struct {
	Page     int    `form:"page" binding:"omitempty,min=1"`
	Limit    int    `form:"limit" binding:"omitempty,min=1,max=100"`
	Search   string `form:"search"`
	Category string `form:"category"` // category slug

	// Set by admin handlers only
	IncludeInactive bool `form:"-"`
}

// ReorderOptionsRequest lists every option id of the tour in the new order.
type ReorderOptionsRequest struct {
	OptionIDs []string `json:"option_ids" binding:"required,min=1,dive,uuid"`
}

type MoveOptionRequest struct {
	To *int `json:"to" binding:"required,min=0"`
}
