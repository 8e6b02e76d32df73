package pricing

import (
	"errors"
	"fmt"
	"math"
)

// ChildRate is the fraction of the unit price charged per child.
const ChildRate = 0.5

// ErrInvalidInput is returned when a price or guest count is out of range.
var ErrInvalidInput = errors.New("invalid pricing input")

// Total computes the booking total for the given unit price and guest counts.
// The result is not rounded.
func Total(unitPrice float64, adults, children int) (float64, error) {
	if err := validate(unitPrice, adults, children); err != nil {
		return 0, err
	}

	return unitPrice*float64(adults) + unitPrice*ChildRate*float64(children), nil
}

// DiscountPercent returns the whole-number discount shown next to a price.
// ok is false when there is nothing to show.
func DiscountPercent(original, price float64) (int, bool) {
	if original <= 0 || original <= price {
		return 0, false
	}
	return int(math.Round((original - price) / original * 100)), true
}

// Round2 rounds to two decimals for display and money comparisons.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Quote is a priced breakdown the storefront shows before submitting a booking.
type Quote struct {
	UnitPrice     float64 `json:"unit_price"`
	Adults        int     `json:"adults"`
	Children      int     `json:"children"`
	AdultSubtotal float64 `json:"adult_subtotal"`
	ChildSubtotal float64 `json:"child_subtotal"`
	Total         float64 `json:"total"`
}

// NewQuote builds a Quote; it fails under the same rules as Total.
func NewQuote(unitPrice float64, adults, children int) (*Quote, error) {
	total, err := Total(unitPrice, adults, children)
	if err != nil {
		return nil, err
	}

	return &Quote{
		UnitPrice:     unitPrice,
		Adults:        adults,
		Children:      children,
		AdultSubtotal: unitPrice * float64(adults),
		ChildSubtotal: unitPrice * ChildRate * float64(children),
		Total:         total,
	}, nil
}

func validate(unitPrice float64, adults, children int) error {
	switch {
	case unitPrice < 0:
		return fmt.Errorf("%w: unit price must not be negative", ErrInvalidInput)
	case adults < 1:
		return fmt.Errorf("%w: at least one adult is required", ErrInvalidInput)
	case children < 0:
		return fmt.Errorf("%w: children must not be negative", ErrInvalidInput)
	}
	return nil
}
