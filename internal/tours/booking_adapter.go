package tours

import (
	"context"
	"errors"
	"fmt"

	"tourdesk/internal/bookings"

	"github.com/google/uuid"
)

// BookingCatalogAdapter adapts the tour repository to bookings.TourCatalog.
type BookingCatalogAdapter struct {
	repo Repository
}

func NewBookingCatalogAdapter(repo Repository) *BookingCatalogAdapter {
	return &BookingCatalogAdapter{repo: repo}
}

// ResolvePricing returns the option price when optionID is set, the tour's
// base price otherwise. The option must belong to the tour.
func (a *BookingCatalogAdapter) ResolvePricing(ctx context.Context, tourID uuid.UUID, optionID *uuid.UUID) (*bookings.TourPricing, error) {
	tour, err := a.repo.GetByID(ctx, tourID)
	if err != nil {
		if errors.Is(err, ErrTourNotFound) {
			return nil, fmt.Errorf("%w: tour %s does not exist", bookings.ErrValidation, tourID)
		}
		return nil, fmt.Errorf("%w: %v", bookings.ErrRepository, err)
	}
	if !tour.IsActive {
		return nil, fmt.Errorf("%w: tour %q is not bookable", bookings.ErrValidation, tour.Title)
	}

	resolved := &bookings.TourPricing{
		TourID:       tour.ID,
		TourTitle:    tour.Title,
		UnitPrice:    tour.BasePrice,
		MeetingPoint: tour.MeetingPoint,
		StartTime:    tour.StartTime,
	}

	if optionID != nil {
		option := tour.FindOption(*optionID)
		if option == nil {
			return nil, fmt.Errorf("%w: pricing option does not belong to tour %q", bookings.ErrValidation, tour.Title)
		}
		id := option.ID
		resolved.PricingOptionID = &id
		resolved.OptionName = option.Name
		resolved.UnitPrice = option.Price
	}

	return resolved, nil
}

// CancellationPolicy returns the tour's cancellation terms. Inactive tours
// keep their terms for bookings already taken.
func (a *BookingCatalogAdapter) CancellationPolicy(ctx context.Context, tourID uuid.UUID) (*bookings.CancellationPolicy, error) {
	tour, err := a.repo.GetByID(ctx, tourID)
	if err != nil {
		if errors.Is(err, ErrTourNotFound) {
			return nil, fmt.Errorf("%w: tour %s does not exist", bookings.ErrNotFound, tourID)
		}
		return nil, fmt.Errorf("%w: %v", bookings.ErrRepository, err)
	}
	policy := tour.CancellationPolicy()
	return &policy, nil
}
