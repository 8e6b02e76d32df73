package bookings

import (
	"context"
	"fmt"
	"time"

	"tourdesk/internal/pricing"

	"github.com/google/uuid"
)

// FeeType says how a cancellation fee is charged.
type FeeType string

const (
	FeeTypeNone       FeeType = "NONE"
	FeeTypeFixed      FeeType = "FIXED"
	FeeTypePercentage FeeType = "PERCENTAGE"
)

func (f FeeType) IsValid() bool {
	switch f {
	case FeeTypeNone, FeeTypeFixed, FeeTypePercentage:
		return true
	}
	return false
}

// CancellationPolicy holds a tour's cancellation terms. WindowHours closes
// cancellation that many hours before the tour starts; zero leaves it open.
type CancellationPolicy struct {
	AllowCancellation bool    `json:"allow_cancellation"`
	WindowHours       int     `json:"window_hours"`
	FeeType           FeeType `json:"fee_type"`
	FeeAmount         float64 `json:"fee_amount"`
}

// CancellationPolicies resolves the policy of a tour from the catalogue.
type CancellationPolicies interface {
	CancellationPolicy(ctx context.Context, tourID uuid.UUID) (*CancellationPolicy, error)
}

// DefaultCancellationPolicy allows cancellation at any time without a fee.
func DefaultCancellationPolicy() CancellationPolicy {
	return CancellationPolicy{AllowCancellation: true, FeeType: FeeTypeNone}
}

// Validate checks the policy terms an admin submits.
func (p CancellationPolicy) Validate() error {
	if !p.FeeType.IsValid() {
		return fmt.Errorf("%w: unknown cancellation fee type %q", ErrValidation, p.FeeType)
	}
	if p.WindowHours < 0 {
		return fmt.Errorf("%w: cancellation window must not be negative", ErrValidation)
	}
	if p.FeeAmount < 0 {
		return fmt.Errorf("%w: cancellation fee must not be negative", ErrValidation)
	}
	if p.FeeType == FeeTypePercentage && p.FeeAmount > 100 {
		return fmt.Errorf("%w: cancellation fee percentage cannot exceed 100", ErrValidation)
	}
	return nil
}

// Deadline is the last moment a booking starting at start may be cancelled.
func (p CancellationPolicy) Deadline(start time.Time) time.Time {
	return start.Add(-time.Duration(p.WindowHours) * time.Hour)
}

// CheckEligibility reports ErrState when cancellation is closed at the given time.
func (p CancellationPolicy) CheckEligibility(at, start time.Time) error {
	if !p.AllowCancellation {
		return fmt.Errorf("%w: this tour does not allow cancellations", ErrState)
	}
	if p.WindowHours > 0 && at.After(p.Deadline(start)) {
		return fmt.Errorf("%w: cancellation closed %d hours before the tour (deadline %s)",
			ErrState, p.WindowHours, p.Deadline(start).Format(time.RFC3339))
	}
	return nil
}

// Fee is the part of paid withheld on cancellation, never more than paid.
func (p CancellationPolicy) Fee(paid float64) float64 {
	var fee float64
	switch p.FeeType {
	case FeeTypeFixed:
		fee = p.FeeAmount
	case FeeTypePercentage:
		fee = paid * p.FeeAmount / 100
	}
	fee = pricing.Round2(fee)
	if fee > paid {
		return paid
	}
	if fee < 0 {
		return 0
	}
	return fee
}

// TourStart combines the booked day with the tour's HH:MM start time.
// Without a parseable start time the tour starts at midnight.
func (b *Booking) TourStart() time.Time {
	day := dayOf(b.TourDate)
	if b.Tour == nil || b.Tour.StartTime == "" {
		return day
	}
	clock, err := time.Parse("15:04", b.Tour.StartTime)
	if err != nil {
		return day
	}
	return day.Add(time.Duration(clock.Hour())*time.Hour + time.Duration(clock.Minute())*time.Minute)
}

func (s *service) cancellationPolicy(ctx context.Context, tourID uuid.UUID) (CancellationPolicy, error) {
	policy, err := s.catalog.CancellationPolicy(ctx, tourID)
	if err != nil {
		if isDomainError(err) {
			return CancellationPolicy{}, err
		}
		return CancellationPolicy{}, fmt.Errorf("%w: failed to resolve cancellation policy: %v", ErrRepository, err)
	}
	if policy == nil {
		return DefaultCancellationPolicy(), nil
	}
	return *policy, nil
}

// checkCancellation applies the tour's policy to a cancellation requested at at.
func (s *service) checkCancellation(ctx context.Context, b *Booking, at time.Time) (CancellationPolicy, error) {
	policy, err := s.cancellationPolicy(ctx, b.TourID)
	if err != nil {
		return policy, err
	}
	if err := policy.CheckEligibility(at, b.TourStart()); err != nil {
		return policy, fmt.Errorf("booking %s: %w", b.BookingRef, err)
	}
	return policy, nil
}
