package tours

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"tourdesk/internal/bookings"
	"tourdesk/internal/pricing"

	"github.com/google/uuid"
)

var startTimeRegex = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)

// validatePrices rejects an original price below the selling price so a
// discount badge can never go negative.
func validatePrices(price float64, original *float64) error {
	if price < 0 {
		return fmt.Errorf("%w: price must not be negative", ErrInvalidTour)
	}
	if original == nil {
		return nil
	}
	if *original < 0 {
		return fmt.Errorf("%w: original price must not be negative", ErrInvalidTour)
	}
	if *original < price {
		return fmt.Errorf("%w: original price %.2f is lower than price %.2f", ErrInvalidTour, *original, price)
	}
	return nil
}

func validateStartTime(s string) error {
	if s == "" || startTimeRegex.MatchString(s) {
		return nil
	}
	return fmt.Errorf("%w: start time must be HH:MM", ErrInvalidTour)
}

// cancellationPolicyOf converts and checks the requested terms.
func cancellationPolicyOf(req CancellationPolicyRequest) (bookings.CancellationPolicy, error) {
	policy := bookings.CancellationPolicy{
		AllowCancellation: req.AllowCancellation == nil || *req.AllowCancellation,
		WindowHours:       req.WindowHours,
		FeeType:           bookings.FeeType(strings.ToUpper(strings.TrimSpace(req.FeeType))),
		FeeAmount:         pricing.Round2(req.FeeAmount),
	}
	if policy.FeeType == "" {
		policy.FeeType = bookings.FeeTypeNone
	}
	if err := policy.Validate(); err != nil {
		return policy, fmt.Errorf("%w: %v", ErrInvalidTour, err)
	}
	return policy, nil
}

func discountOf(original *float64, price float64) *int {
	if original == nil {
		return nil
	}
	pct, ok := pricing.DiscountPercent(*original, price)
	if !ok {
		return nil
	}
	return &pct
}

func sortedOptions(options []PricingOption) []PricingOption {
	sorted := make([]PricingOption, len(options))
	copy(sorted, options)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Position < sorted[j].Position })
	return sorted
}

// Move returns a copy of items with the element at from spliced out and
// reinserted at to.
func Move[T any](items []T, from, to int) ([]T, error) {
	if from < 0 || from >= len(items) || to < 0 || to >= len(items) {
		return nil, fmt.Errorf("%w: move %d -> %d out of range for %d items", ErrInvalidReorder, from, to, len(items))
	}

	out := make([]T, 0, len(items))
	out = append(out, items[:from]...)
	out = append(out, items[from+1:]...)

	moved := items[from]
	out = append(out[:to], append([]T{moved}, out[to:]...)...)
	return out, nil
}

// sameIDSet reports whether ordered is a permutation of existing.
func sameIDSet(existing, ordered []uuid.UUID) bool {
	if len(existing) != len(ordered) {
		return false
	}
	seen := make(map[uuid.UUID]bool, len(existing))
	for _, id := range existing {
		seen[id] = true
	}
	for _, id := range ordered {
		if !seen[id] {
			return false
		}
		delete(seen, id)
	}
	return len(seen) == 0
}

func parseIDs(raw []string) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, len(raw))
	for i, s := range raw {
		id, err := uuid.Parse(s)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid option id %q", ErrInvalidReorder, s)
		}
		ids[i] = id
	}
	return ids, nil
}
