package bookings

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

type fakeRepository struct {
	mu       sync.Mutex
	bookings map[uuid.UUID]*Booking
	payments []Payment

	// failCreates makes the next n creates report a reference collision
	failCreates int
	// beforeUpdate runs inside UpdateStatus before the conditional write
	beforeUpdate func(id uuid.UUID)
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{bookings: map[uuid.UUID]*Booking{}}
}

func (r *fakeRepository) Create(_ context.Context, b *Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.failCreates > 0 {
		r.failCreates--
		return fmt.Errorf("%w: duplicate booking_ref", ErrConflict)
	}
	for _, existing := range r.bookings {
		if existing.BookingRef == b.BookingRef {
			return fmt.Errorf("%w: duplicate booking_ref", ErrConflict)
		}
		if b.IdempotencyKey != nil && existing.IdempotencyKey != nil && *existing.IdempotencyKey == *b.IdempotencyKey {
			return fmt.Errorf("%w: duplicate idempotency_key", ErrConflict)
		}
	}
	copied := *b
	r.bookings[b.ID] = &copied
	return nil
}

func (r *fakeRepository) put(b Booking) *Booking {
	r.mu.Lock()
	defer r.mu.Unlock()
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	if b.BookingRef == "" {
		b.BookingRef = GenerateReference()
	}
	r.bookings[b.ID] = &b
	copied := b
	return &copied
}

func (r *fakeRepository) GetByID(_ context.Context, id uuid.UUID) (*Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *b
	return &copied, nil
}

func (r *fakeRepository) GetByReference(_ context.Context, ref string) (*Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.bookings {
		if b.BookingRef == ref {
			copied := *b
			return &copied, nil
		}
	}
	return nil, ErrNotFound
}

func (r *fakeRepository) GetByIdempotencyKey(_ context.Context, key string) (*Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.bookings {
		if b.IdempotencyKey != nil && *b.IdempotencyKey == key {
			copied := *b
			return &copied, nil
		}
	}
	return nil, ErrNotFound
}

func (r *fakeRepository) List(_ context.Context, filter Filter) ([]Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Booking, 0, len(r.bookings))
	for _, b := range r.bookings {
		if filter.Matches(b) {
			out = append(out, *b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TourDate.Before(out[j].TourDate) })
	return out, nil
}

func (r *fakeRepository) UpdateStatus(_ context.Context, id uuid.UUID, from, to Status, at time.Time) error {
	if r.beforeUpdate != nil {
		r.beforeUpdate(id)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok {
		return ErrNotFound
	}
	if b.Status != from {
		return fmt.Errorf("%w: booking is no longer %s", ErrConflict, from)
	}
	b.markStatus(to, at)
	return nil
}

func (r *fakeRepository) ApplyPayment(_ context.Context, booking *Booking, payment *Payment, paid float64, status PaymentStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[booking.ID]
	if !ok {
		return ErrNotFound
	}
	if b.PaidAmount != booking.PaidAmount || b.PaymentStatus != booking.PaymentStatus {
		return fmt.Errorf("%w: payments changed", ErrConflict)
	}
	b.PaidAmount = paid
	b.PaymentStatus = status
	r.payments = append(r.payments, *payment)
	return nil
}

func (r *fakeRepository) ListPayments(_ context.Context, bookingID uuid.UUID) ([]Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Payment
	for _, p := range r.payments {
		if p.BookingID == bookingID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakeRepository) ListConfirmedBefore(_ context.Context, day time.Time) ([]Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Booking
	for _, b := range r.bookings {
		if b.Status == StatusConfirmed && dayOf(b.TourDate).Before(dayOf(day)) {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (r *fakeRepository) stored(id uuid.UUID) Booking {
	r.mu.Lock()
	defer r.mu.Unlock()
	return *r.bookings[id]
}

type fakeCatalog struct {
	tours    map[uuid.UUID]TourPricing
	policies map[uuid.UUID]CancellationPolicy
}

func (c *fakeCatalog) CancellationPolicy(_ context.Context, tourID uuid.UUID) (*CancellationPolicy, error) {
	policy, ok := c.policies[tourID]
	if !ok {
		return nil, nil
	}
	return &policy, nil
}

func (c *fakeCatalog) ResolvePricing(_ context.Context, tourID uuid.UUID, optionID *uuid.UUID) (*TourPricing, error) {
	tour, ok := c.tours[tourID]
	if !ok {
		return nil, fmt.Errorf("%w: tour %s does not exist", ErrNotFound, tourID)
	}
	if optionID != nil {
		return nil, fmt.Errorf("%w: pricing option does not belong to tour", ErrValidation)
	}
	return &tour, nil
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent []Notification
	err  error
}

func (n *fakeNotifier) Notify(_ context.Context, msg Notification) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, msg)
	return n.err
}

func (n *fakeNotifier) templates() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, 0, len(n.sent))
	for _, msg := range n.sent {
		out = append(out, msg.TemplateID)
	}
	return out
}

type fakeLocks struct {
	mu   sync.Mutex
	held map[string]bool
}

func (l *fakeLocks) Acquire(_ context.Context, key string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.held == nil {
		l.held = map[string]bool{}
	}
	if l.held[key] {
		return false, nil
	}
	l.held[key] = true
	return true, nil
}

func (l *fakeLocks) Release(_ context.Context, key string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.held, key)
	return nil
}
