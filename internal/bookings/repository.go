package bookings

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	// Core booking operations
	Create(ctx context.Context, booking *Booking) error
	GetByID(ctx context.Context, id uuid.UUID) (*Booking, error)
	GetByReference(ctx context.Context, ref string) (*Booking, error)
	GetByIdempotencyKey(ctx context.Context, key string) (*Booking, error)
	List(ctx context.Context, filter Filter) ([]Booking, error)

	// Lifecycle writes; both are conditional on the state the caller observed
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to Status, at time.Time) error
	ApplyPayment(ctx context.Context, booking *Booking, payment *Payment, paid float64, status PaymentStatus) error

	// Ledger and housekeeping
	ListPayments(ctx context.Context, bookingID uuid.UUID) ([]Payment, error)
	ListConfirmedBefore(ctx context.Context, day time.Time) ([]Booking, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// Create inserts a booking. A unique-index hit on the reference or the
// idempotency key comes back as ErrConflict.
func (r *repository) Create(ctx context.Context, booking *Booking) error {
	err := r.db.WithContext(ctx).Omit("Tour", "Payments").Create(booking).Error
	if err == nil {
		return nil
	}
	if isDuplicateKey(err) {
		return fmt.Errorf("%w: %w", ErrConflict, err)
	}
	return fmt.Errorf("%w: failed to create booking: %v", ErrRepository, err)
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Booking, error) {
	return r.first(ctx, "bookings.id = ?", id)
}

func (r *repository) GetByReference(ctx context.Context, ref string) (*Booking, error) {
	return r.first(ctx, "bookings.booking_ref = ?", ref)
}

func (r *repository) GetByIdempotencyKey(ctx context.Context, key string) (*Booking, error) {
	return r.first(ctx, "bookings.idempotency_key = ?", key)
}

func (r *repository) first(ctx context.Context, cond string, arg interface{}) (*Booking, error) {
	var booking Booking
	err := r.db.WithContext(ctx).
		Preload("Tour").
		Where(cond, arg).
		First(&booking).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: failed to load booking: %v", ErrRepository, err)
	}
	return &booking, nil
}

func (r *repository) List(ctx context.Context, filter Filter) ([]Booking, error) {
	var bookings []Booking

	query := r.db.WithContext(ctx).
		Model(&Booking{}).
		Preload("Tour").
		Joins("LEFT JOIN tours ON tours.id = bookings.tour_id")
	query = r.applyFilters(query, filter)

	err := query.Order("bookings.tour_date ASC, bookings.created_at DESC").Find(&bookings).Error
	if err != nil {
		return nil, fmt.Errorf("%w: failed to list bookings: %v", ErrRepository, err)
	}
	return bookings, nil
}

// UpdateStatus writes the new status only if the row still carries from.
// Zero rows affected means someone else moved the booking first.
func (r *repository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to Status, at time.Time) error {
	updates := map[string]interface{}{
		"status":     to,
		"updated_at": at,
	}

	switch to {
	case StatusConfirmed:
		updates["confirmed_at"] = at
	case StatusCancelled:
		updates["cancelled_at"] = at
	case StatusCompleted:
		updates["completed_at"] = at
	}

	result := r.db.WithContext(ctx).
		Model(&Booking{}).
		Where("id = ? AND status = ?", id, from).
		Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("%w: failed to update booking status: %v", ErrRepository, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: booking %s is no longer %s", ErrConflict, id, from)
	}
	return nil
}

// ApplyPayment appends a ledger row and moves the booking's paid amount and
// payment status in one transaction, guarded by the values the caller read.
func (r *repository) ApplyPayment(ctx context.Context, booking *Booking, payment *Payment, paid float64, status PaymentStatus) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&Booking{}).
			Where("id = ? AND paid_amount = ? AND payment_status = ?",
				booking.ID, booking.PaidAmount, booking.PaymentStatus).
			Updates(map[string]interface{}{
				"paid_amount":    paid,
				"payment_status": status,
				"updated_at":     payment.ProcessedAt,
			})
		if result.Error != nil {
			return fmt.Errorf("%w: failed to update paid amount: %v", ErrRepository, result.Error)
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("%w: payments on booking %s changed", ErrConflict, booking.BookingRef)
		}

		if err := tx.Create(payment).Error; err != nil {
			if isDuplicateKey(err) {
				return fmt.Errorf("%w: %w", ErrConflict, err)
			}
			return fmt.Errorf("%w: failed to record payment: %v", ErrRepository, err)
		}
		return nil
	})
	return err
}

func (r *repository) ListPayments(ctx context.Context, bookingID uuid.UUID) ([]Payment, error) {
	var payments []Payment
	err := r.db.WithContext(ctx).
		Where("booking_id = ?", bookingID).
		Order("processed_at ASC").
		Find(&payments).Error
	if err != nil {
		return nil, fmt.Errorf("%w: failed to list payments: %v", ErrRepository, err)
	}
	return payments, nil
}

func (r *repository) ListConfirmedBefore(ctx context.Context, day time.Time) ([]Booking, error) {
	var bookings []Booking
	err := r.db.WithContext(ctx).
		Preload("Tour").
		Where("status = ? AND tour_date < ?", StatusConfirmed, dayOf(day)).
		Order("tour_date ASC").
		Find(&bookings).Error
	if err != nil {
		return nil, fmt.Errorf("%w: failed to list past bookings: %v", ErrRepository, err)
	}
	return bookings, nil
}

// applyFilters applies query filters to the GORM query
func (r *repository) applyFilters(query *gorm.DB, filter Filter) *gorm.DB {
	if filter.Status != "" {
		query = query.Where("bookings.status = ?", filter.Status)
	}

	if filter.PaymentStatus != "" {
		query = query.Where("bookings.payment_status = ?", filter.PaymentStatus)
	}

	if filter.TourID != nil {
		query = query.Where("bookings.tour_id = ?", *filter.TourID)
	}

	// Tour dates are calendar days, so the range is inclusive on both ends
	if filter.DateFrom != nil {
		query = query.Where("bookings.tour_date >= ?", dayOf(*filter.DateFrom))
	}
	if filter.DateTo != nil {
		query = query.Where("bookings.tour_date <= ?", dayOf(*filter.DateTo))
	}

	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.Where(
			"LOWER(bookings.customer_name) LIKE ? OR LOWER(bookings.booking_ref) LIKE ? OR LOWER(COALESCE(tours.title, '')) LIKE ?",
			pattern, pattern, pattern,
		)
	}

	return query
}

// isDuplicateKey recognizes unique violations whether or not the dialector
// translates them.
func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLSTATE 23505") || strings.Contains(msg, "duplicate key value")
}
