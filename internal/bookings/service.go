package bookings

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"tourdesk/internal/pricing"
	"tourdesk/pkg/logger"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

const (
	maxReferenceAttempts = 3
	maxIdempotencyKeyLen = 255

	// Largest amount the decimal(10,2) money columns hold
	maxTotalAmount = 99999999.99
)

// TourPricing is the authoritative price and display data for a booking,
// resolved from the catalogue (to avoid circular dependency with tours).
type TourPricing struct {
	TourID          uuid.UUID
	PricingOptionID *uuid.UUID
	TourTitle       string
	OptionName      string
	UnitPrice       float64
	MeetingPoint    string
	StartTime       string
}

// TourCatalog resolves the unit price for a tour and optional pricing option,
// and the tour's cancellation terms.
// Implementations wrap ErrNotFound, ErrValidation or ErrRepository.
type TourCatalog interface {
	ResolvePricing(ctx context.Context, tourID uuid.UUID, optionID *uuid.UUID) (*TourPricing, error)
	CancellationPolicies
}

// Service interface defines the contract for booking business logic
type Service interface {
	CreateBooking(ctx context.Context, req CreateBookingRequest) (*CreateResult, error)
	Quote(ctx context.Context, req QuoteRequest) (*QuoteResponse, error)
	GetBooking(ctx context.Context, id uuid.UUID) (*Booking, error)
	GetBookingByReference(ctx context.Context, ref string) (*Booking, error)
	LookupBooking(ctx context.Context, ref, email string) (*Booking, error)
	ListBookings(ctx context.Context, filter Filter) ([]Booking, error)

	// Lifecycle
	UpdateStatus(ctx context.Context, id uuid.UUID, to Status) (*Booking, error)
	Confirm(ctx context.Context, id uuid.UUID) (*Booking, error)
	Cancel(ctx context.Context, id uuid.UUID) (*Booking, error)
	Complete(ctx context.Context, id uuid.UUID) (*Booking, error)
	CompletePastBookings(ctx context.Context) (int, error)

	// Payment operations
	RecordPayment(ctx context.Context, id uuid.UUID, req RecordPaymentRequest) (*Booking, error)
	Refund(ctx context.Context, id uuid.UUID, req RefundRequest) (*Booking, error)
	ListPayments(ctx context.Context, id uuid.UUID) ([]Payment, error)
}

// CreateResult carries the booking and whether it was an idempotent replay.
type CreateResult struct {
	Booking  *Booking
	Replayed bool
}

// service implements the Service interface
type service struct {
	repo     Repository
	catalog  TourCatalog
	notifier Notifier
	locks    IdempotencyStore
	validate *validator.Validate
	log      *logger.Logger
	now      func() time.Time
}

// NewService wires the booking service. notifier and locks may be nil.
func NewService(repo Repository, catalog TourCatalog, notifier Notifier, locks IdempotencyStore) Service {
	return &service{
		repo:     repo,
		catalog:  catalog,
		notifier: notifier,
		locks:    locks,
		validate: validator.New(),
		log:      logger.GetDefault(),
		now:      time.Now,
	}
}

func (s *service) CreateBooking(ctx context.Context, req CreateBookingRequest) (*CreateResult, error) {
	tourID, optionID, tourDate, err := s.validateCreate(req)
	if err != nil {
		return nil, err
	}

	key := strings.TrimSpace(req.IdempotencyKey)
	if key != "" {
		if existing, err := s.findReplay(ctx, key); existing != nil || err != nil {
			if err != nil {
				return nil, err
			}
			return &CreateResult{Booking: existing, Replayed: true}, nil
		}

		if s.locks != nil {
			acquired, err := s.locks.Acquire(ctx, key)
			switch {
			case err != nil:
				// The unique column still protects us if Redis is unavailable
				s.log.WarnContext(ctx, "Idempotency lock unavailable", "key", key, "error", err.Error())
			case !acquired:
				return nil, fmt.Errorf("%w: a request with this idempotency key is already in progress", ErrConflict)
			default:
				defer func() {
					if err := s.locks.Release(context.WithoutCancel(ctx), key); err != nil {
						s.log.WarnContext(ctx, "Failed to release idempotency lock", "key", key, "error", err.Error())
					}
				}()
			}
		}
	}

	tour, err := s.resolvePricing(ctx, tourID, optionID)
	if err != nil {
		return nil, err
	}

	total, err := pricing.Total(tour.UnitPrice, req.Adults, req.Children)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	total = pricing.Round2(total)
	if err := checkTotal(total); err != nil {
		return nil, err
	}

	if req.TotalAmount != nil && pricing.Round2(*req.TotalAmount) != total {
		s.log.WarnContext(ctx, "Client total differs from computed total",
			"tour_id", tourID.String(),
			"client_total", *req.TotalAmount,
			"computed_total", total,
		)
	}

	now := s.now()
	booking := &Booking{
		TourID:          tourID,
		PricingOptionID: tour.PricingOptionID,
		CustomerName:    strings.TrimSpace(req.CustomerName),
		CustomerEmail:   strings.ToLower(strings.TrimSpace(req.CustomerEmail)),
		CustomerPhone:   strings.TrimSpace(req.CustomerPhone),
		TourDate:        tourDate,
		Adults:          req.Adults,
		Children:        req.Children,
		UnitPrice:       tour.UnitPrice,
		TotalAmount:     total,
		PaidAmount:      0,
		Status:          StatusPending,
		PaymentStatus:   PaymentStatusUnpaid,
		Notes:           strings.TrimSpace(req.Notes),
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if key != "" {
		booking.IdempotencyKey = &key
	}

	created := false
	for attempt := 1; attempt <= maxReferenceAttempts; attempt++ {
		booking.ID = uuid.New()
		booking.BookingRef = GenerateReference()

		err = s.repo.Create(ctx, booking)
		if err == nil {
			created = true
			break
		}
		if !errors.Is(err, ErrConflict) {
			return nil, err
		}

		// A concurrent request with the same key won the insert
		if key != "" {
			if existing, lookupErr := s.findReplay(ctx, key); existing != nil && lookupErr == nil {
				return &CreateResult{Booking: existing, Replayed: true}, nil
			}
		}
		s.log.WarnContext(ctx, "Booking reference collision, retrying",
			"reference", booking.BookingRef,
			"attempt", attempt,
		)
	}
	if !created {
		return nil, fmt.Errorf("%w: could not allocate a unique booking reference after %d attempts",
			ErrConflict, maxReferenceAttempts)
	}

	booking.Tour = &TourRef{
		ID:           tour.TourID,
		Title:        tour.TourTitle,
		MeetingPoint: tour.MeetingPoint,
		StartTime:    tour.StartTime,
	}

	s.log.LogBookingCreated(ctx, booking.ID.String(), booking.BookingRef, tourID.String())
	s.notify(ctx, TemplateBookingReceived, booking, nil)

	return &CreateResult{Booking: booking}, nil
}

func (s *service) Quote(ctx context.Context, req QuoteRequest) (*QuoteResponse, error) {
	tourID, err := uuid.Parse(req.TourID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid tour id", ErrValidation)
	}
	optionID, err := parseOptionalUUID(req.PricingOptionID)
	if err != nil {
		return nil, err
	}

	tour, err := s.resolvePricing(ctx, tourID, optionID)
	if err != nil {
		return nil, err
	}

	quote, err := pricing.NewQuote(tour.UnitPrice, req.Adults, req.Children)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if err := checkTotal(quote.Total); err != nil {
		return nil, err
	}

	return &QuoteResponse{
		TourID:     tour.TourID.String(),
		TourTitle:  tour.TourTitle,
		OptionName: tour.OptionName,
		Quote:      *quote,
	}, nil
}

func (s *service) GetBooking(ctx context.Context, id uuid.UUID) (*Booking, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) GetBookingByReference(ctx context.Context, ref string) (*Booking, error) {
	ref = NormalizeReference(ref)
	if !IsValidReference(ref) {
		return nil, fmt.Errorf("%w: malformed reference", ErrNotFound)
	}
	return s.repo.GetByReference(ctx, ref)
}

// LookupBooking is the customer-facing lookup. Both the reference and the
// email on the booking must match; a mismatch looks like a missing booking.
func (s *service) LookupBooking(ctx context.Context, ref, email string) (*Booking, error) {
	booking, err := s.GetBookingByReference(ctx, ref)
	if err != nil {
		return nil, err
	}
	if !strings.EqualFold(strings.TrimSpace(email), booking.CustomerEmail) {
		return nil, ErrNotFound
	}
	return booking, nil
}

func (s *service) ListBookings(ctx context.Context, filter Filter) ([]Booking, error) {
	return s.repo.List(ctx, filter)
}

func (s *service) UpdateStatus(ctx context.Context, id uuid.UUID, to Status) (*Booking, error) {
	if !to.IsValid() {
		return nil, fmt.Errorf("%w: unknown status %q, expected one of %s", ErrValidation, to, statusNames())
	}

	booking, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	from := booking.Status
	if !from.CanTransitionTo(to) {
		return nil, fmt.Errorf("%w: cannot move booking %s from %s to %s", ErrState, booking.BookingRef, from, to)
	}

	now := s.now()
	if to == StatusCancelled {
		if _, err := s.checkCancellation(ctx, booking, now); err != nil {
			return nil, err
		}
	}
	if err := s.repo.UpdateStatus(ctx, id, from, to, now); err != nil {
		return nil, err
	}
	booking.markStatus(to, now)

	s.log.LogBookingStatusChanged(ctx, booking.ID.String(), from.String(), to.String())
	if template, ok := statusTemplates[to]; ok {
		s.notify(ctx, template, booking, nil)
	}

	return booking, nil
}

func (s *service) Confirm(ctx context.Context, id uuid.UUID) (*Booking, error) {
	return s.UpdateStatus(ctx, id, StatusConfirmed)
}

func (s *service) Cancel(ctx context.Context, id uuid.UUID) (*Booking, error) {
	return s.UpdateStatus(ctx, id, StatusCancelled)
}

func (s *service) Complete(ctx context.Context, id uuid.UUID) (*Booking, error) {
	return s.UpdateStatus(ctx, id, StatusCompleted)
}

// CompletePastBookings marks confirmed bookings whose tour date has passed as
// completed. Bookings that move underneath it are skipped.
func (s *service) CompletePastBookings(ctx context.Context) (int, error) {
	past, err := s.repo.ListConfirmedBefore(ctx, s.now())
	if err != nil {
		return 0, err
	}

	completed := 0
	for i := range past {
		if ctx.Err() != nil {
			return completed, fmt.Errorf("%w: %v", ErrRepository, ctx.Err())
		}
		_, err := s.UpdateStatus(ctx, past[i].ID, StatusCompleted)
		switch {
		case err == nil:
			completed++
		case errors.Is(err, ErrConflict), errors.Is(err, ErrState):
			s.log.InfoContext(ctx, "Skipping booking changed during completion", "booking_ref", past[i].BookingRef)
		default:
			return completed, err
		}
	}
	return completed, nil
}

func (s *service) RecordPayment(ctx context.Context, id uuid.UUID, req RecordPaymentRequest) (*Booking, error) {
	amount := pricing.Round2(req.Amount)
	if amount <= 0 {
		return nil, fmt.Errorf("%w: payment amount must be positive", ErrValidation)
	}

	booking, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if booking.Status == StatusCancelled {
		return nil, fmt.Errorf("%w: cannot record a payment on a cancelled booking", ErrState)
	}
	if booking.PaymentStatus == PaymentStatusRefunded {
		return nil, fmt.Errorf("%w: cannot record a payment on a refunded booking", ErrState)
	}

	paid := pricing.Round2(booking.PaidAmount + amount)
	if paid > pricing.Round2(booking.TotalAmount) {
		return nil, fmt.Errorf("%w: payment of %.2f exceeds the outstanding balance of %.2f",
			ErrValidation, amount, booking.Outstanding())
	}

	now := s.now()
	payment := &Payment{
		ID:            uuid.New(),
		BookingID:     booking.ID,
		Kind:          PaymentKindPayment,
		Amount:        amount,
		Currency:      "USD",
		PaymentMethod: strings.TrimSpace(req.PaymentMethod),
		TransactionID: generateTransactionID(PaymentKindPayment, now),
		Note:          strings.TrimSpace(req.Note),
		ProcessedAt:   now,
		CreatedAt:     now,
	}
	status := DerivePaymentStatus(paid, booking.TotalAmount)

	if err := s.repo.ApplyPayment(ctx, booking, payment, paid, status); err != nil {
		return nil, err
	}
	booking.PaidAmount = paid
	booking.PaymentStatus = status
	booking.UpdatedAt = now

	s.log.LogPaymentRecorded(ctx, booking.ID.String(), string(payment.Kind), payment.Amount, payment.TransactionID)
	s.notify(ctx, TemplatePaymentReceived, booking, map[string]string{
		PlaceholderTransactionID: payment.TransactionID,
	})

	return booking, nil
}

// Refund returns the paid amount less the tour's cancellation fee. A cancelled
// booking is judged at the moment it was cancelled, any other at the time of
// the refund. paid_amount keeps its value as a record of what was collected.
func (s *service) Refund(ctx context.Context, id uuid.UUID, req RefundRequest) (*Booking, error) {
	booking, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if booking.PaidAmount <= 0 || booking.PaymentStatus == PaymentStatusRefunded {
		return nil, fmt.Errorf("%w: booking %s has nothing to refund", ErrState, booking.BookingRef)
	}

	now := s.now()
	requestedAt := now
	if booking.Status == StatusCancelled && booking.CancelledAt != nil {
		requestedAt = *booking.CancelledAt
	}
	policy, err := s.checkCancellation(ctx, booking, requestedAt)
	if err != nil {
		return nil, err
	}

	fee := policy.Fee(booking.PaidAmount)
	amount := pricing.Round2(booking.PaidAmount - fee)
	if amount <= 0 {
		return nil, fmt.Errorf("%w: the cancellation fee of %.2f leaves nothing to refund on booking %s",
			ErrState, fee, booking.BookingRef)
	}

	refund := &Payment{
		ID:            uuid.New(),
		BookingID:     booking.ID,
		Kind:          PaymentKindRefund,
		Amount:        amount,
		Currency:      "USD",
		TransactionID: generateTransactionID(PaymentKindRefund, now),
		Note:          strings.TrimSpace(req.Reason),
		ProcessedAt:   now,
		CreatedAt:     now,
	}

	if err := s.repo.ApplyPayment(ctx, booking, refund, booking.PaidAmount, PaymentStatusRefunded); err != nil {
		return nil, err
	}
	booking.PaymentStatus = PaymentStatusRefunded
	booking.UpdatedAt = now

	s.log.LogPaymentRecorded(ctx, booking.ID.String(), string(refund.Kind), refund.Amount, refund.TransactionID)
	s.notify(ctx, TemplateBookingRefunded, booking, map[string]string{
		PlaceholderTransactionID:   refund.TransactionID,
		PlaceholderRefundAmount:    formatAmount(refund.Amount),
		PlaceholderCancellationFee: formatAmount(fee),
	})

	return booking, nil
}

func (s *service) ListPayments(ctx context.Context, id uuid.UUID) ([]Payment, error) {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return nil, err
	}
	return s.repo.ListPayments(ctx, id)
}

// validateCreate checks the request without trusting the transport layer.
func (s *service) validateCreate(req CreateBookingRequest) (uuid.UUID, *uuid.UUID, time.Time, error) {
	var zero time.Time

	tourID, err := uuid.Parse(req.TourID)
	if err != nil {
		return uuid.Nil, nil, zero, fmt.Errorf("%w: invalid tour id", ErrValidation)
	}
	optionID, err := parseOptionalUUID(req.PricingOptionID)
	if err != nil {
		return uuid.Nil, nil, zero, err
	}

	if strings.TrimSpace(req.CustomerName) == "" {
		return uuid.Nil, nil, zero, fmt.Errorf("%w: customer name is required", ErrValidation)
	}
	if err := s.validate.Var(strings.TrimSpace(req.CustomerEmail), "required,email"); err != nil {
		return uuid.Nil, nil, zero, fmt.Errorf("%w: a valid customer email is required", ErrValidation)
	}
	if req.Adults < 1 {
		return uuid.Nil, nil, zero, fmt.Errorf("%w: at least one adult is required", ErrValidation)
	}
	if req.Children < 0 {
		return uuid.Nil, nil, zero, fmt.Errorf("%w: children must not be negative", ErrValidation)
	}
	if len(strings.TrimSpace(req.IdempotencyKey)) > maxIdempotencyKeyLen {
		return uuid.Nil, nil, zero, fmt.Errorf("%w: idempotency key is too long", ErrValidation)
	}

	if strings.TrimSpace(req.TourDate) == "" {
		return uuid.Nil, nil, zero, fmt.Errorf("%w: tour date is required", ErrValidation)
	}
	tourDate, err := ParseTourDate(req.TourDate)
	if err != nil {
		return uuid.Nil, nil, zero, err
	}
	if dayOf(tourDate).Before(dayOf(s.now())) {
		return uuid.Nil, nil, zero, fmt.Errorf("%w: tour date must not be in the past", ErrValidation)
	}

	return tourID, optionID, tourDate, nil
}

func (s *service) resolvePricing(ctx context.Context, tourID uuid.UUID, optionID *uuid.UUID) (*TourPricing, error) {
	tour, err := s.catalog.ResolvePricing(ctx, tourID, optionID)
	if err != nil {
		if isDomainError(err) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: failed to resolve tour pricing: %v", ErrRepository, err)
	}
	return tour, nil
}

func (s *service) findReplay(ctx context.Context, key string) (*Booking, error) {
	existing, err := s.repo.GetByIdempotencyKey(ctx, key)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return existing, nil
}

func checkTotal(total float64) error {
	if total > maxTotalAmount {
		return fmt.Errorf("%w: booking total %.2f exceeds the maximum of %.2f", ErrValidation, total, maxTotalAmount)
	}
	return nil
}

func parseOptionalUUID(raw *string) (*uuid.UUID, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, nil
	}
	id, err := uuid.Parse(strings.TrimSpace(*raw))
	if err != nil {
		return nil, fmt.Errorf("%w: invalid pricing option id", ErrValidation)
	}
	return &id, nil
}

func isDomainError(err error) bool {
	for _, sentinel := range []error{ErrValidation, ErrState, ErrConflict, ErrNotFound, ErrRepository} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}
