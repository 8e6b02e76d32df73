package bookings

import (
	"errors"
	"net/http"

	"tourdesk/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const IdempotencyKeyHeader = "Idempotency-Key"

type Controller struct {
	service Service
}

func NewController(service Service) *Controller {
	return &Controller{service: service}
}

// CreateBooking handles POST /api/v1/bookings
func (c *Controller) CreateBooking(ctx *gin.Context) {
	var req CreateBookingRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}
	req.IdempotencyKey = ctx.GetHeader(IdempotencyKeyHeader)

	result, err := c.service.CreateBooking(ctx.Request.Context(), req)
	if err != nil {
		respondError(ctx, err, "Failed to create booking")
		return
	}

	if result.Replayed {
		ctx.Header("Idempotent-Replayed", "true")
		response.RespondJSON(ctx, "success", http.StatusOK, "Booking already created", result.Booking.ToResponse(), nil)
		return
	}
	response.RespondJSON(ctx, "success", http.StatusCreated, "Booking created successfully", result.Booking.ToResponse(), nil)
}

// QuoteBooking handles POST /api/v1/bookings/quote
func (c *Controller) QuoteBooking(ctx *gin.Context) {
	var req QuoteRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	quote, err := c.service.Quote(ctx.Request.Context(), req)
	if err != nil {
		respondError(ctx, err, "Failed to price booking")
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Quote calculated successfully", quote, nil)
}

// LookupBooking handles GET /api/v1/bookings/lookup?reference=&email=
func (c *Controller) LookupBooking(ctx *gin.Context) {
	var query LookupQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Reference and email are required", nil, err.Error())
		return
	}

	booking, err := c.service.LookupBooking(ctx.Request.Context(), query.Reference, query.Email)
	if err != nil {
		respondError(ctx, err, "Failed to find booking")
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Booking retrieved successfully", booking.ToPublicResponse(), nil)
}

// ListBookings handles GET /api/v1/admin/bookings
func (c *Controller) ListBookings(ctx *gin.Context) {
	var query BookingListQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid query parameters", nil, err.Error())
		return
	}

	filter, err := query.ToFilter()
	if err != nil {
		respondError(ctx, err, "Invalid query parameters")
		return
	}

	list, err := c.service.ListBookings(ctx.Request.Context(), filter)
	if err != nil {
		respondError(ctx, err, "Failed to list bookings")
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Bookings retrieved successfully", BookingListResponse{
		Bookings: ToResponses(list),
		Stats:    Aggregate(list),
	}, nil)
}

// GetBooking handles GET /api/v1/admin/bookings/:id
func (c *Controller) GetBooking(ctx *gin.Context) {
	id, ok := parseBookingID(ctx)
	if !ok {
		return
	}

	booking, err := c.service.GetBooking(ctx.Request.Context(), id)
	if err != nil {
		respondError(ctx, err, "Failed to get booking")
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Booking retrieved successfully", booking.ToResponse(), nil)
}

// UpdateStatus handles PATCH /api/v1/admin/bookings/:id/status
func (c *Controller) UpdateStatus(ctx *gin.Context) {
	id, ok := parseBookingID(ctx)
	if !ok {
		return
	}

	var req UpdateStatusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}
	status, valid := ParseStatus(req.Status)
	if !valid {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Unknown booking status", nil, req.Status)
		return
	}

	booking, err := c.service.UpdateStatus(ctx.Request.Context(), id, status)
	if err != nil {
		respondError(ctx, err, "Failed to update booking status")
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Booking status updated successfully", booking.ToResponse(), nil)
}

// ConfirmBooking handles POST /api/v1/admin/bookings/:id/confirm
func (c *Controller) ConfirmBooking(ctx *gin.Context) {
	c.transition(ctx, StatusConfirmed, "Booking confirmed successfully")
}

// CancelBooking handles POST /api/v1/admin/bookings/:id/cancel
func (c *Controller) CancelBooking(ctx *gin.Context) {
	c.transition(ctx, StatusCancelled, "Booking cancelled successfully")
}

// CompleteBooking handles POST /api/v1/admin/bookings/:id/complete
func (c *Controller) CompleteBooking(ctx *gin.Context) {
	c.transition(ctx, StatusCompleted, "Booking completed successfully")
}

func (c *Controller) transition(ctx *gin.Context, to Status, message string) {
	id, ok := parseBookingID(ctx)
	if !ok {
		return
	}

	booking, err := c.service.UpdateStatus(ctx.Request.Context(), id, to)
	if err != nil {
		respondError(ctx, err, "Failed to update booking status")
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, message, booking.ToResponse(), nil)
}

// RecordPayment handles POST /api/v1/admin/bookings/:id/payments
func (c *Controller) RecordPayment(ctx *gin.Context) {
	id, ok := parseBookingID(ctx)
	if !ok {
		return
	}

	var req RecordPaymentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	booking, err := c.service.RecordPayment(ctx.Request.Context(), id, req)
	if err != nil {
		respondError(ctx, err, "Failed to record payment")
		return
	}

	response.RespondJSON(ctx, "success", http.StatusCreated, "Payment recorded successfully", booking.ToResponse(), nil)
}

// RefundBooking handles POST /api/v1/admin/bookings/:id/refund
func (c *Controller) RefundBooking(ctx *gin.Context) {
	id, ok := parseBookingID(ctx)
	if !ok {
		return
	}

	var req RefundRequest
	// The body is optional
	if ctx.Request.ContentLength > 0 {
		if err := ctx.ShouldBindJSON(&req); err != nil {
			response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
			return
		}
	}

	booking, err := c.service.Refund(ctx.Request.Context(), id, req)
	if err != nil {
		respondError(ctx, err, "Failed to refund booking")
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Booking refunded successfully", booking.ToResponse(), nil)
}

// ListPayments handles GET /api/v1/admin/bookings/:id/payments
func (c *Controller) ListPayments(ctx *gin.Context) {
	id, ok := parseBookingID(ctx)
	if !ok {
		return
	}

	payments, err := c.service.ListPayments(ctx.Request.Context(), id)
	if err != nil {
		respondError(ctx, err, "Failed to list payments")
		return
	}

	out := make([]PaymentResponse, 0, len(payments))
	for i := range payments {
		out = append(out, payments[i].ToResponse())
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Payments retrieved successfully", out, nil)
}

func parseBookingID(ctx *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid booking ID", nil, nil)
		return uuid.Nil, false
	}
	return id, true
}

// HTTPStatus maps a service error onto its response code.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrState):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func respondError(ctx *gin.Context, err error, fallback string) {
	code := HTTPStatus(err)
	if code == http.StatusInternalServerError {
		_ = ctx.Error(err)
		response.RespondJSON(ctx, "error", code, fallback, nil, nil)
		return
	}
	response.RespondJSON(ctx, "error", code, err.Error(), nil, nil)
}
