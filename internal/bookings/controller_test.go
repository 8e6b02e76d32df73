package bookings

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"tourdesk/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(h *harness) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	ctrl := NewController(h.svc)

	r.POST("/bookings", ctrl.CreateBooking)
	r.GET("/bookings/lookup", ctrl.LookupBooking)
	r.GET("/admin/bookings", ctrl.ListBookings)
	r.PATCH("/admin/bookings/:id/status", ctrl.UpdateStatus)
	r.POST("/admin/bookings/:id/payments", ctrl.RecordPayment)
	r.POST("/admin/bookings/:id/refund", ctrl.RefundBooking)
	return r
}

func doJSON(t *testing.T, r http.Handler, method, path string, body interface{}, headers map[string]string) (*httptest.ResponseRecorder, response.StandardApiResponse) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var resp response.StandardApiResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return w, resp
}

func TestCreateBookingEndpoint(t *testing.T) {
	h := newHarness(t)
	r := newTestRouter(h)
	headers := map[string]string{IdempotencyKeyHeader: "cart-42"}

	w, resp := doJSON(t, r, http.MethodPost, "/bookings", h.validRequest(), headers)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "success", resp.Status)

	data := resp.Data.(map[string]interface{})
	assert.Equal(t, 250.0, data["total_amount"])
	assert.Equal(t, "pending", data["status"])
	assert.Equal(t, "2026-01-15", data["tour_date"])

	w, _ = doJSON(t, r, http.MethodPost, "/bookings", h.validRequest(), headers)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "true", w.Header().Get("Idempotent-Replayed"))
	assert.Len(t, h.repo.bookings, 1)
}

func TestCreateBookingEndpointValidation(t *testing.T) {
	h := newHarness(t)
	r := newTestRouter(h)

	req := h.validRequest()
	req.TourDate = "2020-01-01"
	w, resp := doJSON(t, r, http.MethodPost, "/bookings", req, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "error", resp.Status)

	w, _ = doJSON(t, r, http.MethodPost, "/bookings", map[string]string{"customer_name": "x"}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateStatusEndpointErrorMapping(t *testing.T) {
	h := newHarness(t)
	r := newTestRouter(h)
	cancelled := h.seed(StatusCancelled, 0, PaymentStatusUnpaid)
	pending := h.seed(StatusPending, 0, PaymentStatusUnpaid)

	w, _ := doJSON(t, r, http.MethodPatch, "/admin/bookings/"+cancelled.ID.String()+"/status", UpdateStatusRequest{Status: "confirmed"}, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w, _ = doJSON(t, r, http.MethodPatch, "/admin/bookings/not-a-uuid/status", UpdateStatusRequest{Status: "confirmed"}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = doJSON(t, r, http.MethodPatch, "/admin/bookings/"+pending.ID.String()+"/status", UpdateStatusRequest{Status: "archived"}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, resp := doJSON(t, r, http.MethodPatch, "/admin/bookings/"+pending.ID.String()+"/status", UpdateStatusRequest{Status: "Confirmed"}, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "confirmed", resp.Data.(map[string]interface{})["status"])
}

func TestPaymentEndpoints(t *testing.T) {
	h := newHarness(t)
	r := newTestRouter(h)
	b := h.seed(StatusConfirmed, 0, PaymentStatusUnpaid)
	path := "/admin/bookings/" + b.ID.String()

	w, resp := doJSON(t, r, http.MethodPost, path+"/payments", RecordPaymentRequest{Amount: 300}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code, resp.Message)

	w, resp = doJSON(t, r, http.MethodPost, path+"/payments", RecordPaymentRequest{Amount: 250, PaymentMethod: "card"}, nil)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "paid", resp.Data.(map[string]interface{})["payment_status"])

	w, resp = doJSON(t, r, http.MethodPost, path+"/refund", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "refunded", resp.Data.(map[string]interface{})["payment_status"])

	w, _ = doJSON(t, r, http.MethodPost, path+"/refund", nil, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestListAndLookupEndpoints(t *testing.T) {
	h := newHarness(t)
	r := newTestRouter(h)
	b := h.seed(StatusConfirmed, 100, PaymentStatusPartial)
	h.seed(StatusCancelled, 50, PaymentStatusPartial)

	w, resp := doJSON(t, r, http.MethodGet, "/admin/bookings?status=confirmed", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	data := resp.Data.(map[string]interface{})
	assert.Len(t, data["bookings"], 1)

	w, resp = doJSON(t, r, http.MethodGet, "/admin/bookings", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	stats := resp.Data.(map[string]interface{})["stats"].(map[string]interface{})
	assert.Equal(t, 2.0, stats["total"])
	assert.Equal(t, 100.0, stats["total_revenue"])

	w, _ = doJSON(t, r, http.MethodGet, "/admin/bookings?status=archived", nil, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, resp = doJSON(t, r, http.MethodGet, "/bookings/lookup?reference="+b.BookingRef+"&email=ana@example.com", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, b.BookingRef, resp.Data.(map[string]interface{})["booking_ref"])

	w, _ = doJSON(t, r, http.MethodGet, "/bookings/lookup?reference="+b.BookingRef+"&email=mallory@example.com", nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(ErrValidation))
	assert.Equal(t, http.StatusUnprocessableEntity, HTTPStatus(ErrState))
	assert.Equal(t, http.StatusConflict, HTTPStatus(ErrConflict))
	assert.Equal(t, http.StatusNotFound, HTTPStatus(ErrNotFound))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(ErrRepository))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(context.Canceled))
}
