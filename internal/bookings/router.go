package bookings

import (
	"tourdesk/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

// SetupBookingRoutes configures all booking-related routes
func SetupBookingRoutes(rg *gin.RouterGroup, controller *Controller) {
	// Storefront routes; customers book without an account
	public := rg.Group("/bookings")
	{
		public.POST("", controller.CreateBooking)       // POST /api/v1/bookings
		public.POST("/quote", controller.QuoteBooking)  // POST /api/v1/bookings/quote
		public.GET("/lookup", controller.LookupBooking) // GET /api/v1/bookings/lookup
	}

	// Back office routes
	admin := rg.Group("/admin/bookings")
	admin.Use(middleware.JWTAuth(), middleware.RequireAdmin())
	{
		admin.GET("", controller.ListBookings)                  // GET /api/v1/admin/bookings
		admin.GET("/:id", controller.GetBooking)                // GET /api/v1/admin/bookings/:id
		admin.PATCH("/:id/status", controller.UpdateStatus)     // PATCH /api/v1/admin/bookings/:id/status
		admin.POST("/:id/confirm", controller.ConfirmBooking)   // POST /api/v1/admin/bookings/:id/confirm
		admin.POST("/:id/cancel", controller.CancelBooking)     // POST /api/v1/admin/bookings/:id/cancel
		admin.POST("/:id/complete", controller.CompleteBooking) // POST /api/v1/admin/bookings/:id/complete
		admin.POST("/:id/refund", controller.RefundBooking)     // POST /api/v1/admin/bookings/:id/refund
		admin.POST("/:id/payments", controller.RecordPayment)   // POST /api/v1/admin/bookings/:id/payments
		admin.GET("/:id/payments", controller.ListPayments)     // GET /api/v1/admin/bookings/:id/payments
	}
}

// Route definitions for reference:
//
// STOREFRONT
// POST   /api/v1/bookings                      - Create a booking (optional Idempotency-Key header)
// POST   /api/v1/bookings/quote                - Price a party before booking
// GET    /api/v1/bookings/lookup?reference=&email= - Customer booking lookup
//
// BACK OFFICE
// GET    /api/v1/admin/bookings?search=&status=&payment_status=&tour_id=&date_from=&date_to=
// PATCH  /api/v1/admin/bookings/:id/status      - Body: { "status": "confirmed" }
// POST   /api/v1/admin/bookings/:id/payments    - Body: { "amount": 50, "payment_method": "cash" }
// POST   /api/v1/admin/bookings/:id/refund      - Body: { "reason": "weather" }
