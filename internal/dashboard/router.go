package dashboard

import (
	"tourdesk/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupDashboardRoutes(rg *gin.RouterGroup, controller Controller) {
	admin := rg.Group("/admin/dashboard")
	admin.Use(middleware.JWTAuth())
	admin.Use(middleware.RequireAdmin())

	admin.GET("/overview", controller.GetOverview)          // Stat cards and the bookings table
	admin.GET("/calendar", controller.GetCalendar)          // Month grid (?year=2026&month=1)
	admin.GET("/bookings/:id", controller.GetBookingDetail) // Row plus payment history
}
