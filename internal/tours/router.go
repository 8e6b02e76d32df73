package tours

import (
	"tourdesk/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupTourRoutes(router *gin.RouterGroup, controller Controller) {
	// Public routes - storefront browsing
	publicTours := router.Group("/tours")
	{
		publicTours.GET("", controller.ListTours)           // GET /api/v1/tours - Browse active tours
		publicTours.GET("/:slug", controller.GetTourBySlug) // GET /api/v1/tours/:slug - Tour detail with pricing options
	}

	// Admin routes - catalogue management
	adminTours := router.Group("/admin/tours")
	adminTours.Use(middleware.JWTAuth(), middleware.RequireAdmin())
	{
		adminTours.POST("", controller.CreateTour)       // POST /api/v1/admin/tours
		adminTours.GET("", controller.ListAllTours)      // GET /api/v1/admin/tours - Includes inactive tours
		adminTours.GET("/:id", controller.GetTour)       // GET /api/v1/admin/tours/:id
		adminTours.PUT("/:id", controller.UpdateTour)    // PUT /api/v1/admin/tours/:id
		adminTours.DELETE("/:id", controller.DeleteTour) // DELETE /api/v1/admin/tours/:id

		// Pricing options
		adminTours.POST("/:id/options", controller.AddPricingOption)                  // POST /api/v1/admin/tours/:id/options
		adminTours.PUT("/:id/options/:optionId", controller.UpdatePricingOption)      // PUT /api/v1/admin/tours/:id/options/:optionId
		adminTours.DELETE("/:id/options/:optionId", controller.DeletePricingOption)   // DELETE /api/v1/admin/tours/:id/options/:optionId
		adminTours.PATCH("/:id/options/:optionId/move", controller.MovePricingOption) // PATCH /api/v1/admin/tours/:id/options/:optionId/move
		adminTours.PUT("/:id/option-order", controller.ReorderPricingOptions)         // PUT /api/v1/admin/tours/:id/option-order
	}
}
