package categories

import (
	"tourdesk/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupCategoryRoutes(router *gin.RouterGroup, controller Controller) {
	// Public routes
	public := router.Group("/categories")
	{
		public.GET("", controller.GetActiveCategories)          // GET /api/v1/categories - Active categories for filtering
		public.GET("/slug/:slug", controller.GetCategoryBySlug) // GET /api/v1/categories/slug/:slug
	}

	// Admin routes
	admin := router.Group("/admin/categories")
	admin.Use(middleware.JWTAuth(), middleware.RequireAdmin())
	{
		admin.POST("", controller.CreateCategory)       // POST /api/v1/admin/categories
		admin.GET("", controller.GetAllCategories)      // GET /api/v1/admin/categories
		admin.GET("/:id", controller.GetCategory)       // GET /api/v1/admin/categories/:id
		admin.PUT("/:id", controller.UpdateCategory)    // PUT /api/v1/admin/categories/:id
		admin.DELETE("/:id", controller.DeleteCategory) // DELETE /api/v1/admin/categories/:id
	}
}
