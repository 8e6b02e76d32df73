package notifications

import (
	"tourdesk/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupEmailTemplateRoutes(rg *gin.RouterGroup, controller Controller) {
	admin := rg.Group("/admin/email-templates")
	admin.Use(middleware.JWTAuth(), middleware.RequireAdmin())
	{
		admin.GET("", controller.ListTemplates)                // GET /api/v1/admin/email-templates
		admin.GET("/:id", controller.GetTemplate)              // GET /api/v1/admin/email-templates/:id
		admin.POST("/:id/preview", controller.PreviewTemplate) // POST /api/v1/admin/email-templates/:id/preview - Sample data plus overrides
		admin.POST("/:id/test", controller.SendTestEmail)      // POST /api/v1/admin/email-templates/:id/test - Send to an address
	}
}
