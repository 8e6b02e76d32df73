// api/routes/router.go
package routes

import (
	"net/http"
	"time"

	"tourdesk/docs"
	"tourdesk/internal/auth"
	"tourdesk/internal/bookings"
	"tourdesk/internal/categories"
	"tourdesk/internal/dashboard"
	"tourdesk/internal/notifications"
	"tourdesk/internal/shared/config"
	"tourdesk/internal/shared/database"
	"tourdesk/internal/tours"
	"tourdesk/pkg/cache"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

const serviceName = "tourdesk-backend"

// JobStatusReporter reports background job state on /status.
type JobStatusReporter interface {
	GetJobStatus() map[string]interface{}
}

// Router holds all route dependencies
type Router struct {
	config        *config.Config
	db            *database.DB
	notifications notifications.NotificationService
	cacheService  cache.Service
	jobs          JobStatusReporter

	// Built during setup and shared between route groups
	categoryService categories.Service
	tourRepo        tours.Repository
	bookingService  bookings.Service
}

// NewRouter creates a new router instance. notificationService may be nil,
// in which case booking emails are not sent and template routes report 503.
func NewRouter(cfg *config.Config, db *database.DB, notificationService notifications.NotificationService) *Router {
	r := &Router{
		config:        cfg,
		db:            db,
		notifications: notificationService,
	}
	if client := db.GetRedisClient(); client != nil {
		r.cacheService = cache.NewService(client)
	}
	return r
}

// BookingService returns the booking service once SetupRoutes has run.
func (r *Router) BookingService() bookings.Service {
	return r.bookingService
}

// SetJobs exposes the booking jobs on /status. Call before serving.
func (r *Router) SetJobs(jobs JobStatusReporter) {
	r.jobs = jobs
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes(engine *gin.Engine) {
	r.setupHealthRoutes(engine)
	r.setupSwaggerRoutes(engine)

	api := engine.Group(r.config.GetAPIBasePath())
	{
		r.setupAuthRoutes(api)

		// Categories before tours, tours before bookings
		r.setupCategoryRoutes(api)
		r.setupTourRoutes(api)
		r.setupBookingRoutes(api)

		r.setupDashboardRoutes(api)
		r.setupEmailTemplateRoutes(api)
	}
}

// setupHealthRoutes sets up health check and system status routes
func (r *Router) setupHealthRoutes(engine *gin.Engine) {
	engine.GET("/health", func(c *gin.Context) {
		if err := r.db.HealthCheck(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":    "unhealthy",
				"error":     err.Error(),
				"timestamp": time.Now(),
				"service":   serviceName,
			})
			return
		}

		checks := gin.H{"database": "ok", "redis": "ok"}
		if r.notifications != nil {
			if err := r.notifications.HealthCheck(c.Request.Context()); err != nil {
				checks["notifications"] = err.Error()
			} else {
				checks["notifications"] = r.notifications.Mode()
			}
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"checks":    checks,
			"timestamp": time.Now(),
			"service":   serviceName,
		})
	})

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
			"version": r.config.APIVersion,
		})
	})

	engine.GET("/status", func(c *gin.Context) {
		body := gin.H{
			"status":      "operational",
			"api_version": r.config.APIVersion,
			"timestamp":   time.Now(),
		}
		if r.jobs != nil {
			body["jobs"] = gin.H{"booking_completion": r.jobs.GetJobStatus()}
		}
		c.JSON(http.StatusOK, body)
	})
}

func (r *Router) setupSwaggerRoutes(engine *gin.Engine) {
	docs.SwaggerInfo.BasePath = r.config.GetAPIBasePath()
	engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}

// setupAuthRoutes configures authentication routes
func (r *Router) setupAuthRoutes(rg *gin.RouterGroup) {
	authRepo := auth.NewRepository(r.db.GetPostgreSQL())
	authService := auth.NewService(authRepo, r.config)
	authController := auth.NewController(authService)
	authRouter := auth.NewRouter(authController, r.config)

	authRouter.SetupRoutes(rg)
}

// setupCategoryRoutes configures category routes
func (r *Router) setupCategoryRoutes(rg *gin.RouterGroup) {
	categoryRepo := categories.NewRepository(r.db.GetPostgreSQL())
	categoryService := categories.NewService(categoryRepo)
	if r.cacheService != nil {
		categoryService.SetCacheService(r.cacheService)
	}

	// Tours validate their category through this service
	r.categoryService = categoryService

	categoryController := categories.NewController(categoryService)
	categories.SetupCategoryRoutes(rg, categoryController)
}

// setupTourRoutes configures tour catalogue routes
func (r *Router) setupTourRoutes(rg *gin.RouterGroup) {
	r.tourRepo = tours.NewRepository(r.db.GetPostgreSQL())

	tourService := tours.NewService(r.tourRepo, r.categoryService)
	if r.cacheService != nil {
		tourService.SetCacheService(r.cacheService)
	}

	tourController := tours.NewController(tourService)
	tours.SetupTourRoutes(rg, tourController)
}

// setupBookingRoutes configures checkout and booking management routes
func (r *Router) setupBookingRoutes(rg *gin.RouterGroup) {
	bookingRepo := bookings.NewRepository(r.db.GetPostgreSQL())
	catalog := tours.NewBookingCatalogAdapter(r.tourRepo)

	var notifier bookings.Notifier
	if r.notifications != nil {
		notifier = notifications.NewBookingNotifier(r.notifications)
	}

	var locks bookings.IdempotencyStore
	if client := r.db.GetRedisClient(); client != nil {
		locks = bookings.NewRedisIdempotencyStore(client, r.config.Redis.IdempotencyTTL)
	}

	r.bookingService = bookings.NewService(bookingRepo, catalog, notifier, locks)
	bookingController := bookings.NewController(r.bookingService)

	bookings.SetupBookingRoutes(rg, bookingController)
}

// setupDashboardRoutes configures the admin dashboard
func (r *Router) setupDashboardRoutes(rg *gin.RouterGroup) {
	dashboardService := dashboard.NewService(r.bookingService)
	dashboardController := dashboard.NewController(dashboardService)

	dashboard.SetupDashboardRoutes(rg, dashboardController)
}

// setupEmailTemplateRoutes configures email template preview routes
func (r *Router) setupEmailTemplateRoutes(rg *gin.RouterGroup) {
	controller := notifications.NewController(r.notifications)
	notifications.SetupEmailTemplateRoutes(rg, controller)
}
