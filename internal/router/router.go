package router

import (
	"github.com/gin-gonic/gin"
	"github.com/ikkim/hairable-backend/config"
	"github.com/ikkim/hairable-backend/internal/app/controller"
	"github.com/ikkim/hairable-backend/internal/app/model"
	"github.com/ikkim/hairable-backend/internal/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Router struct {
	storeController       *controller.StoreController
	catalogController     *controller.CatalogController
	reservationController *controller.ReservationController
	calendarController    *controller.CalendarController
	salesController       *controller.SalesController
	customerController    *controller.CustomerController
	adminController       *controller.AdminController
	authMiddleware        *middleware.AuthMiddleware
	config                *config.Config
}

func NewRouter(
	storeController *controller.StoreController,
	catalogController *controller.CatalogController,
	reservationController *controller.ReservationController,
	calendarController *controller.CalendarController,
	salesController *controller.SalesController,
	customerController *controller.CustomerController,
	adminController *controller.AdminController,
	authMiddleware *middleware.AuthMiddleware,
	cfg *config.Config,
) *Router {
	return &Router{
		storeController:       storeController,
		catalogController:     catalogController,
		reservationController: reservationController,
		calendarController:    calendarController,
		salesController:       salesController,
		customerController:    customerController,
		adminController:       adminController,
		authMiddleware:        authMiddleware,
		config:                cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.MetricsMiddleware())
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"message": "HAIRABLE API is running",
		})
	})
	router.GET(r.config.Metrics.Path, gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	v1.Use(r.authMiddleware.Authenticate())
	{
		stores := v1.Group("/stores")
		{
			stores.POST("", r.storeController.CreateStore)
			stores.GET("", r.storeController.ListStores)
			stores.GET("/:id", r.storeController.GetStore)
			stores.DELETE("/:id", r.storeController.DeleteStore)

			stores.GET("/:id/staff", r.storeController.ListStaff)
			stores.POST("/:id/staff", r.storeController.AddStaff)
			stores.DELETE("/:id/staff/:staff_id", r.storeController.RemoveStaff)
			stores.GET("/:id/staff/:staff_id/schedule", r.calendarController.GetStaffSchedule)

			stores.GET("/:id/services", r.catalogController.ListServices)
			stores.POST("/:id/services", r.catalogController.CreateService)

			stores.POST("/:id/reservations", r.reservationController.CreateReservation)
			stores.GET("/:id/reservations", r.reservationController.ListReservations)

			stores.PUT("/:id/working-hours", r.calendarController.UpsertWorkingHours)
			stores.GET("/:id/working-staff", r.calendarController.GetWorkingStaff)
			stores.GET("/:id/calendar", r.calendarController.GetCalendar)
			stores.POST("/:id/calendar/:date/rebuild", r.calendarController.RebuildTally)

			stores.GET("/:id/sales", r.salesController.GetSummary)
			stores.GET("/:id/sales/export", r.salesController.Export)
			stores.GET("/:id/sales/daily/:date", r.salesController.GetDailyReport)
		}

		services := v1.Group("/services")
		{
			services.GET("/:id", r.catalogController.GetService)
			services.GET("/:id/availability", r.catalogController.CheckAvailability)
			services.PUT("/:id/designers", r.catalogController.SetDesigners)
			services.PUT("/:id/inventory", r.catalogController.SetInventory)
		}

		v1.GET("/service-categories", r.catalogController.ListCategories)
		v1.POST("/service-categories", r.catalogController.CreateCategory)

		reservations := v1.Group("/reservations")
		{
			reservations.GET("/:id", r.reservationController.GetReservation)
			reservations.PATCH("/:id/status", r.reservationController.UpdateStatus)
			reservations.POST("/:id/sales", r.reservationController.RecordSales)
			reservations.POST("/:id/sales/correction", r.reservationController.CorrectSales)
		}

		customers := v1.Group("/customers")
		{
			customers.GET("/:id", r.customerController.GetCustomer)
			customers.PATCH("/:id/membership", r.customerController.UpdateMembership)
		}

		admin := v1.Group("/admin")
		admin.Use(r.authMiddleware.RequireRole(model.RoleAdmin))
		{
			admin.POST("/ledger/reconcile", r.adminController.ReconcileLedger)
		}
	}

	return router
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		allowed := false
		for _, allowedOrigin := range allowedOrigins {
			if origin == allowedOrigin || allowedOrigin == "*" {
				allowed = true
				break
			}
		}

		if allowed {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With, X-Request-ID")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
