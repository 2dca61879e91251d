package app

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/newrelic/go-agent/v3/newrelic"

	"fleetflow/internal/auth"
	"fleetflow/internal/handler"
	"fleetflow/internal/middleware"
	"fleetflow/internal/redis"
	"fleetflow/internal/websocket"
)

// RouterDeps contains all dependencies needed for the router.
type RouterDeps struct {
	VehicleHandler     *handler.VehicleHandler
	DriverHandler      *handler.DriverHandler
	TripHandler        *handler.TripHandler
	MaintenanceHandler *handler.MaintenanceHandler
	FinanceHandler     *handler.FinanceHandler
	AnalyticsHandler   *handler.AnalyticsHandler
	AuthHandler        *handler.AuthHandler
	Hub                *websocket.Hub
	Tokens             *auth.Service
	Idempotency        redis.IdempotencyStoreInterface // optional
	NewRelicApp        *newrelic.Application           // optional
}

// NewRouter creates a new Gin router with all routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()

	// Global middleware.
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.CORSMiddleware())

	if deps.NewRelicApp != nil {
		router.Use(nrgin.Middleware(deps.NewRelicApp))
	}

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Auth routes, no token required.
	authRoutes := router.Group("/auth")
	authRoutes.Use(middleware.Idempotency(deps.Idempotency))
	{
		authRoutes.POST("/register", deps.AuthHandler.Register)
		authRoutes.POST("/login", deps.AuthHandler.Login)
		authRoutes.POST("/forgot-password", deps.AuthHandler.ForgotPassword)
		authRoutes.POST("/reset-password", deps.AuthHandler.ResetPassword)
	}

	// API v1 routes.
	v1 := router.Group("/api/v1")
	v1.Use(middleware.Auth(deps.Tokens))
	v1.Use(middleware.Idempotency(deps.Idempotency))
	{
		vehicles := v1.Group("/registry/vehicles")
		{
			vehicles.GET("/", deps.VehicleHandler.List)
			vehicles.POST("/", deps.VehicleHandler.Create)
			vehicles.GET("/:id", deps.VehicleHandler.Get)
			vehicles.PATCH("/:id/out-of-service", deps.VehicleHandler.ToggleOutOfService)
		}

		drivers := v1.Group("/drivers")
		{
			drivers.GET("/", deps.DriverHandler.List)
			drivers.POST("/", deps.DriverHandler.Create)
			drivers.POST("/sync-expired-licenses", deps.DriverHandler.SyncExpiredLicenses)
			drivers.GET("/:id", deps.DriverHandler.Get)
			drivers.PATCH("/:id/status", deps.DriverHandler.UpdateStatus)
		}

		trips := v1.Group("/dispatch/trips")
		{
			trips.GET("/", deps.TripHandler.List)
			trips.POST("/", deps.TripHandler.Create)
			trips.GET("/:id", deps.TripHandler.Get)
			trips.POST("/:id/dispatch", deps.TripHandler.Dispatch)
			trips.POST("/:id/complete", deps.TripHandler.Complete)
			trips.POST("/:id/cancel", deps.TripHandler.Cancel)
			trips.GET("/:id/events", deps.TripHandler.Events)
		}

		maintenance := v1.Group("/maintenance")
		{
			maintenance.GET("/", deps.MaintenanceHandler.List)
			maintenance.POST("/", deps.MaintenanceHandler.Create)
			maintenance.PATCH("/:id/complete", deps.MaintenanceHandler.Complete)
		}

		finance := v1.Group("/finance")
		{
			finance.GET("/expenses/", deps.FinanceHandler.ListExpenses)
			finance.POST("/expenses/", deps.FinanceHandler.CreateExpense)
			finance.GET("/fuel/", deps.FinanceHandler.ListFuelLogs)
			finance.POST("/fuel/", deps.FinanceHandler.CreateFuelLog)
		}

		v1.GET("/dashboard/stats", deps.AnalyticsHandler.DashboardStats)

		analytics := v1.Group("/analytics")
		{
			analytics.GET("/roi", deps.AnalyticsHandler.ROI)
			analytics.GET("/fuel-efficiency", deps.AnalyticsHandler.FuelEfficiency)
			analytics.GET("/export", deps.AnalyticsHandler.Export)
		}

		if deps.Hub != nil {
			v1.GET("/ws", gin.WrapF(deps.Hub.ServeWS))
		}
	}

	return router
}
