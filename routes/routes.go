package routes

import (
	"fmt"
	"time"

	"vehiclecare/handlers"
	"vehiclecare/middleware"
	"vehiclecare/models"
	"vehiclecare/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", handlers.HealthHandler)
}

// RegisterRealtimeRoute registers the websocket stream booking events are pushed on.
func RegisterRealtimeRoute(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.GET("/ws", middleware.JWTAuthMiddleware(hb.Resolver, hb.AuthCache), hb.ServeWSHandler)
}

// RegisterUserRoutes registers endpoints on the caller's own directory entry.
func RegisterUserRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/me")
	{
		api.Use(middleware.JWTAuthMiddleware(hb.Resolver, hb.AuthCache))
		api.GET("", hb.GetMeHandler)
		api.PUT("/device", hb.RegisterDeviceHandler)
	}
}

// RegisterBookingRoutes registers the client-facing booking endpoints.
func RegisterBookingRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/bookings")
	{
		api.Use(middleware.JWTAuthMiddleware(hb.Resolver, hb.AuthCache))
		api.POST("", middleware.RequireRole(models.RoleClient), hb.SubmitBookingHandler)
		api.GET("/mine", middleware.RequireRole(models.RoleClient), hb.GetMyBookingsHandler)
		api.GET("/:id", hb.GetBookingHandler)
		api.GET("/:id/history", middleware.RequireRole(models.RoleVendor, models.RoleAdmin), hb.GetBookingHistoryHandler)
	}
}

// RegisterVendorRoutes registers station management and the booking decisions of a vendor.
func RegisterVendorRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/vendor")
	{
		api.Use(middleware.JWTAuthMiddleware(hb.Resolver, hb.AuthCache))
		api.Use(middleware.RequireRole(models.RoleVendor))

		api.GET("/bookings/unhandled", hb.GetUnhandledBookingsHandler)
		api.POST("/bookings/:id/decision", hb.DecideBookingHandler)
		api.POST("/bookings/:id/advance", hb.AdvanceBookingHandler)

		api.POST("/station", hb.CreateStationHandler)
		api.GET("/station", hb.GetOwnStationHandler)
		api.PATCH("/station", hb.UpdateStationHandler)
		api.POST("/station/open", hb.OpenStationHandler)
		api.POST("/station/close", hb.CloseStationHandler)
	}
}

// RegisterAdminRoutes sets up endpoints for admin operations.
func RegisterAdminRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	adminGroup := r.Group("/api/admin")
	{
		adminGroup.Use(middleware.JWTAuthMiddleware(hb.Resolver, hb.AuthCache))
		adminGroup.Use(middleware.RequireRole(models.RoleAdmin))
		adminGroup.GET("/stations", hb.AdminHandler.ListStationsHandler)
		adminGroup.PUT("/stations/:id/approve", hb.AdminHandler.ApproveStationHandler)
		adminGroup.DELETE("/stations/:id", hb.AdminHandler.DeleteStationHandler)
		adminGroup.GET("/users", hb.AdminHandler.ListUsersHandler)
		adminGroup.DELETE("/users/:id", hb.AdminHandler.DeleteUserHandler)
	}
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) error {
	// An empty list trusts no proxy, so client IPs come from the socket peer.
	if err := r.SetTrustedProxies(hb.TrustedProxies); err != nil {
		return fmt.Errorf("trusted proxies: %w", err)
	}

	origins := hb.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type", utils.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", utils.RequestIDHeader},
		AllowCredentials: len(hb.AllowedOrigins) > 0,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger())
	r.Use(utils.ErrorHandler())
	if hb.MaxRequestsPerMin > 0 {
		r.Use(middleware.RateLimitMiddleware(hb.MaxRequestsPerMin))
	}

	RegisterHealthRoute(r)
	RegisterRealtimeRoute(r, hb)
	RegisterUserRoutes(r, hb)
	RegisterBookingRoutes(r, hb)
	RegisterVendorRoutes(r, hb)
	RegisterAdminRoutes(r, hb)
	return nil
}
