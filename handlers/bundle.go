// File: handlers/bundle.go
package handlers

import (
	"vehiclecare/middleware"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
)

// HandlerBundle groups all endpoint handlers and what the router needs to guard them.
type HandlerBundle struct {
	Resolver          middleware.PrincipalResolver
	AuthCache         *redis.Client
	MaxRequestsPerMin int
	AllowedOrigins    []string
	TrustedProxies    []string

	// Booking endpoints.
	SubmitBookingHandler        gin.HandlerFunc
	GetMyBookingsHandler        gin.HandlerFunc
	GetBookingHandler           gin.HandlerFunc
	GetBookingHistoryHandler    gin.HandlerFunc
	GetUnhandledBookingsHandler gin.HandlerFunc
	DecideBookingHandler        gin.HandlerFunc
	AdvanceBookingHandler       gin.HandlerFunc

	// Station endpoints.
	CreateStationHandler gin.HandlerFunc
	GetOwnStationHandler gin.HandlerFunc
	UpdateStationHandler gin.HandlerFunc
	OpenStationHandler   gin.HandlerFunc
	CloseStationHandler  gin.HandlerFunc

	// User endpoints.
	GetMeHandler          gin.HandlerFunc
	RegisterDeviceHandler gin.HandlerFunc

	// Realtime endpoint.
	ServeWSHandler gin.HandlerFunc

	// Admin endpoints.
	AdminHandler *AdminHandler
}
