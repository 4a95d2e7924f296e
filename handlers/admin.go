// File: handlers/admin.go
package handlers

import (
	"net/http"
	"strconv"

	"vehiclecare/middleware"
	"vehiclecare/models"
	"vehiclecare/services/booking"
	"vehiclecare/services/station"
	"vehiclecare/services/user"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// AdminHandler encapsulates elevated admin-level operations.
type AdminHandler struct {
	StationService station.StationService
	UserService    user.UserService
	AuthCache      *redis.Client
}

// NewAdminHandler creates a new AdminHandler. authCache may be nil.
func NewAdminHandler(ss station.StationService, us user.UserService, authCache *redis.Client) *AdminHandler {
	return &AdminHandler{StationService: ss, UserService: us, AuthCache: authCache}
}

// ListStationsHandler lists approved stations, or the pending registration
// requests with ?approved=false.
func (ah *AdminHandler) ListStationsHandler(c *gin.Context) {
	approved := true
	if raw := c.Query("approved"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			writeServiceError(c, booking.NewError(booking.ErrValidation, "approved must be true or false"))
			return
		}
		approved = v
	}
	stations, err := ah.StationService.ListStations(c.Request.Context(), approved)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, stations)
}

func (ah *AdminHandler) ApproveStationHandler(c *gin.Context) {
	st, err := ah.StationService.ApproveStation(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

func (ah *AdminHandler) DeleteStationHandler(c *gin.Context) {
	if err := ah.StationService.DeleteStation(c.Request.Context(), c.Param("id")); err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Service station deleted"})
}

// ListUsersHandler returns the directory, optionally filtered with ?role=.
func (ah *AdminHandler) ListUsersHandler(c *gin.Context) {
	users, err := ah.UserService.ListUsers(c.Request.Context(), models.Role(c.Query("role")))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// DeleteUserHandler removes a principal and drops its cached tokens.
func (ah *AdminHandler) DeleteUserHandler(c *gin.Context) {
	id := c.Param("id")
	if err := ah.UserService.DeleteUser(c.Request.Context(), id); err != nil {
		writeServiceError(c, err)
		return
	}
	if err := middleware.InvalidatePrincipal(c.Request.Context(), ah.AuthCache, id); err != nil {
		zap.L().Warn("failed to drop cached tokens", zap.String("userID", id), zap.Error(err))
	}
	c.JSON(http.StatusOK, gin.H{"message": "User deleted"})
}
