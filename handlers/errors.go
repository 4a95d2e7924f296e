package handlers

import (
	"errors"
	"net/http"

	"vehiclecare/middleware"
	"vehiclecare/models"
	"vehiclecare/services/booking"
	"vehiclecare/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// errorStatus maps each domain error kind to an HTTP status, checked in order.
var errorStatus = []struct {
	kind   error
	status int
}{
	{booking.ErrValidation, http.StatusBadRequest},
	{booking.ErrForbidden, http.StatusForbidden},
	{booking.ErrNotFound, http.StatusNotFound},
	{booking.ErrDuplicateRequest, http.StatusConflict},
	{booking.ErrInvalidTransition, http.StatusConflict},
	{booking.ErrStationClosed, http.StatusUnprocessableEntity},
	{booking.ErrStoreUnavailable, http.StatusServiceUnavailable},
}

// writeServiceError converts a service error into the JSON error response.
func writeServiceError(c *gin.Context, err error) {
	logger := getLogger(c)

	var be *booking.BookingError
	if !errors.As(err, &be) {
		logger.Error("unclassified service error", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Internal Server Error", "")
		return
	}

	status := http.StatusInternalServerError
	for _, m := range errorStatus {
		if errors.Is(be, m.kind) {
			status = m.status
			break
		}
	}
	if status >= http.StatusInternalServerError {
		logger.Error("service error", zap.Error(err))
	}
	utils.JSONError(c, status, be.Message, be.Kind.Error())
}

// principal returns the authenticated principal or aborts with 401.
func principal(c *gin.Context) (models.Principal, bool) {
	p, ok := middleware.GetPrincipal(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "Insufficient authorization", "")
	}
	return p, ok
}
