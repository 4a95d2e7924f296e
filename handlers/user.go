package handlers

import (
	"net/http"

	"vehiclecare/services/user"

	"github.com/gin-gonic/gin"
)

// UserHandler serves the caller's own directory entry.
type UserHandler struct {
	Service user.UserService
}

func NewUserHandler(svc user.UserService) *UserHandler {
	return &UserHandler{Service: svc}
}

func (h *UserHandler) GetMeHandler(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, p)
}

// RegisterDeviceHandler stores the FCM token booking events are pushed to.
func (h *UserHandler) RegisterDeviceHandler(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var body struct {
		FCMToken string `json:"fcmToken" binding:"required"`
	}
	if !bindJSON(c, &body) {
		return
	}
	if err := h.Service.RegisterDevice(c.Request.Context(), p, body.FCMToken); err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Device registered"})
}
