package handlers

import (
	"net/http"

	"vehiclecare/utils"

	"github.com/gin-gonic/gin"
)

func HealthHandler(c *gin.Context) {
	status := utils.GetHealthStatus()
	code := http.StatusOK
	if !status.Healthy {
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, status)
}
