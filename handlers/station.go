package handlers

import (
	"context"
	"net/http"

	"vehiclecare/models"
	"vehiclecare/services/station"

	"github.com/gin-gonic/gin"
)

// StationHandler serves a vendor's own service station.
type StationHandler struct {
	Service station.StationService
}

func NewStationHandler(svc station.StationService) *StationHandler {
	return &StationHandler{Service: svc}
}

func (h *StationHandler) CreateStationHandler(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var input models.StationInput
	if !bindJSON(c, &input) {
		return
	}
	st, err := h.Service.CreateStation(c.Request.Context(), p, input)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, st)
}

func (h *StationHandler) GetOwnStationHandler(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	view, err := h.Service.GetOwnStation(c.Request.Context(), p)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *StationHandler) UpdateStationHandler(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var input models.StationInput
	if !bindJSON(c, &input) {
		return
	}
	st, err := h.Service.UpdateStation(c.Request.Context(), p, input)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

func (h *StationHandler) OpenStationHandler(c *gin.Context) {
	h.setStatus(c, h.Service.OpenStation)
}

func (h *StationHandler) CloseStationHandler(c *gin.Context) {
	h.setStatus(c, h.Service.CloseStation)
}

func (h *StationHandler) setStatus(c *gin.Context, fn func(context.Context, models.Principal) (*models.ServiceStation, error)) {
	p, ok := principal(c)
	if !ok {
		return
	}
	st, err := fn(c.Request.Context(), p)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}
