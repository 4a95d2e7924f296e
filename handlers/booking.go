package handlers

import (
	"net/http"

	"vehiclecare/models"
	"vehiclecare/services/booking"

	"github.com/gin-gonic/gin"
)

// BookingHandler exposes the booking lifecycle to clients and vendors.
type BookingHandler struct {
	Service booking.BookingService
}

func NewBookingHandler(svc booking.BookingService) *BookingHandler {
	return &BookingHandler{Service: svc}
}

// SubmitBookingHandler creates a booking request for the calling client.
func (h *BookingHandler) SubmitBookingHandler(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var input models.BookingInput
	if !bindJSON(c, &input) {
		return
	}

	b, err := h.Service.SubmitBooking(c.Request.Context(), p, input)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Booking request sent", "booking": b})
}

func (h *BookingHandler) GetMyBookingsHandler(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	bookings, err := h.Service.ListClientBookings(c.Request.Context(), p)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, bookings)
}

func (h *BookingHandler) GetBookingHandler(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	b, err := h.Service.GetBooking(c.Request.Context(), p, c.Param("id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

func (h *BookingHandler) GetBookingHistoryHandler(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	events, err := h.Service.History(c.Request.Context(), p, c.Param("id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, events)
}

// GetUnhandledBookingsHandler lists requests still waiting for the vendor's decision.
func (h *BookingHandler) GetUnhandledBookingsHandler(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	bookings, err := h.Service.ListUnhandled(c.Request.Context(), p)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, bookings)
}

// DecideBookingHandler approves or denies a booking request.
func (h *BookingHandler) DecideBookingHandler(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var body struct {
		Approved *bool `json:"approved" binding:"required"`
	}
	if !bindJSON(c, &body) {
		return
	}

	b, err := h.Service.DecideBooking(c.Request.Context(), p, c.Param("id"), *body.Approved)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"isApproved": *body.Approved, "booking": b})
}

// AdvanceBookingHandler moves a booking on from the status the vendor last saw.
func (h *BookingHandler) AdvanceBookingHandler(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var body struct {
		Status string `json:"status" binding:"required"`
	}
	if !bindJSON(c, &body) {
		return
	}
	from, err := models.ParseBookingStatus(body.Status)
	if err != nil {
		writeServiceError(c, booking.WrapError(booking.ErrUnrecognizedTransition, "Unknown status", err))
		return
	}

	b, err := h.Service.AdvanceBooking(c.Request.Context(), p, c.Param("id"), from)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": b.Status, "booking": b})
}
