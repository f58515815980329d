package handlers

import (
	"net/http"

	"dimple/middleware"
	"dimple/models"
	"dimple/services/booking"

	"github.com/gin-gonic/gin"
)

// BookingService is wired in main before the router starts.
var BookingService booking.BookingService

// CreateBooking reserves a slot with a massager for the calling client.
func CreateBooking(c *gin.Context) {
	var req models.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	actor := middleware.GetActor(c)
	created, err := BookingService.CreateBooking(c.Request.Context(), actor, req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// GetBooking returns a single booking visible to the caller.
func GetBooking(c *gin.Context) {
	actor := middleware.GetActor(c)
	found, err := BookingService.GetBooking(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, found)
}

// ListBookings returns the caller's bookings, newest first.
func ListBookings(c *gin.Context) {
	actor := middleware.GetActor(c)
	page, limit := pageParams(c)
	bookings, total, err := BookingService.ListBookings(c.Request.Context(), actor, page, limit)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"bookings": bookings,
		"total":    total,
		"page":     page,
		"limit":    limit,
	})
}

// UpdateBookingStatus applies a lifecycle transition to a booking.
func UpdateBookingStatus(c *gin.Context) {
	var req models.UpdateBookingStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	actor := middleware.GetActor(c)
	updated, err := BookingService.SetBookingStatus(c.Request.Context(), actor, c.Param("id"), req.Status, req.Reason)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}
