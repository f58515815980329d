package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"dimple/services/booking"
	"dimple/services/massager"
	"dimple/services/payment"
	"dimple/services/rating"
	"dimple/utils"

	"github.com/gin-gonic/gin"
)

// handleServiceError translates service sentinel errors into HTTP responses.
func handleServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, booking.ErrNotFound):
		utils.JSONError(c, http.StatusNotFound, "Resource not found", err.Error())
	case errors.Is(err, booking.ErrUnauthorized):
		utils.JSONError(c, http.StatusForbidden, "Not allowed to perform this action", err.Error())
	case errors.Is(err, booking.ErrInvalidInput):
		utils.JSONError(c, http.StatusBadRequest, "Invalid request", err.Error())
	case errors.Is(err, booking.ErrSlotNotAvailable):
		utils.JSONError(c, http.StatusUnprocessableEntity, "Requested time is outside the massager's availability", err.Error())
	case errors.Is(err, booking.ErrSlotConflict):
		utils.JSONError(c, http.StatusConflict, "Requested time conflicts with an existing booking", err.Error())
	case errors.Is(err, booking.ErrSlotContended):
		utils.JSONError(c, http.StatusConflict, "Slot is being booked by someone else, try again", err.Error())
	case errors.Is(err, booking.ErrInvalidTransition):
		utils.JSONError(c, http.StatusConflict, "Booking state does not allow this transition", err.Error())
	case errors.Is(err, payment.ErrAlreadyPaid):
		utils.JSONError(c, http.StatusConflict, "Booking is already paid", err.Error())
	case errors.Is(err, payment.ErrGatewayUnavailable):
		utils.JSONError(c, http.StatusBadGateway, "Payment gateway is unavailable, try again later", err.Error())
	case errors.Is(err, rating.ErrBookingNotCompleted):
		utils.JSONError(c, http.StatusConflict, "Only completed bookings can be rated", err.Error())
	case errors.Is(err, rating.ErrAlreadyRated):
		utils.JSONError(c, http.StatusConflict, "Booking has already been rated", err.Error())
	case errors.Is(err, massager.ErrInvalidSchedule):
		utils.JSONError(c, http.StatusBadRequest, "Invalid availability schedule", err.Error())
	default:
		utils.JSONError(c, http.StatusInternalServerError, "Internal server error", err.Error())
	}
}

func pageParams(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return page, limit
}
