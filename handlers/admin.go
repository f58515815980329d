package handlers

import (
	"net/http"

	"dimple/middleware"

	"github.com/gin-gonic/gin"
)

// ConfirmPaymentManually lets an admin settle a payment the gateway never
// reported, after verifying the transfer out of band.
func ConfirmPaymentManually(c *gin.Context) {
	actor := middleware.GetActor(c)
	booking, err := PaymentService.ConfirmManually(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, booking)
}

// RefundPayment marks a paid booking as refunded.
func RefundPayment(c *gin.Context) {
	actor := middleware.GetActor(c)
	booking, err := PaymentService.Refund(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, booking)
}

// ListPendingPayments returns bookings stuck with an unsettled payment.
func ListPendingPayments(c *gin.Context) {
	actor := middleware.GetActor(c)
	page, limit := pageParams(c)
	bookings, total, err := BookingService.ListPendingPayments(c.Request.Context(), actor, page, limit)
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
